package timecode

import (
	"errors"
	"math/big"
	"strings"
	"testing"
)

func TestTicksToFrame(t *testing.T) {
	ticks := []int64{0, 45000, 2700000}
	tests := []struct {
		name string
		rate Rate
		want []int64
	}{
		{name: "23.976", rate: Film, want: []int64{0, 24, 1439}},
		{name: "25", rate: PAL, want: []int64{0, 25, 1500}},
		{name: "29.97", rate: NTSC, want: []int64{0, 30, 1798}},
		{name: "59.94", rate: NTSC5994, want: []int64{0, 60, 3596}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for i, tick := range ticks {
				if got := TicksToFrame(tick, tc.rate); got != tc.want[i] {
					t.Fatalf("TicksToFrame(%d, %s) = %d, want %d", tick, tc.rate, got, tc.want[i])
				}
			}
		})
	}
}

func TestSecondsToFrameRoundsHalfToEven(t *testing.T) {
	cases := []struct {
		seconds *big.Rat
		want    int64
	}{
		{big.NewRat(1, 48), 0},  // 0.5
		{big.NewRat(3, 48), 2},  // 1.5
		{big.NewRat(5, 48), 2},  // 2.5
		{big.NewRat(7, 48), 4},  // 3.5
		{big.NewRat(-1, 48), 0}, // -0.5
		{big.NewRat(-3, 48), -2},
	}
	for _, tc := range cases {
		if got := SecondsToFrame(tc.seconds, Film24); got != tc.want {
			t.Fatalf("SecondsToFrame(%s) = %d, want %d", tc.seconds.RatString(), got, tc.want)
		}
	}
}

func TestFrameToTimestamp(t *testing.T) {
	cases := []struct {
		frame     int64
		rate      Rate
		precision int
		want      string
	}{
		{0, Film, 3, "00:00:00.000"},
		// 0.0417083s truncates, it does not round up to .042.
		{1, Film, 3, "00:00:00.041"},
		{24, Film, 3, "00:00:01.001"},
		{1439, Film, 3, "00:01:00.018"},
		{1439, Film, 0, "00:01:00"},
		{1439, Film, 9, "00:01:00.018291666"},
		{90000, PAL, 3, "01:00:00.000"},
		{1798, NTSC, 6, "00:00:59.993266"},
	}
	for _, tc := range cases {
		got, err := FrameToTimestamp(tc.frame, tc.rate, tc.precision)
		if err != nil {
			t.Fatalf("FrameToTimestamp(%d): %v", tc.frame, err)
		}
		if got != tc.want {
			t.Fatalf("FrameToTimestamp(%d, %s, %d) = %q, want %q", tc.frame, tc.rate, tc.precision, got, tc.want)
		}
	}
}

func TestFrameToTimestampRejectsPrecision(t *testing.T) {
	for _, precision := range []int{-3, 1, 2, 4, 12} {
		if _, err := FrameToTimestamp(10, Film, precision); !errors.Is(err, ErrInvalidPrecision) {
			t.Fatalf("precision %d: expected ErrInvalidPrecision, got %v", precision, err)
		}
	}
}

func TestPrecisionsAgreeOnWholeSeconds(t *testing.T) {
	for _, rate := range []Rate{Film, Film24, PAL, NTSC, PAL50, NTSC5994} {
		for ticks := int64(0); ticks < 45000*130; ticks += 44987 {
			frame := TicksToFrame(ticks, rate)
			fine, err := FrameToTimestamp(frame, rate, 3)
			if err != nil {
				t.Fatalf("precision 3: %v", err)
			}
			coarse, err := FrameToTimestamp(frame, rate, 0)
			if err != nil {
				t.Fatalf("precision 0: %v", err)
			}
			if !strings.HasPrefix(fine, coarse+".") {
				t.Fatalf("rate %s frame %d: %q and %q disagree", rate, frame, fine, coarse)
			}
		}
	}
}

func TestParseRate(t *testing.T) {
	got, err := ParseRate("48000/2002")
	if err != nil {
		t.Fatalf("ParseRate: %v", err)
	}
	if got != Film {
		t.Fatalf("expected reduced 24000/1001, got %s", got)
	}
	if got, err := ParseRate("25"); err != nil || got != PAL {
		t.Fatalf("ParseRate(25) = %v, %v", got, err)
	}
	for _, bad := range []string{"", "x/1", "0/1", "24/0", "-24/1"} {
		if _, err := ParseRate(bad); !errors.Is(err, ErrInvalidRate) {
			t.Fatalf("ParseRate(%q): expected ErrInvalidRate, got %v", bad, err)
		}
	}
}
