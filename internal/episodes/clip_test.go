package episodes_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"bdindex/internal/episodes"
	"bdindex/internal/timecode"
)

// fakeClip records which source frames it holds.
type fakeClip struct {
	frames []int
	rate   timecode.Rate
}

func newFakeClip(n int) *fakeClip {
	frames := make([]int, n)
	for i := range frames {
		frames[i] = i
	}
	return &fakeClip{frames: frames, rate: timecode.Film}
}

func (c *fakeClip) NumFrames() int { return len(c.frames) }

func (c *fakeClip) FrameRate() timecode.Rate { return c.rate }

func (c *fakeClip) Slice(start, end int) (episodes.Clip, error) {
	if start < 0 || end > len(c.frames) || start > end {
		return nil, fmt.Errorf("bad slice %d:%d", start, end)
	}
	return &fakeClip{frames: append([]int(nil), c.frames[start:end]...), rate: c.rate}, nil
}

func (c *fakeClip) Concat(others ...episodes.Clip) (episodes.Clip, error) {
	out := &fakeClip{frames: append([]int(nil), c.frames...), rate: c.rate}
	for _, other := range others {
		out.frames = append(out.frames, other.(*fakeClip).frames...)
	}
	return out, nil
}

func framesOf(t *testing.T, clip episodes.Clip) []int {
	t.Helper()
	fc, ok := clip.(*fakeClip)
	if !ok {
		t.Fatalf("unexpected clip type %T", clip)
	}
	return fc.frames
}

func TestTrim(t *testing.T) {
	clip := newFakeClip(10)
	cases := []struct {
		name   string
		ranges []episodes.FrameRange
		want   []int
	}{
		{"single", []episodes.FrameRange{{Start: 2, End: 4}}, []int{2, 3, 4}},
		{"whole", []episodes.FrameRange{{Start: 0, End: -1}}, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"negative", []episodes.FrameRange{{Start: -3, End: -2}}, []int{7, 8}},
		{"joined", []episodes.FrameRange{{Start: 0, End: 1}, {Start: 8, End: 9}}, []int{0, 1, 8, 9}},
		{"single frame", []episodes.FrameRange{{Start: 5, End: 5}}, []int{5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := episodes.Trim(clip, tc.ranges...)
			if err != nil {
				t.Fatalf("Trim: %v", err)
			}
			if diff := cmp.Diff(tc.want, framesOf(t, got)); diff != "" {
				t.Fatalf("frames mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTrimErrors(t *testing.T) {
	clip := newFakeClip(10)
	if _, err := episodes.Trim(clip); !errors.Is(err, episodes.ErrEmptyRange) {
		t.Fatalf("expected ErrEmptyRange, got %v", err)
	}
	for _, r := range []episodes.FrameRange{{Start: 5, End: 3}, {Start: 0, End: 10}, {Start: -11, End: 2}} {
		if _, err := episodes.Trim(clip, r); !errors.Is(err, episodes.ErrInvalidRange) {
			t.Fatalf("Trim(%v): expected ErrInvalidRange, got %v", r, err)
		}
	}
}

func TestMatchNC(t *testing.T) {
	nc := newFakeClip(2200)

	got, err := episodes.MatchNC(nc, &episodes.FrameRange{Start: 1000, End: 3157})
	if err != nil {
		t.Fatalf("MatchNC: %v", err)
	}
	if got.NumFrames() != 2158 {
		t.Fatalf("NumFrames = %d, want 2158", got.NumFrames())
	}

	same, err := episodes.MatchNC(nc, nil)
	if err != nil || same != episodes.Clip(nc) {
		t.Fatalf("expected nil range to return clip unchanged, got %v %v", same, err)
	}

	longer, err := episodes.MatchNC(nc, &episodes.FrameRange{Start: 0, End: 2999})
	if err != nil || longer.NumFrames() != 2200 {
		t.Fatalf("expected short NC kept whole, got %v %v", longer, err)
	}
}

func TestParseFrameRange(t *testing.T) {
	tests := []struct {
		in      string
		want    *episodes.FrameRange
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "-", want: nil},
		{in: "0-2157", want: &episodes.FrameRange{Start: 0, End: 2157}},
		{in: "100:200", want: &episodes.FrameRange{Start: 100, End: 200}},
		{in: "-2158:-1", want: &episodes.FrameRange{Start: -2158, End: -1}},
		{in: "-10--1", want: &episodes.FrameRange{Start: -10, End: -1}},
		{in: "12", wantErr: true},
		{in: "a-b", wantErr: true},
		{in: "5-", wantErr: true},
	}
	for _, tt := range tests {
		got, err := episodes.ParseFrameRange(tt.in)
		if tt.wantErr {
			if !errors.Is(err, episodes.ErrInvalidRange) {
				t.Fatalf("ParseFrameRange(%q) error = %v, want ErrInvalidRange", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseFrameRange(%q): %v", tt.in, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("ParseFrameRange(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
