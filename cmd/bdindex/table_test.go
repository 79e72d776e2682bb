package main

import (
	"strings"
	"testing"

	"bdindex/internal/timecode"
)

func TestFormatRate(t *testing.T) {
	tests := []struct {
		rate timecode.Rate
		want string
	}{
		{rate: timecode.Film, want: "23.976 (24000/1001)"},
		{rate: timecode.PAL, want: "25"},
		{rate: timecode.Rate{}, want: "-"},
	}
	for _, tt := range tests {
		if got := formatRate(tt.rate); got != tt.want {
			t.Fatalf("formatRate(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestFormatFrames(t *testing.T) {
	tests := []struct {
		frames []int64
		want   string
	}{
		{frames: nil, want: "-"},
		{frames: []int64{0, 24, 1439}, want: "0, 24, 1439"},
		{frames: []int64{1, 2, 3, 4, 5, 6}, want: "1, 2, 3, 4, 5, 6"},
		{frames: []int64{1, 2, 3, 4, 5, 6, 7, 8}, want: "1, 2, 3, …, 6, 7, 8"},
	}
	for _, tt := range tests {
		if got := formatFrames(tt.frames); got != tt.want {
			t.Fatalf("formatFrames(%v) = %q, want %q", tt.frames, got, tt.want)
		}
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}}, []columnAlignment{alignRight})
	if !strings.Contains(out, "only") || !strings.Contains(out, "╭") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}

func TestStylerCheck(t *testing.T) {
	plain := styler{}.check("Log directory", levelOK, "/tmp (read/write ok)")
	if plain != "  Log directory:       [OK] /tmp (read/write ok)" {
		t.Fatalf("unexpected check line %q", plain)
	}
	if got := (styler{}).check("Catalog directory", levelError, ""); got != "  Catalog directory:   [ERROR]" {
		t.Fatalf("unexpected check line %q", got)
	}
	if colored := (styler{color: true}).check("Release root", levelWarn, "x"); !strings.Contains(colored, "[WARN] x") {
		t.Fatalf("expected label in coloured line, got %q", colored)
	}
}

func TestStylerHeading(t *testing.T) {
	lines := styler{}.heading(" Item 1 ")
	if len(lines) != 2 || lines[0] != "== Item 1 ==" || lines[1] != strings.Repeat("-", 12) {
		t.Fatalf("unexpected heading %q", lines)
	}
}
