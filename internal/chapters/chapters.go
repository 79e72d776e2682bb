// Package chapters builds chapter lists from playlist items and writes them
// as OGM text or Matroska XML chapter files.
package chapters

import (
	"fmt"
	"strings"

	"bdindex/internal/bdmv"
)

// Chapter is a named frame position.
type Chapter struct {
	Name  string
	Frame int64
}

// DefaultNameTemplate numbers chapters from 1.
const DefaultNameTemplate = "Chapter %02d"

// FromFrames names each frame with template, which receives the 1-based
// chapter number.
func FromFrames(frames []int64, template string) []Chapter {
	if strings.TrimSpace(template) == "" {
		template = DefaultNameTemplate
	}
	out := make([]Chapter, 0, len(frames))
	for i, frame := range frames {
		out = append(out, Chapter{Name: fmt.Sprintf(template, i+1), Frame: frame})
	}
	return out
}

// FromItem builds the chapters of one playlist item.
func FromItem(item bdmv.Item, template string) []Chapter {
	return FromFrames(item.Chapters, template)
}

// Shift moves every chapter by frames: positive values start chapters later,
// negative values earlier. Frames never go below zero.
func Shift(chapters []Chapter, frames int64) []Chapter {
	out := make([]Chapter, len(chapters))
	for i, ch := range chapters {
		ch.Frame = max(ch.Frame+frames, 0)
		out[i] = ch
	}
	return out
}

// Rename replaces chapter names by position. Empty names, and chapters past
// the end of names, keep their current name.
func Rename(chapters []Chapter, names []string) []Chapter {
	out := make([]Chapter, len(chapters))
	copy(out, chapters)
	for i := range out {
		if i < len(names) && strings.TrimSpace(names[i]) != "" {
			out[i].Name = names[i]
		}
	}
	return out
}
