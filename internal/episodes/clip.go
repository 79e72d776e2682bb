package episodes

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"bdindex/internal/timecode"
)

// Clip is a lazily evaluated video node owned by the frame-processing engine.
type Clip interface {
	NumFrames() int
	FrameRate() timecode.Rate
	// Slice returns frames [start, end).
	Slice(start, end int) (Clip, error)
	// Concat appends others after the receiver.
	Concat(others ...Clip) (Clip, error)
}

// Indexer opens a media file as a Clip.
type Indexer func(ctx context.Context, path string) (Clip, error)

// FrameRange is an inclusive range of frames. Negative values count back from
// the end of the clip, so {0, -1} is the whole clip.
type FrameRange struct {
	Start int
	End   int
}

// Len is the number of frames in r. It is only meaningful for ranges with
// non-negative bounds.
func (r FrameRange) Len() int {
	return r.End - r.Start + 1
}

func (r FrameRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// ParseFrameRange reads "START-END" or "START:END". Either bound may be
// negative, e.g. "-2158:-1". An empty string or "-" means no range and
// returns nil.
func ParseFrameRange(value string) (*FrameRange, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "-" {
		return nil, nil
	}
	sep := strings.Index(value, ":")
	if sep < 0 {
		// Skip a leading minus so "-10-5" splits after the first bound.
		if i := strings.Index(value[1:], "-"); i >= 0 {
			sep = i + 1
		}
	}
	if sep <= 0 || sep == len(value)-1 {
		return nil, fmt.Errorf("%w: %q (want START-END)", ErrInvalidRange, value)
	}
	start, err := strconv.Atoi(strings.TrimSpace(value[:sep]))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidRange, value, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(value[sep+1:]))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidRange, value, err)
	}
	return &FrameRange{Start: start, End: end}, nil
}

// normalize resolves negative bounds against a clip of n frames.
func (r FrameRange) normalize(n int) (FrameRange, error) {
	out := r
	if out.Start < 0 {
		out.Start += n
	}
	if out.End < 0 {
		out.End += n
	}
	if out.Start < 0 || out.End >= n || out.Start > out.End {
		return FrameRange{}, fmt.Errorf("%w: %s on a %d frame clip", ErrInvalidRange, r, n)
	}
	return out, nil
}

// Trim keeps the given inclusive ranges of clip, in the order given.
func Trim(clip Clip, ranges ...FrameRange) (Clip, error) {
	if len(ranges) == 0 {
		return nil, ErrEmptyRange
	}
	n := clip.NumFrames()
	parts := make([]Clip, 0, len(ranges))
	for _, r := range ranges {
		norm, err := r.normalize(n)
		if err != nil {
			return nil, err
		}
		part, err := clip.Slice(norm.Start, norm.End+1)
		if err != nil {
			return nil, fmt.Errorf("slice %s: %w", norm, err)
		}
		parts = append(parts, part)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return parts[0].Concat(parts[1:]...)
}

// MatchNC cuts a creditless OP/ED to the length of the credited range. A nil
// range returns nc unchanged.
func MatchNC(nc Clip, r *FrameRange) (Clip, error) {
	if r == nil {
		return nc, nil
	}
	length := r.Len()
	if length <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRange, r)
	}
	if length >= nc.NumFrames() {
		return nc, nil
	}
	return nc.Slice(0, length)
}
