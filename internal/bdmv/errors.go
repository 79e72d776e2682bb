package bdmv

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPath           = errors.New("invalid path")
	ErrInvalidVolume         = errors.New("invalid volume")
	ErrPlaylistNotFound      = errors.New("playlist not found")
	ErrAmbiguousPlaylist     = errors.New("ambiguous playlist")
	ErrMalformedPlaylist     = errors.New("malformed playlist")
	ErrMissingMediaReference = errors.New("missing media reference")
	ErrMissingField          = errors.New("missing field")
	ErrMissingFrameRate      = errors.New("missing frame rate")
	ErrUnknownFrameRate      = errors.New("unknown frame rate")
	ErrNoVolumes             = errors.New("no volumes")
)

// ParseError reports a playlist failure with the playlist path and, when the
// failure belongs to one play item, its 0-based index. Item is -1 otherwise.
type ParseError struct {
	Playlist string
	Item     int
	Err      error
}

func (e *ParseError) Error() string {
	if e.Item < 0 {
		return fmt.Sprintf("parse %s: %v", e.Playlist, e.Err)
	}
	return fmt.Sprintf("parse %s: play item %d: %v", e.Playlist, e.Item, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// wrap tags err with marker so errors.Is can classify it while the message
// keeps the operation context.
func wrap(marker error, operation, message string, err error) error {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	detail := strings.Join(parts, ": ")
	switch {
	case err != nil && detail != "":
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	case err != nil:
		return fmt.Errorf("%w: %w", marker, err)
	case detail != "":
		return fmt.Errorf("%w: %s", marker, detail)
	default:
		return marker
	}
}
