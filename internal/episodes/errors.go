package episodes

import "errors"

var (
	ErrEpisodeOutOfRange = errors.New("episode out of range")
	ErrTooManyValues     = errors.New("too many values")
	ErrNoEpisodes        = errors.New("no episodes")
	ErrNoRange           = errors.New("no frame range")
	ErrEmptyRange        = errors.New("empty frame range")
	ErrInvalidRange      = errors.New("invalid frame range")
	ErrNoChapters        = errors.New("episode has no playlist chapters")
)
