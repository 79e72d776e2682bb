package bdmv

import (
	"log/slog"

	"bdindex/internal/logging"
)

// DefaultMaxDepth bounds volume discovery below each top-level folder.
const DefaultMaxDepth = 16

// Option customizes discovery and parsing.
type Option func(*options)

type options struct {
	logger           *slog.Logger
	maxDepth         int
	allowChapterless bool
}

// WithLogger routes discovery and parse diagnostics to logger. Callers
// normally pass a component logger named "bdmv".
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxDepth caps how many folder levels discovery descends. Values below
// one keep the default.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithChapterless accepts playlists whose mark table is present but holds no
// marks. Their items carry no chapters. A missing mark table is still an error.
func WithChapterless(allow bool) Option {
	return func(o *options) {
		o.allowChapterless = allow
	}
}

func buildOptions(opts []Option) options {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	return o
}
