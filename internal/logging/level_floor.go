package logging

import (
	"context"
	"log/slog"
)

// floorHandler drops records below floor before they reach next. The
// handler it wraps is built at the most verbose level any component asks
// for, so each component logger raises its own floor.
type floorHandler struct {
	next  slog.Handler
	floor slog.Level
}

func newFloorHandler(next slog.Handler, floor slog.Level) slog.Handler {
	if next == nil {
		return NoopHandler{}
	}
	if inner, ok := next.(*floorHandler); ok {
		next = inner.next
	}
	return &floorHandler{next: next, floor: floor}
}

func (h *floorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.floor && h.next.Enabled(ctx, level)
}

func (h *floorHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level < h.floor {
		return nil
	}
	return h.next.Handle(ctx, record)
}

func (h *floorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &floorHandler{next: h.next.WithAttrs(attrs), floor: h.floor}
}

func (h *floorHandler) WithGroup(name string) slog.Handler {
	return &floorHandler{next: h.next.WithGroup(name), floor: h.floor}
}

// WithLevelOverride returns a logger whose minimum level is level, replacing
// any floor already set on logger.
func WithLevelOverride(logger *slog.Logger, level slog.Level) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	return slog.New(newFloorHandler(logger.Handler(), level))
}
