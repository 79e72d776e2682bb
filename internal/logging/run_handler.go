package logging

import (
	"context"
	"log/slog"
)

// FieldRunID identifies one CLI invocation across every line it logs.
const FieldRunID = "run_id"

// runHandler stamps the run id on every record and copies the volume and
// scan id carried by the record's context, so InfoContext(ctx, ...) needs no
// explicit fields.
type runHandler struct {
	next  slog.Handler
	runID string
}

func newRunHandler(next slog.Handler, runID string) slog.Handler {
	if next == nil {
		return NoopHandler{}
	}
	return &runHandler{next: next, runID: runID}
}

func (h *runHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *runHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.runID != "" {
		record.AddAttrs(slog.String(FieldRunID, h.runID))
	}
	if fields := ContextFields(ctx); len(fields) > 0 {
		record.AddAttrs(fields...)
	}
	return h.next.Handle(ctx, record)
}

func (h *runHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &runHandler{next: h.next.WithAttrs(attrs), runID: h.runID}
}

func (h *runHandler) WithGroup(name string) slog.Handler {
	return &runHandler{next: h.next.WithGroup(name), runID: h.runID}
}
