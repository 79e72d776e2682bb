package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a log line for filtering (e.g. volume_discovered).
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldVolume is the volume folder a log line refers to.
	FieldVolume = "volume"
	// FieldPlaylist is the five-digit playlist id.
	FieldPlaylist = "playlist"
	// FieldItemIndex is the 0-based play item position within a playlist.
	FieldItemIndex = "item_index"
	// FieldScanID identifies one scan recorded in the catalog.
	FieldScanID = "scan_id"
)

type contextKey int

const (
	volumeKey contextKey = iota
	scanIDKey
)

// WithVolume tags ctx with the volume being processed.
func WithVolume(ctx context.Context, volume string) context.Context {
	return context.WithValue(ctx, volumeKey, volume)
}

// WithScanID tags ctx with the catalog scan id.
func WithScanID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, scanIDKey, id)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if volume, ok := ctx.Value(volumeKey).(string); ok && volume != "" {
		fields = append(fields, slog.String(FieldVolume, volume))
	}
	if id, ok := ctx.Value(scanIDKey).(string); ok && id != "" {
		fields = append(fields, slog.String(FieldScanID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
