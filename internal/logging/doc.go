// Package logging assembles structured slog loggers and formatting helpers used
// across bdindex commands.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes helpers so library code can tag log lines with the volume,
// playlist, and scan they belong to. Per-component level overrides from the
// [logging] config section are applied through ComponentLogger. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
package logging
