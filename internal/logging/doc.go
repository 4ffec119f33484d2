// Package logging assembles structured slog loggers and formatting helpers used
// across bankrip.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so extraction code can tag log lines with
// run IDs and banks. The console handler lifts the bank and component into a
// short prefix so per-sample warnings stay readable during long runs. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
