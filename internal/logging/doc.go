// Package logging assembles structured slog loggers and formatting helpers used
// across ukrlit commands.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes helpers so harvest code can tag log lines with run IDs,
// source names, and event types. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
package logging
