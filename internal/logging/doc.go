// Package logging assembles structured slog loggers and formatting helpers used
// across weeklyschedule.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, tags every record of a build with its run identifier, and exposes
// a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
