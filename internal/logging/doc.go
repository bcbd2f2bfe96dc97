// Package logging provides structured logging for the prehook CLI.
//
// It builds on log/slog with a TTY-optimized text handler (colorized when
// the terminal supports it), a JSON handler for machine consumption, a
// MultiHandler for writing to several sinks, and helpers for carrying a
// logger through context.Context.
//
// Verbosity maps to slog levels:
//
//	0 (default) -> Info
//	1 (-v)      -> Debug
//	2 (-vv)     -> Trace (Debug - 4)
package logging
