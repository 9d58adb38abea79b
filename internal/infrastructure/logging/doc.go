// Package logging provides structured logging built on log/slog.
//
// Every component receives a *Logger (usually narrowed with With) rather
// than writing to a global. Output format, level, and destination come from
// the logging section of config.yaml.
package logging
