// Package logger defines the logging contract used across the engine.
package logger

// Logger exposes leveled logging. Structured variants carry a field map.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	// Infow logs a message with structured fields.
	Infow(msg string, fields map[string]any)
}
