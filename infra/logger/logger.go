package logger

import corelogger "github.com/sagip-ops/sagip/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods. It is the default for
// tests and optional subsystems.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)        {}
func (NopLogger) Infof(string, ...any)         {}
func (NopLogger) Warnf(string, ...any)         {}
func (NopLogger) Errorf(string, ...any)        {}
func (NopLogger) Infow(string, map[string]any) {}

// New returns a Logger scoped to the given component. Output format is
// chosen from the APP_ENV environment variable.
func New(component string) Logger {
	return NewZerologLogger(component)
}
