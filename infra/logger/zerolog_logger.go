package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger creates a ZerologLogger writing to stdout. When APP_ENV
// is "dev" the console writer is used, otherwise JSON lines. Every entry
// carries the component field.
func NewZerologLogger(component string) Logger {
	var out io.Writer = os.Stdout
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return NewZerologLoggerTo(component, out)
}

// NewZerologLoggerTo creates a ZerologLogger writing to the given writer.
func NewZerologLoggerTo(component string, out io.Writer) Logger {
	z := zerolog.New(out).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}

func (l *ZerologLogger) Infow(msg string, fields map[string]any) {
	ev := l.log.Info()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}
