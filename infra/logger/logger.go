package logger

import corelogger "github.com/kilianp07/kelheim/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Infow(string, map[string]any)  {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// New returns a Logger for the given component, honoring the level and
// format set by Configure.
func New(component string) Logger {
	return NewZerologLogger(component)
}

// WithFields returns a logger that adds fields to every entry, e.g. the run
// id of the JVM whose output is relayed. Loggers that cannot carry fields
// are returned unchanged.
func WithFields(l Logger, fields map[string]any) Logger {
	z, ok := l.(*ZerologLogger)
	if !ok || len(fields) == 0 {
		return l
	}
	return &ZerologLogger{log: z.log.With().Fields(fields).Logger()}
}
