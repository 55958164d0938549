package logging

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Logger is the primary interface for logging with a consistent interface
// without creating a hard dependency between the UI layer and lower layers of
// the stack. It is inspired by a subset of the functions defined by
// terminal.UI which are generic enough for lower level packages to consume.
// It is expected that implementations of this interface will respect the
// CHAMBER_LOG_LEVEL environment variable.
type Logger interface {
	// Debug logs at the DEBUG log level
	Debug(message string)

	// Error logs at the ERROR log level
	Error(message string)

	// ErrorWithContext logs at the ERROR log level including additional context so
	// users can easily identify issues.
	ErrorWithContext(err error, sub string, ctx ...string)

	// Info logs at the INFO log level
	Info(message string)

	// Trace logs at the TRACE log level
	Trace(message string)

	// Warning logs at the WARN log level
	Warning(message string)
}

// HCLogger adapts a hclog.Logger to the Logger interface. The level comes
// from CHAMBER_LOG_LEVEL; unset means only errors are emitted.
type HCLogger struct {
	log hclog.Logger
}

// Default returns the standard logger for CLI use.
func Default() *HCLogger {
	level := hclog.LevelFromString(os.Getenv("CHAMBER_LOG_LEVEL"))
	if level == hclog.NoLevel {
		level = hclog.Error
	}
	return &HCLogger{log: hclog.New(&hclog.LoggerOptions{
		Name:   "chamber",
		Level:  level,
		Output: os.Stderr,
	})}
}

// Debug logs at the DEBUG log level
func (l *HCLogger) Debug(message string) {
	l.log.Debug(message)
}

// Error logs at the ERROR log level
func (l *HCLogger) Error(message string) {
	l.log.Error(message)
}

// ErrorWithContext logs at the ERROR log level including additional context so
// users can easily identify issues.
func (l *HCLogger) ErrorWithContext(err error, sub string, ctx ...string) {
	l.log.Error(fmt.Sprintf("err: %s", err))
	l.log.Error(sub)

	for _, entry := range ctx {
		l.log.Error(entry)
	}
}

// Info logs at the INFO log level
func (l *HCLogger) Info(message string) {
	l.log.Info(message)
}

// Trace logs at the TRACE log level
func (l *HCLogger) Trace(message string) {
	l.log.Trace(message)
}

// Warning logs at the WARN log level
func (l *HCLogger) Warning(message string) {
	l.log.Warn(message)
}

type TestLogger struct {
	log func(args ...interface{})
}

// Debug logs at the DEBUG log level
func (l *TestLogger) Debug(message string) {
	l.log(message)
}

// Error logs at the ERROR log level
func (l *TestLogger) Error(message string) {
	l.log(message)
}

// ErrorWithContext logs at the ERROR log level including additional context so
// users can easily identify issues.
func (l *TestLogger) ErrorWithContext(err error, sub string, ctx ...string) {
	l.log(fmt.Sprintf("err: %s", err))
	l.log(sub)

	for _, entry := range ctx {
		l.log(entry)
	}
}

// Info logs at the INFO log level
func (l *TestLogger) Info(message string) {
	l.log(message)
}

// Trace logs at the TRACE log level
func (l *TestLogger) Trace(message string) {
	l.log(message)
}

// Warning logs at the WARN log level
func (l *TestLogger) Warning(message string) {
	l.log(message)
}

// NewTestLogger returns a test logger suitable for use with the go testing.T log function.
func NewTestLogger(log func(args ...interface{})) *TestLogger {
	return &TestLogger{
		log: log,
	}
}
