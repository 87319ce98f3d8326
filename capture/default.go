package capture

import (
	"sync"

	"github.com/capturelog/threadlog/core"
	"github.com/capturelog/threadlog/formatter"
	"github.com/capturelog/threadlog/ledger"
)

var (
	defaultContext *Context
	defaultMu      sync.RWMutex

	// textFormatter backs the package-level Format helpers.
	textFormatter = formatter.NewTextFormatter(formatter.Config{})
)

func init() {
	// The default context honors the environment so test binaries can
	// flip level and policy without code changes.
	defaultContext = NewBuilder().FromEnv().Build()
}

// Default returns the default context
func Default() *Context {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultContext
}

// SetDefault sets the default context
func SetDefault(c *Context) {
	if c == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultContext = c
}

// Package-level convenience functions using the default context.
// The default context is process-global state: scenarios that flip
// policy or inspect stats must run sequentially, not in parallel.

// InitCurrentThread registers the calling goroutine with the default context
func InitCurrentThread() core.ThreadID {
	return Default().InitCurrentThread()
}

// SetPolicy switches the default context's initialization policy.
// Must happen before any goroutine logs.
func SetPolicy(p ledger.Policy) {
	Default().SetPolicy(p)
}

// Log captures one emission using the default context
func Log(level core.Severity, msg string, fields ...core.Field) {
	Default().Log(level, msg, fields...)
}

// Trace captures a trace-level emission using the default context
func Trace(msg string, fields ...core.Field) {
	Default().Trace(msg, fields...)
}

// Debug captures a debug-level emission using the default context
func Debug(msg string, fields ...core.Field) {
	Default().Debug(msg, fields...)
}

// Info captures an info-level emission using the default context
func Info(msg string, fields ...core.Field) {
	Default().Info(msg, fields...)
}

// Warn captures a warn-level emission using the default context
func Warn(msg string, fields ...core.Field) {
	Default().Warn(msg, fields...)
}

// Error captures an error-level emission using the default context
func Error(msg string, fields ...core.Field) {
	Default().Error(msg, fields...)
}

// Tracef captures a formatted trace-level emission using the default context
func Tracef(format string, args ...interface{}) {
	Default().Tracef(format, args...)
}

// Debugf captures a formatted debug-level emission using the default context
func Debugf(format string, args ...interface{}) {
	Default().Debugf(format, args...)
}

// Infof captures a formatted info-level emission using the default context
func Infof(format string, args ...interface{}) {
	Default().Infof(format, args...)
}

// Warnf captures a formatted warn-level emission using the default context
func Warnf(format string, args ...interface{}) {
	Default().Warnf(format, args...)
}

// Errorf captures a formatted error-level emission using the default context
func Errorf(format string, args ...interface{}) {
	Default().Errorf(format, args...)
}

// DrainCurrentThread drains the calling goroutine's records from the default context
func DrainCurrentThread() []core.Record {
	return Default().DrainCurrentThread()
}

// SnapshotCurrentThread snapshots the calling goroutine's records from the default context
func SnapshotCurrentThread() []core.Record {
	return Default().SnapshotCurrentThread()
}

// ReleaseCurrentThread releases the calling goroutine's capture state
// in the default context
func ReleaseCurrentThread() ([]core.Record, error) {
	return Default().ReleaseCurrentThread()
}

// FormatOne renders a single record with the default text formatter:
// "[LEVEL] message {key=value, ...}" without a trailing newline.
func FormatOne(record core.Record) string {
	line, err := textFormatter.Format(&record)
	if err != nil {
		// The text formatter cannot fail on a well-formed record.
		return ""
	}
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	return string(line)
}

// Format renders an ordered record sequence with the default text
// formatter, one line per record.
func Format(records []core.Record) string {
	out, err := formatter.FormatRecords(textFormatter, records)
	if err != nil {
		return ""
	}
	return string(out)
}
