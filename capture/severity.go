package capture

import (
	"strings"

	"github.com/capturelog/threadlog/core"
	"github.com/capturelog/threadlog/ledger"
)

// Severity Re-export type and constants for convenience
type Severity = core.Severity

const (
	TraceLevel = core.TraceLevel
	DebugLevel = core.DebugLevel
	InfoLevel  = core.InfoLevel
	WarnLevel  = core.WarnLevel
	ErrorLevel = core.ErrorLevel
)

// Policy Re-export type and constants for convenience
type Policy = ledger.Policy

const (
	StrictInit     = ledger.StrictInit
	PermissiveInit = ledger.PermissiveInit
)

// Record and ThreadID re-exports so assertion code only imports capture
type (
	Record   = core.Record
	ThreadID = core.ThreadID
)

// ParseSeverity converts a string to a Severity
func ParseSeverity(s string) Severity {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TraceLevel
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}
