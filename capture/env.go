package capture

import (
	"os"
	"strings"

	"github.com/capturelog/threadlog/core"
	"github.com/capturelog/threadlog/ledger"
)

// Environment variables honored by Builder.FromEnv.
const (
	// EnvLevel names the minimum captured severity: trace, debug,
	// info, warn or error.
	EnvLevel = "THREADLOG_LEVEL"
	// EnvPolicy names the initialization policy: strict or permissive.
	EnvPolicy = "THREADLOG_POLICY"
)

// SeverityFromEnv reads the minimum severity from THREADLOG_LEVEL.
// The second result is false when the variable is unset or empty.
func SeverityFromEnv() (core.Severity, bool) {
	val := strings.TrimSpace(os.Getenv(EnvLevel))
	if val == "" {
		return InfoLevel, false
	}
	return ParseSeverity(val), true
}

// PolicyFromEnv reads the initialization policy from THREADLOG_POLICY.
// Unrecognized values are ignored, keeping the strict default rather
// than silently weakening the gate. The second result is false when no
// usable value was found.
func PolicyFromEnv() (ledger.Policy, bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvPolicy))) {
	case "strict":
		return ledger.StrictInit, true
	case "permissive":
		return ledger.PermissiveInit, true
	default:
		return ledger.StrictInit, false
	}
}
