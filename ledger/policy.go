package ledger

// Policy defines how an emission from an unregistered goroutine is
// adjudicated.
type Policy uint8

const (
	// StrictInit panics when a goroutine logs without registering
	// first. This is the default: logging from an unregistered
	// goroutine is a programming error, not a runtime condition.
	StrictInit Policy = iota
	// PermissiveInit silently registers the goroutine on its first
	// emission and lets the record through.
	PermissiveInit
)

// String returns the string representation of the policy
func (p Policy) String() string {
	switch p {
	case StrictInit:
		return "Strict"
	case PermissiveInit:
		return "Permissive"
	default:
		return "Unknown"
	}
}
