package ledger

import (
	"sync"

	"github.com/capturelog/threadlog/core"
)

// Status tracks whether a goroutine has completed registration.
// It only moves forward: once an entry is Initialized it never
// becomes Uninitialized again, and re-registration is a no-op.
type Status uint8

const (
	StatusUninitialized Status = iota
	StatusInitialized
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "Uninitialized"
	case StatusInitialized:
		return "Initialized"
	default:
		return "Unknown"
	}
}

// Entry is one goroutine's row in the ledger: its identity, its
// registration status, and its private buffer. The status is written
// once, under the ledger's write lock, before the entry becomes
// visible to lookups, so readers never observe a torn entry.
type Entry struct {
	threadID core.ThreadID
	status   Status
	buffer   *Buffer
}

// ThreadID returns the identity of the goroutine owning this entry.
func (e *Entry) ThreadID() core.ThreadID { return e.threadID }

// Status returns the entry's registration status.
func (e *Entry) Status() Status { return e.status }

// Buffer returns the entry's record buffer.
func (e *Entry) Buffer() *Buffer { return e.buffer }

// Initialized reports whether the entry has completed registration.
func (e *Entry) Initialized() bool { return e.status == StatusInitialized }

// Ledger is the process-wide registry mapping each live goroutine's
// identity to its registration status and buffer. Register and Remove
// are called by a goroutine only for itself; Lookup runs on every
// emission and is safe concurrently with other goroutines registering
// or removing their own entries.
type Ledger struct {
	mu      sync.RWMutex
	entries map[core.ThreadID]*Entry
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{entries: make(map[core.ThreadID]*Entry)}
}

// Register creates an Initialized entry with an empty buffer for the
// given goroutine, or returns the existing entry unchanged. Idempotent.
func (l *Ledger) Register(id core.ThreadID) *Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[id]; ok {
		return e
	}
	e := &Entry{
		threadID: id,
		status:   StatusInitialized,
		buffer:   &Buffer{},
	}
	l.entries[id] = e
	return e
}

// Lookup returns the entry for the given goroutine, if any.
func (l *Ledger) Lookup(id core.ThreadID) (*Entry, bool) {
	l.mu.RLock()
	e, ok := l.entries[id]
	l.mu.RUnlock()
	return e, ok
}

// Remove deletes the goroutine's entry and returns any records still
// held in its buffer, so teardown never silently discards captures.
// Removing an unknown goroutine is a no-op returning nil.
func (l *Ledger) Remove(id core.ThreadID) []core.Record {
	l.mu.Lock()
	e, ok := l.entries[id]
	if ok {
		delete(l.entries, id)
	}
	l.mu.Unlock()
	if !ok {
		return nil
	}
	return e.buffer.Drain()
}

// Threads returns the identities of all currently registered
// goroutines, in no particular order.
func (l *Ledger) Threads() []core.ThreadID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.entries) == 0 {
		return nil
	}
	ids := make([]core.ThreadID, 0, len(l.entries))
	for id := range l.entries {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of registered goroutines.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
