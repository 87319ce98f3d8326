// Package ledger holds the registration state behind threadlog's
// capture API: which goroutines have initialized, and each one's
// private record buffer.
//
// The Ledger itself is the only cross-goroutine shared state in the
// library. Its map is guarded by an RWMutex sized for the access
// pattern capture produces: every emission performs one read-locked
// Lookup, while write-locked Register/Remove happen once per
// goroutine lifetime. Entries are fully constructed before they are
// published, so a concurrent Lookup either misses or sees a complete
// entry.
//
// Buffers deliberately carry their own mutex instead of relying on
// the ledger lock. Appends are single-goroutine by contract, but a
// test harness drains a worker's buffer after joining it, and that
// cross-goroutine handoff needs its own synchronization point.
package ledger
