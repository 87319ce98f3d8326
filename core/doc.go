// Package core defines the shared value types used across threadlog.
//
// It provides the Severity type for level ordering, the Record type
// that represents a single captured log emission, the Field type for
// zero-allocation structured key-value pairs, and the opaque ThreadID
// that ties a record to the goroutine that emitted it.
//
// Records are plain values, not pooled: unlike a write-and-forget
// logger, a capture library retains records in per-thread buffers
// until a test drains them, so recycling would alias live data. The
// Fields slice is the only indirection; Record.Clone copies it when a
// record needs to outlive its buffer.
//
// Field encodes values into fixed-size numeric slots (Num, Fp)
// wherever possible so that common types like int, bool, and
// time.Time never escape to the heap. The Any slot exists as a
// fallback for arbitrary types and renders through fmt's %v verb.
package core
