package ledger

import (
	"sync"

	"github.com/capturelog/threadlog/core"
)

// Buffer is the ordered record store owned by one goroutine's ledger
// entry. Appends come only from the owning goroutine's logging path;
// drains and snapshots may come from another goroutine (a test
// collecting results after the owner finished), so all access is
// serialized by a per-buffer mutex. The lock is private to one
// goroutine in the common case and therefore uncontended.
//
// Buffer operations never fail. Permission to append is decided
// upstream, before the buffer is ever touched.
type Buffer struct {
	mu      sync.Mutex
	records []core.Record
	nextSeq uint64
}

// Append stamps the record with the buffer's next sequence number and
// stores it. The returned record is the stored value including its
// assigned Seq.
func (b *Buffer) Append(r core.Record) core.Record {
	b.mu.Lock()
	r.Seq = b.nextSeq
	b.nextSeq++
	b.records = append(b.records, r)
	b.mu.Unlock()
	return r
}

// Drain returns all currently held records in append order and clears
// the buffer. Sequence numbering continues across drains, so a record
// appended after a drain carries the next Seq, not 0. Returns nil when
// the buffer is empty.
func (b *Buffer) Drain() []core.Record {
	b.mu.Lock()
	out := b.records
	b.records = nil
	b.mu.Unlock()
	return out
}

// Snapshot returns a copy of the currently held records in append
// order without clearing the buffer.
func (b *Buffer) Snapshot() []core.Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.records) == 0 {
		return nil
	}
	out := make([]core.Record, len(b.records))
	copy(out, b.records)
	return out
}

// Len returns the number of records currently held.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

// NextSeq returns the sequence number the next appended record will
// receive.
func (b *Buffer) NextSeq() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nextSeq
}
