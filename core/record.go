package core

import (
	"time"
)

// ThreadID identifies the goroutine that captured a record. Values are
// assigned by the capture layer from the runtime's goroutine identity;
// there is no public constructor, so a client cannot forge an ID that
// collides with a live goroutine's entry.
type ThreadID uint64

// Record represents one captured log emission with all its metadata.
// A Record is immutable once appended to a buffer: the capture layer
// copies the Fields slice before handing the record out, so callers
// may inspect records without synchronization.
type Record struct {
	Time     time.Time
	Level    Severity
	Message  string
	Fields   []Field
	ThreadID ThreadID
	// Seq is the position of this record within its thread's buffer.
	// It starts at 0 and increases by exactly 1 per appended record,
	// so consecutive drains continue the numbering without gaps.
	Seq uint64
}

// Clone returns a deep copy of the record. The Fields slice is copied
// so the clone stays valid after the source buffer is reused.
func (r Record) Clone() Record {
	if len(r.Fields) == 0 {
		r.Fields = nil
		return r
	}
	fields := make([]Field, len(r.Fields))
	copy(fields, r.Fields)
	r.Fields = fields
	return r
}
