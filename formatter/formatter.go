package formatter

import (
	"bytes"
	"io"
	"sync"

	"github.com/capturelog/threadlog/core"
)

// Formatter defines the interface for record formatters. Formatting is
// pure: the same record always renders to the same bytes, so test
// assertions can compare output byte for byte.
type Formatter interface {
	// Format renders one captured record into bytes, including the
	// trailing newline.
	Format(record *core.Record) ([]byte, error)
}

// WriterFormatter is an optional interface that formatters can implement
// to write directly to a writer without intermediate byte slice allocation.
type WriterFormatter interface {
	// FormatTo renders a record and writes it directly to the writer
	FormatTo(record *core.Record, w io.Writer) error
}

// BufferFormatter is an optional interface that formatters can implement
// to format directly into a caller-provided buffer, avoiding internal
// buffer pool overhead.
type BufferFormatter interface {
	// FormatRecord renders a record into the given buffer.
	FormatRecord(record *core.Record, buf *bytes.Buffer)
}

// Config holds common formatter configuration
type Config struct {
	// IncludeTimestamp prefixes each line with the record's capture
	// time. Off by default: capture output is compared byte-exact
	// across runs, and timestamps would break that.
	IncludeTimestamp bool
	// TimestampFormat specifies the time format (empty for RFC3339)
	TimestampFormat string
	// IncludeOrigin appends the record's thread identity and sequence
	// number to each line.
	IncludeOrigin bool
}

// FormatRecords renders an ordered record sequence, one line per
// record, in the order given.
func FormatRecords(f Formatter, records []core.Record) ([]byte, error) {
	if bf, ok := f.(BufferFormatter); ok {
		buf := getBuffer()
		defer putBuffer(buf)
		for i := range records {
			bf.FormatRecord(&records[i], buf)
		}
		result := make([]byte, buf.Len())
		copy(result, buf.Bytes())
		return result, nil
	}

	var out []byte
	for i := range records {
		line, err := f.Format(&records[i])
		if err != nil {
			return nil, err
		}
		out = append(out, line...)
	}
	return out, nil
}

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}
