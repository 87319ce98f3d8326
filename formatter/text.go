package formatter

import (
	"bytes"
	"io"
	"strconv"
	"time"

	"github.com/capturelog/threadlog/core"
)

// TextFormatter renders captured records as human-readable text, one
// line per record:
//
//	[LEVEL] message {key=value, key=value}
//
// Records without fields omit the braces. The rendering is fully
// deterministic: fields keep their insertion order and, by default,
// no timestamp is included.
type TextFormatter struct {
	Config
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(cfg Config) *TextFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339
	}
	return &TextFormatter{Config: cfg}
}

// Format renders a record as text
func (f *TextFormatter) Format(record *core.Record) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	f.formatToBuffer(record, buf)

	// Copy buffer content to return
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// FormatTo renders a record and writes it directly to the writer
func (f *TextFormatter) FormatTo(record *core.Record, w io.Writer) error {
	buf := getBuffer()

	f.formatToBuffer(record, buf)

	_, err := w.Write(buf.Bytes())
	putBuffer(buf)
	return err
}

// FormatRecord renders a record into the given buffer (implements BufferFormatter).
func (f *TextFormatter) FormatRecord(record *core.Record, buf *bytes.Buffer) {
	f.formatToBuffer(record, buf)
}

// pre-formatted level strings to avoid multiple WriteString calls
var levelBrackets = [...]string{
	core.TraceLevel: "[TRACE] ",
	core.DebugLevel: "[DEBUG] ",
	core.InfoLevel:  "[INFO] ",
	core.WarnLevel:  "[WARN] ",
	core.ErrorLevel: "[ERROR] ",
}

// formatToBuffer writes the formatted record into the given buffer
func (f *TextFormatter) formatToBuffer(record *core.Record, buf *bytes.Buffer) {
	// Timestamp only on request - use AppendFormat to avoid string allocation
	if f.IncludeTimestamp {
		buf.Write(record.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))
		buf.WriteByte(' ')
	}

	// Level - use pre-formatted string
	if int(record.Level) >= 0 && int(record.Level) < len(levelBrackets) {
		buf.WriteString(levelBrackets[record.Level])
	} else {
		buf.WriteString("[UNKNOWN] ")
	}

	// Message
	buf.WriteString(record.Message)

	// Fields, insertion order
	if len(record.Fields) > 0 {
		buf.WriteString(" {")
		for i, field := range record.Fields {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(field.Key)
			buf.WriteByte('=')
			buf.WriteString(field.StringValue())
		}
		buf.WriteByte('}')
	}

	// Origin suffix on request
	if f.IncludeOrigin {
		buf.WriteString(" (thread ")
		buf.Write(strconv.AppendUint(buf.AvailableBuffer(), uint64(record.ThreadID), 10))
		buf.WriteString(" seq ")
		buf.Write(strconv.AppendUint(buf.AvailableBuffer(), record.Seq, 10))
		buf.WriteByte(')')
	}

	buf.WriteByte('\n')
}
