// Package formatter defines how captured records are serialized into
// bytes for assertion and display.
//
// It exposes three interfaces: Formatter, which returns a []byte,
// WriterFormatter, which writes directly to an io.Writer, and
// BufferFormatter, which formats into a caller-provided buffer.
// Callers rendering whole drained sequences should use FormatRecords,
// which picks the cheapest available path.
//
// Both built-in formatters (TextFormatter and JSONFormatter) are pure:
// they keep no state between calls and render the same record to the
// same bytes every time. Timestamps are therefore opt-in — a test that
// compares drained output byte for byte must not see wall-clock data
// unless it asked for it. Field values that cannot be encoded natively
// fall back to core.Field's %v string rendering instead of failing.
//
// Internally the formatters use a pooled bytes.Buffer and Go's
// Append-style functions (time.AppendFormat, strconv.AppendInt) to
// avoid per-call allocations. Buffers larger than 64 KiB are not
// returned to the pool to prevent a single large record from
// permanently inflating memory usage.
package formatter
