// Package goid extracts the runtime's numeric ID for the current
// goroutine. The ID is taken from the first line of the goroutine's
// stack trace ("goroutine 123 [running]:"), which is stable for the
// goroutine's lifetime and never reused while it is alive.
//
// The runtime does not expose goroutine IDs on purpose, and this
// package must not be used to build goroutine-local storage for
// application logic. threadlog uses the ID only as an opaque map key
// so each goroutine gets its own capture buffer, mirroring how a
// thread-ID keys thread-local state in other runtimes.
package goid

import (
	"bytes"
	"runtime"
	"strconv"
)

var prefix = []byte("goroutine ")

// Current returns the runtime ID of the calling goroutine.
func Current() uint64 {
	// 64 bytes always covers "goroutine <id> [running]:".
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parse(buf[:n])
}

// parse extracts the numeric ID from a stack trace header. A header
// that does not match the known format yields 0; the runtime never
// assigns 0 as a goroutine ID.
func parse(stack []byte) uint64 {
	if !bytes.HasPrefix(stack, prefix) {
		return 0
	}
	rest := stack[len(prefix):]
	end := bytes.IndexByte(rest, ' ')
	if end <= 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(rest[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
