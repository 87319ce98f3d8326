// Package slogbridge adapts a capture.Context to log/slog, so code
// under test that logs through the standard library gets captured
// per goroutine:
//
//	ctx := capture.New()
//	slog.SetDefault(slog.New(slogbridge.New(ctx)))
//
// slog calls Handle synchronously on the emitting goroutine, so
// records keep the right thread identity and the context's
// initialization policy applies exactly as it does for direct
// capture calls.
package slogbridge
