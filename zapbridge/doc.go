// Package zapbridge adapts a capture.Context to go.uber.org/zap, so
// code under test that logs through zap gets captured per goroutine:
//
//	ctx := capture.New()
//	logger := zap.New(zapbridge.NewCore(ctx, zapcore.DebugLevel))
//
// Field values pass through zap's own map encoder, so every zap field
// constructor converts faithfully. The context's initialization
// policy applies exactly as it does for direct capture calls.
package zapbridge
