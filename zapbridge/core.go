package zapbridge

import (
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/capturelog/threadlog/capture"
	"github.com/capturelog/threadlog/core"
)

// Core is a zapcore.Core that routes entries into a capture Context,
// so application code logging through zap gets captured per
// goroutine. zap writes entries synchronously on the emitting
// goroutine, so records keep the right thread identity and the
// context's initialization policy applies unchanged.
type Core struct {
	ctx    *capture.Context
	enab   zapcore.LevelEnabler
	fields []core.Field
}

var _ zapcore.Core = (*Core)(nil)

// NewCore creates a zapcore.Core feeding the given capture context.
// Entries below the enabler's threshold are discarded before they
// reach the context.
func NewCore(ctx *capture.Context, enab zapcore.LevelEnabler) *Core {
	return &Core{ctx: ctx, enab: enab}
}

// Enabled reports whether the core accepts entries at the given level.
func (c *Core) Enabled(level zapcore.Level) bool {
	return c.enab.Enabled(level)
}

// With returns a child core carrying the additional structured context.
func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	if len(fields) == 0 {
		return c
	}
	combined := make([]core.Field, len(c.fields), len(c.fields)+len(fields))
	copy(combined, c.fields)
	for _, f := range fields {
		combined = append(combined, zapFieldToField(f))
	}
	return &Core{ctx: c.ctx, enab: c.enab, fields: combined}
}

// Check determines whether the entry should be captured.
func (c *Core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write converts the entry and its fields into a captured record on
// the calling goroutine.
func (c *Core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	combined := make([]core.Field, 0, len(c.fields)+len(fields))
	combined = append(combined, c.fields...)
	for _, f := range fields {
		combined = append(combined, zapFieldToField(f))
	}

	c.ctx.Log(zapLevelToSeverity(ent.Level), ent.Message, combined...)
	return nil
}

// Sync is a no-op: captured records live in memory until drained.
func (c *Core) Sync() error { return nil }

// zapLevelToSeverity converts a zapcore.Level to a core.Severity.
// zap has no trace level; DPanic and above all map to ErrorLevel
// because capture has no fatal tier of its own.
func zapLevelToSeverity(level zapcore.Level) core.Severity {
	switch {
	case level >= zapcore.ErrorLevel:
		return core.ErrorLevel
	case level == zapcore.WarnLevel:
		return core.WarnLevel
	case level == zapcore.InfoLevel:
		return core.InfoLevel
	default:
		return core.DebugLevel
	}
}

// zapFieldToField converts one zapcore.Field. Encoding through zap's
// own map encoder keeps the conversion faithful for every field
// constructor zap offers, including nested objects and reflected
// values, without reimplementing zap's field-type switch.
func zapFieldToField(f zapcore.Field) core.Field {
	enc := zapcore.NewMapObjectEncoder()
	f.AddTo(enc)
	val, ok := enc.Fields[f.Key]
	if !ok {
		// Skipped fields (zap.Skip) encode to nothing.
		return core.Field{Key: f.Key, Type: core.AnyType, Any: nil}
	}

	switch v := val.(type) {
	case string:
		return core.Field{Key: f.Key, Type: core.StringType, Str: v}
	case int:
		return core.Field{Key: f.Key, Type: core.Int64Type, Num: int64(v)}
	case int8:
		return core.Field{Key: f.Key, Type: core.Int64Type, Num: int64(v)}
	case int16:
		return core.Field{Key: f.Key, Type: core.Int64Type, Num: int64(v)}
	case int32:
		return core.Field{Key: f.Key, Type: core.Int64Type, Num: int64(v)}
	case int64:
		return core.Field{Key: f.Key, Type: core.Int64Type, Num: v}
	case uint:
		return core.Field{Key: f.Key, Type: core.Int64Type, Num: int64(v)}
	case uint8:
		return core.Field{Key: f.Key, Type: core.Int64Type, Num: int64(v)}
	case uint16:
		return core.Field{Key: f.Key, Type: core.Int64Type, Num: int64(v)}
	case uint32:
		return core.Field{Key: f.Key, Type: core.Int64Type, Num: int64(v)}
	case uint64:
		return core.Field{Key: f.Key, Type: core.Int64Type, Num: int64(v)}
	case float32:
		return core.Field{Key: f.Key, Type: core.Float64Type, Fp: float64(v)}
	case float64:
		return core.Field{Key: f.Key, Type: core.Float64Type, Fp: v}
	case bool:
		num := int64(0)
		if v {
			num = 1
		}
		return core.Field{Key: f.Key, Type: core.BoolType, Num: num}
	case time.Time:
		return core.Field{Key: f.Key, Type: core.TimeType, Num: v.UnixNano()}
	case time.Duration:
		return core.Field{Key: f.Key, Type: core.DurationType, Num: int64(v)}
	case error:
		return core.Field{Key: f.Key, Type: core.ErrorType, Str: v.Error()}
	default:
		return core.Field{Key: f.Key, Type: core.AnyType, Any: v}
	}
}
