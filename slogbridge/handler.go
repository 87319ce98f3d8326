package slogbridge

import (
	"context"
	"log/slog"

	"github.com/capturelog/threadlog/capture"
	"github.com/capturelog/threadlog/core"
)

// Handler is a slog.Handler that routes records into a capture
// Context, so application code logging through log/slog lands in the
// calling goroutine's capture buffer. slog invokes Handle on the
// emitting goroutine, which is exactly what keeps the records
// attributed to the right thread identity — the capture context's
// initialization policy applies unchanged.
type Handler struct {
	ctx   *capture.Context
	attrs []core.Field
	group string
}

// New creates a slog.Handler adapter feeding the given capture context.
func New(ctx *capture.Context) *Handler {
	return &Handler{ctx: ctx}
}

// Enabled reports whether the handler captures records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return slogLevelToSeverity(level) >= h.ctx.MinLevel()
}

// Handle converts a slog.Record into a captured record on the calling
// goroutine.
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]core.Field, 0, len(h.attrs)+record.NumAttrs())
	fields = append(fields, h.attrs...)
	record.Attrs(func(a slog.Attr) bool {
		fields = append(fields, slogAttrToField(h.group, a))
		return true
	})

	h.ctx.Log(slogLevelToSeverity(record.Level), record.Message, fields...)
	return nil
}

// WithAttrs returns a new Handler with additional attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]core.Field, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	for _, a := range attrs {
		newAttrs = append(newAttrs, slogAttrToField(h.group, a))
	}
	return &Handler{
		ctx:   h.ctx,
		attrs: newAttrs,
		group: h.group,
	}
}

// WithGroup returns a new Handler with the given group name. Groups
// flatten into dot-prefixed field keys.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newGroup := name
	if h.group != "" {
		newGroup = h.group + "." + name
	}
	newAttrs := make([]core.Field, len(h.attrs))
	copy(newAttrs, h.attrs)
	return &Handler{
		ctx:   h.ctx,
		attrs: newAttrs,
		group: newGroup,
	}
}

// slogLevelToSeverity converts a slog.Level to a core.Severity.
func slogLevelToSeverity(level slog.Level) core.Severity {
	switch {
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarnLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	case level >= slog.LevelDebug:
		return core.DebugLevel
	default:
		return core.TraceLevel
	}
}

// slogAttrToField converts a slog.Attr to a core.Field, prepending the group prefix if present.
func slogAttrToField(group string, a slog.Attr) core.Field {
	key := a.Key
	if group != "" {
		key = group + "." + a.Key
	}

	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindString:
		return core.Field{Key: key, Type: core.StringType, Str: a.Value.String()}
	case slog.KindInt64:
		return core.Field{Key: key, Type: core.Int64Type, Num: a.Value.Int64()}
	case slog.KindFloat64:
		return core.Field{Key: key, Type: core.Float64Type, Fp: a.Value.Float64()}
	case slog.KindBool:
		num := int64(0)
		if a.Value.Bool() {
			num = 1
		}
		return core.Field{Key: key, Type: core.BoolType, Num: num}
	case slog.KindTime:
		return core.Field{Key: key, Type: core.TimeType, Num: a.Value.Time().UnixNano()}
	case slog.KindDuration:
		return core.Field{Key: key, Type: core.DurationType, Num: int64(a.Value.Duration())}
	case slog.KindGroup:
		// Group attrs flatten into prefixed fields; an empty group
		// degrades to an Any field.
		attrs := a.Value.Group()
		if len(attrs) > 0 {
			return slogAttrToField(key, attrs[0])
		}
		return core.Field{Key: key, Type: core.AnyType, Any: a.Value.Any()}
	default:
		return core.Field{Key: key, Type: core.AnyType, Any: a.Value.Any()}
	}
}
