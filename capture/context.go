package capture

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/capturelog/threadlog/core"
	"github.com/capturelog/threadlog/internal/goid"
	"github.com/capturelog/threadlog/ledger"
)

// panicUninitialized is the fixed diagnostic for the strict-policy
// contract violation. It names the fix, mirroring the registration
// call the offending goroutine forgot to make.
const panicUninitialized = "threadlog: log emission from an uninitialized goroutine; call InitCurrentThread first"

// ReleaseHook runs when a goroutine releases its capture state. It
// receives the goroutine's identity and any records left undrained in
// its buffer.
type ReleaseHook func(id core.ThreadID, undrained []core.Record) error

// Context owns one independent capture universe: a ledger of
// registered goroutines, the initialization policy, and capture
// counters. The process-wide default context (see Default) is enough
// for most uses; tests that need isolation from global state build
// their own.
//
// All methods are safe for concurrent use, with one documented
// exception: SetPolicy must not race with active logging.
type Context struct {
	id       string
	ledger   *ledger.Ledger
	policy   ledger.Policy
	minLevel core.Severity
	clock    func() time.Time
	stats    *Stats

	mu    sync.Mutex
	hooks []ReleaseHook
}

// Builder provides a fluent API for building Context instances
type Builder struct {
	policy   ledger.Policy
	minLevel core.Severity
	clock    func() time.Time
}

// NewBuilder creates a new context builder with the default
// configuration: strict policy, all levels captured, wall-clock
// timestamps.
func NewBuilder() *Builder {
	return &Builder{
		policy:   ledger.StrictInit,
		minLevel: core.TraceLevel,
		clock:    time.Now,
	}
}

// WithPolicy sets the initialization policy
func (b *Builder) WithPolicy(p ledger.Policy) *Builder {
	b.policy = p
	return b
}

// WithMinLevel sets the minimum severity that is captured. Emissions
// below it pass the initialization gate but are not buffered.
func (b *Builder) WithMinLevel(level core.Severity) *Builder {
	b.minLevel = level
	return b
}

// WithClock sets the timestamp source for captured records. Tests that
// compare timestamped output pass a fixed clock; hot paths can pass
// core.CoarseNow after core.StartCoarseClock.
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	if clock != nil {
		b.clock = clock
	}
	return b
}

// FromEnv applies THREADLOG_LEVEL and THREADLOG_POLICY overrides when
// those variables are set, leaving the builder unchanged otherwise.
func (b *Builder) FromEnv() *Builder {
	if level, ok := SeverityFromEnv(); ok {
		b.minLevel = level
	}
	if policy, ok := PolicyFromEnv(); ok {
		b.policy = policy
	}
	return b
}

// Build creates the Context instance
func (b *Builder) Build() *Context {
	return &Context{
		id:       uuid.New().String(),
		ledger:   ledger.New(),
		policy:   b.policy,
		minLevel: b.minLevel,
		clock:    b.clock,
		stats:    NewStats(),
	}
}

// New creates a Context with the default configuration. Equivalent to
// NewBuilder().Build().
func New() *Context {
	return NewBuilder().Build()
}

// ID returns the context's unique identifier, assigned at build time.
// It only serves diagnostics, telling apart captures from multiple
// contexts in one process.
func (c *Context) ID() string { return c.id }

// Policy returns the context's current initialization policy.
func (c *Context) Policy() ledger.Policy { return c.policy }

// MinLevel returns the minimum severity the context captures.
func (c *Context) MinLevel() core.Severity { return c.minLevel }

// SetPolicy switches the initialization policy. It must be called
// before any goroutine logs through this context; changing the policy
// while goroutines are actively logging is outside the supported
// contract.
func (c *Context) SetPolicy(p ledger.Policy) {
	c.policy = p
}

// CurrentThread returns the calling goroutine's capture identity.
func CurrentThread() core.ThreadID {
	return core.ThreadID(goid.Current())
}

// InitCurrentThread registers the calling goroutine with the context,
// creating its empty buffer. Idempotent: re-registering keeps the
// existing buffer and its records. Returns the goroutine's identity so
// another goroutine can later collect its buffer via DrainThread.
func (c *Context) InitCurrentThread() core.ThreadID {
	id := CurrentThread()
	c.ledger.Register(id)
	return id
}

// Initialized reports whether the calling goroutine has registered
// with the context.
func (c *Context) Initialized() bool {
	_, ok := c.ledger.Lookup(CurrentThread())
	return ok
}

// guard adjudicates an emission attempt for the calling goroutine.
// Registered goroutines pass. Unregistered ones panic under StrictInit
// and are silently registered under PermissiveInit.
func (c *Context) guard(id core.ThreadID) *ledger.Entry {
	if e, ok := c.ledger.Lookup(id); ok && e.Initialized() {
		return e
	}
	if c.policy == ledger.StrictInit {
		panic(panicUninitialized)
	}
	c.stats.IncrementAutoInit()
	return c.ledger.Register(id)
}

// Log captures one emission from the calling goroutine. Under the
// strict policy an unregistered caller panics; under the permissive
// policy it is registered on the spot. Emissions below the context's
// minimum level still pass the gate but are not buffered.
func (c *Context) Log(level core.Severity, msg string, fields ...core.Field) {
	id := CurrentThread()
	entry := c.guard(id)

	if level < c.minLevel {
		c.stats.IncrementFiltered()
		return
	}

	record := core.Record{
		Time:     c.clock(),
		Level:    level,
		Message:  msg,
		ThreadID: id,
	}
	if len(fields) > 0 {
		// Copy the variadic slice so the stored record is immune to
		// caller-side reuse.
		record.Fields = make([]core.Field, len(fields))
		copy(record.Fields, fields)
	}

	entry.Buffer().Append(record)
	c.stats.IncrementCaptured(level)
}

// Trace captures a trace-level emission
func (c *Context) Trace(msg string, fields ...core.Field) {
	c.Log(core.TraceLevel, msg, fields...)
}

// Debug captures a debug-level emission
func (c *Context) Debug(msg string, fields ...core.Field) {
	c.Log(core.DebugLevel, msg, fields...)
}

// Info captures an info-level emission
func (c *Context) Info(msg string, fields ...core.Field) {
	c.Log(core.InfoLevel, msg, fields...)
}

// Warn captures a warn-level emission
func (c *Context) Warn(msg string, fields ...core.Field) {
	c.Log(core.WarnLevel, msg, fields...)
}

// Error captures an error-level emission
func (c *Context) Error(msg string, fields ...core.Field) {
	c.Log(core.ErrorLevel, msg, fields...)
}

// Tracef captures a formatted trace-level emission
func (c *Context) Tracef(format string, args ...interface{}) {
	c.Log(core.TraceLevel, fmt.Sprintf(format, args...))
}

// Debugf captures a formatted debug-level emission
func (c *Context) Debugf(format string, args ...interface{}) {
	c.Log(core.DebugLevel, fmt.Sprintf(format, args...))
}

// Infof captures a formatted info-level emission
func (c *Context) Infof(format string, args ...interface{}) {
	c.Log(core.InfoLevel, fmt.Sprintf(format, args...))
}

// Warnf captures a formatted warn-level emission
func (c *Context) Warnf(format string, args ...interface{}) {
	c.Log(core.WarnLevel, fmt.Sprintf(format, args...))
}

// Errorf captures a formatted error-level emission
func (c *Context) Errorf(format string, args ...interface{}) {
	c.Log(core.ErrorLevel, fmt.Sprintf(format, args...))
}

// DrainCurrentThread returns and clears the calling goroutine's
// buffered records, in emission order. Returns nil when nothing was
// captured since the last drain. Draining never registers the caller:
// an unregistered goroutine simply gets nil.
func (c *Context) DrainCurrentThread() []core.Record {
	records, _ := c.DrainThread(CurrentThread())
	return records
}

// SnapshotCurrentThread returns a copy of the calling goroutine's
// buffered records without clearing them.
func (c *Context) SnapshotCurrentThread() []core.Record {
	records, _ := c.SnapshotThread(CurrentThread())
	return records
}

// DrainThread returns and clears the buffered records of the given
// goroutine. This is the explicit cross-goroutine collection point: a
// test joins its worker, then drains the worker's records by the
// identity InitCurrentThread returned. The second result is false when
// the goroutine is not registered.
func (c *Context) DrainThread(id core.ThreadID) ([]core.Record, bool) {
	e, ok := c.ledger.Lookup(id)
	if !ok {
		return nil, false
	}
	records := e.Buffer().Drain()
	c.stats.AddDrained(uint64(len(records)))
	return records, true
}

// SnapshotThread returns a copy of the given goroutine's buffered
// records without clearing them. The second result is false when the
// goroutine is not registered.
func (c *Context) SnapshotThread(id core.ThreadID) ([]core.Record, bool) {
	e, ok := c.ledger.Lookup(id)
	if !ok {
		return nil, false
	}
	return e.Buffer().Snapshot(), true
}

// Threads returns the identities of all goroutines currently
// registered with the context, in no particular order.
func (c *Context) Threads() []core.ThreadID {
	return c.ledger.Threads()
}

// OnRelease registers a hook that runs whenever a goroutine releases
// its capture state. Hooks run in registration order; their errors are
// aggregated and returned by ReleaseCurrentThread.
func (c *Context) OnRelease(hook ReleaseHook) {
	if hook == nil {
		return
	}
	c.mu.Lock()
	c.hooks = append(c.hooks, hook)
	c.mu.Unlock()
}

// ReleaseCurrentThread is the teardown hook for a finishing goroutine:
// it removes the goroutine's ledger entry and returns any records left
// undrained, so teardown never silently discards captures. Registered
// release hooks observe the undrained records; their errors are
// combined into the returned error. Releasing an unregistered
// goroutine is a no-op.
func (c *Context) ReleaseCurrentThread() ([]core.Record, error) {
	id := CurrentThread()
	if _, ok := c.ledger.Lookup(id); !ok {
		return nil, nil
	}
	undrained := c.ledger.Remove(id)
	c.stats.IncrementReleased()

	c.mu.Lock()
	hooks := make([]ReleaseHook, len(c.hooks))
	copy(hooks, c.hooks)
	c.mu.Unlock()

	var err error
	for _, hook := range hooks {
		err = multierr.Append(err, hook(id, undrained))
	}
	return undrained, err
}

// Stats returns a snapshot of the context's capture counters.
func (c *Context) Stats() Snapshot {
	return c.stats.GetSnapshot()
}
