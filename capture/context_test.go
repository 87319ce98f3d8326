package capture

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/multierr"

	"github.com/capturelog/threadlog/core"
	"github.com/capturelog/threadlog/ledger"
)

// logUninitialized runs fn on a brand-new goroutine that never
// registers, and returns whatever it panicked with (nil if it
// returned normally).
func logUninitialized(fn func()) interface{} {
	done := make(chan interface{}, 1)
	go func() {
		defer func() { done <- recover() }()
		fn()
	}()
	return <-done
}

func TestOrderingWithinThread(t *testing.T) {
	ctx := New()
	ctx.InitCurrentThread()

	messages := []string{"first", "second", "third", "fourth"}
	for _, msg := range messages {
		ctx.Info(msg)
	}

	records := ctx.DrainCurrentThread()
	if len(records) != len(messages) {
		t.Fatalf("drained %d records, want %d", len(records), len(messages))
	}
	for i, r := range records {
		if r.Message != messages[i] {
			t.Errorf("record %d message = %q, want %q", i, r.Message, messages[i])
		}
		if r.Seq != uint64(i) {
			t.Errorf("record %d Seq = %d, want %d", i, r.Seq, i)
		}
	}
}

func TestThreadIsolation(t *testing.T) {
	ctx := New()

	type result struct {
		id      core.ThreadID
		records []core.Record
	}

	run := func(name string, n int, out chan<- result) {
		go func() {
			id := ctx.InitCurrentThread()
			for i := 0; i < n; i++ {
				ctx.Infof("%s-%d", name, i)
			}
			out <- result{id: id, records: ctx.DrainCurrentThread()}
		}()
	}

	outA := make(chan result, 1)
	outB := make(chan result, 1)
	run("a", 5, outA)
	run("b", 3, outB)
	a, b := <-outA, <-outB

	if a.id == b.id {
		t.Fatalf("distinct goroutines share thread identity %d", a.id)
	}
	if len(a.records) != 5 || len(b.records) != 3 {
		t.Fatalf("drained %d and %d records, want 5 and 3", len(a.records), len(b.records))
	}
	for _, r := range a.records {
		if r.ThreadID != a.id {
			t.Errorf("record %q carries thread %d, want %d", r.Message, r.ThreadID, a.id)
		}
		if strings.HasPrefix(r.Message, "b-") {
			t.Errorf("goroutine A drained B's record %q", r.Message)
		}
	}
	for _, r := range b.records {
		if r.ThreadID != b.id {
			t.Errorf("record %q carries thread %d, want %d", r.Message, r.ThreadID, b.id)
		}
		if strings.HasPrefix(r.Message, "a-") {
			t.Errorf("goroutine B drained A's record %q", r.Message)
		}
	}
}

func TestUninitializedThreadPanics(t *testing.T) {
	ctx := New() // strict by default

	// Deterministic: the panic fires on every attempt, not just the first.
	for attempt := 0; attempt < 3; attempt++ {
		got := logUninitialized(func() { ctx.Info("forgot to register") })
		if got == nil {
			t.Fatalf("attempt %d: expected panic, goroutine returned normally", attempt)
		}
		if msg := fmt.Sprint(got); !strings.Contains(msg, "InitCurrentThread") {
			t.Errorf("attempt %d: panic message %q does not name the fix", attempt, msg)
		}
	}

	if got := ctx.Stats().AutoInitTotal; got != 0 {
		t.Errorf("AutoInitTotal = %d after strict panics, want 0", got)
	}
}

func TestUninitializedPanicEvenWhenFiltered(t *testing.T) {
	// The gate is checked before the level filter: a goroutine that
	// forgot to register panics even for emissions that would have
	// been filtered out anyway.
	ctx := NewBuilder().WithMinLevel(core.ErrorLevel).Build()

	if got := logUninitialized(func() { ctx.Debug("below min level") }); got == nil {
		t.Fatal("expected panic for uninitialized goroutine despite level filter")
	}
}

func TestLoggingFromUninitializedThreadsAllowed(t *testing.T) {
	ctx := NewBuilder().WithPolicy(ledger.PermissiveInit).Build()

	type result struct {
		panicked interface{}
		initOK   bool
		records  []core.Record
	}
	done := make(chan result, 1)
	go func() {
		var res result
		defer func() {
			res.panicked = recover()
			done <- res
		}()
		ctx.Info("tolerated")
		res.initOK = ctx.Initialized()
		res.records = ctx.DrainCurrentThread()
	}()
	res := <-done

	if res.panicked != nil {
		t.Fatalf("permissive policy panicked: %v", res.panicked)
	}
	if !res.initOK {
		t.Error("goroutine not promoted to initialized after tolerated emission")
	}
	if len(res.records) != 1 || res.records[0].Message != "tolerated" {
		t.Fatalf("drained %+v, want the tolerated record", res.records)
	}
	if res.records[0].Seq != 0 {
		t.Errorf("tolerated record Seq = %d, want 0", res.records[0].Seq)
	}
	if got := ctx.Stats().AutoInitTotal; got != 1 {
		t.Errorf("AutoInitTotal = %d, want 1", got)
	}
}

func TestDrainIsConsuming(t *testing.T) {
	ctx := New()
	ctx.InitCurrentThread()
	ctx.Warn("pending")

	first := ctx.DrainCurrentThread()
	if len(first) != 1 {
		t.Fatalf("first drain returned %d records, want 1", len(first))
	}
	if second := ctx.DrainCurrentThread(); second != nil {
		t.Errorf("second drain returned %d records, want none", len(second))
	}
}

func TestSnapshotDoesNotConsume(t *testing.T) {
	ctx := New()
	ctx.InitCurrentThread()
	ctx.Info("kept")

	if snap := ctx.SnapshotCurrentThread(); len(snap) != 1 {
		t.Fatalf("snapshot returned %d records, want 1", len(snap))
	}
	if records := ctx.DrainCurrentThread(); len(records) != 1 {
		t.Errorf("drain after snapshot returned %d records, want 1", len(records))
	}
}

func TestInitIdempotent(t *testing.T) {
	ctx := New()
	first := ctx.InitCurrentThread()
	ctx.Info("before re-init")
	second := ctx.InitCurrentThread()

	if first != second {
		t.Errorf("InitCurrentThread returned different identities: %d, %d", first, second)
	}
	records := ctx.DrainCurrentThread()
	if len(records) != 1 {
		t.Fatalf("re-registration lost records: drained %d, want 1", len(records))
	}
}

func TestSequenceContinuesAcrossDrains(t *testing.T) {
	ctx := New()
	ctx.InitCurrentThread()

	ctx.Info("one")
	ctx.DrainCurrentThread()
	ctx.Info("two")

	records := ctx.DrainCurrentThread()
	if len(records) != 1 || records[0].Seq != 1 {
		t.Fatalf("post-drain record = %+v, want Seq 1", records)
	}
}

func TestDrainThreadCrossGoroutine(t *testing.T) {
	ctx := New()

	ids := make(chan core.ThreadID, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		id := ctx.InitCurrentThread()
		ctx.Error("worker failure", Int("code", 5))
		ids <- id
	}()
	wg.Wait()
	id := <-ids

	records, ok := ctx.DrainThread(id)
	if !ok {
		t.Fatal("DrainThread did not find the worker's entry")
	}
	if len(records) != 1 || records[0].Message != "worker failure" {
		t.Fatalf("drained %+v, want the worker's record", records)
	}

	if _, ok := ctx.DrainThread(core.ThreadID(0)); ok {
		t.Error("DrainThread found an entry for an impossible identity")
	}
}

func TestReleaseReturnsUndrained(t *testing.T) {
	ctx := New()
	ctx.InitCurrentThread()
	ctx.Info("left behind")

	undrained, err := ctx.ReleaseCurrentThread()
	if err != nil {
		t.Fatalf("ReleaseCurrentThread() error = %v", err)
	}
	if len(undrained) != 1 || undrained[0].Message != "left behind" {
		t.Fatalf("undrained = %+v, want the leftover record", undrained)
	}
	if ctx.Initialized() {
		t.Error("goroutine still initialized after release")
	}

	// Releasing again is a no-op.
	undrained, err = ctx.ReleaseCurrentThread()
	if undrained != nil || err != nil {
		t.Errorf("second release = (%v, %v), want (nil, nil)", undrained, err)
	}
}

func TestReleaseHooks(t *testing.T) {
	ctx := New()

	errFlush := errors.New("flush failed")
	errNotify := errors.New("notify failed")
	var hookRecords []core.Record
	ctx.OnRelease(func(id core.ThreadID, undrained []core.Record) error {
		hookRecords = undrained
		return errFlush
	})
	ctx.OnRelease(func(id core.ThreadID, undrained []core.Record) error {
		return errNotify
	})

	ctx.InitCurrentThread()
	ctx.Warn("pending at teardown")

	_, err := ctx.ReleaseCurrentThread()
	if len(hookRecords) != 1 || hookRecords[0].Message != "pending at teardown" {
		t.Errorf("hook saw %+v, want the pending record", hookRecords)
	}

	combined := multierr.Errors(err)
	if len(combined) != 2 {
		t.Fatalf("expected 2 aggregated hook errors, got %d (%v)", len(combined), err)
	}
	if !errors.Is(err, errFlush) || !errors.Is(err, errNotify) {
		t.Errorf("aggregated error %v missing a hook error", err)
	}
}

func TestMinLevelFiltering(t *testing.T) {
	ctx := NewBuilder().WithMinLevel(core.WarnLevel).Build()
	ctx.InitCurrentThread()

	ctx.Debug("too quiet")
	ctx.Info("still too quiet")
	ctx.Warn("loud enough")
	ctx.Error("definitely")

	records := ctx.DrainCurrentThread()
	if len(records) != 2 {
		t.Fatalf("drained %d records, want 2", len(records))
	}
	if records[0].Message != "loud enough" || records[1].Message != "definitely" {
		t.Errorf("unexpected records: %+v", records)
	}
	// Filtered emissions must not consume sequence numbers.
	if records[0].Seq != 0 || records[1].Seq != 1 {
		t.Errorf("Seq = %d, %d; want 0, 1", records[0].Seq, records[1].Seq)
	}
	if got := ctx.Stats().FilteredTotal; got != 2 {
		t.Errorf("FilteredTotal = %d, want 2", got)
	}
}

func TestFieldsCopiedFromCaller(t *testing.T) {
	ctx := New()
	ctx.InitCurrentThread()

	fields := []core.Field{String("state", "original")}
	ctx.Log(core.InfoLevel, "captured", fields...)
	fields[0].Str = "mutated"

	records := ctx.DrainCurrentThread()
	if records[0].Fields[0].Str != "original" {
		t.Error("captured record shares the caller's field slice")
	}
}

func TestRecordTimestampUsesClock(t *testing.T) {
	fixed := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	ctx := NewBuilder().WithClock(func() time.Time { return fixed }).Build()
	ctx.InitCurrentThread()
	ctx.Info("stamped")

	records := ctx.DrainCurrentThread()
	if !records[0].Time.Equal(fixed) {
		t.Errorf("record time = %v, want %v", records[0].Time, fixed)
	}
}

func TestContextIDsDistinct(t *testing.T) {
	a, b := New(), New()
	if a.ID() == "" {
		t.Fatal("context ID is empty")
	}
	if a.ID() == b.ID() {
		t.Errorf("two contexts share ID %q", a.ID())
	}
}

func TestThreads(t *testing.T) {
	ctx := New()
	id := ctx.InitCurrentThread()

	ids := ctx.Threads()
	if len(ids) != 1 || ids[0] != id {
		t.Errorf("Threads() = %v, want [%d]", ids, id)
	}
}

func TestStatsCounters(t *testing.T) {
	ctx := NewBuilder().WithMinLevel(core.DebugLevel).Build()
	ctx.InitCurrentThread()

	ctx.Trace("filtered")
	ctx.Debug("d")
	ctx.Info("i")
	ctx.Info("i2")
	ctx.Error("e")
	ctx.DrainCurrentThread()

	snap := ctx.Stats()
	if snap.Captured[core.DebugLevel] != 1 || snap.Captured[core.InfoLevel] != 2 || snap.Captured[core.ErrorLevel] != 1 {
		t.Errorf("captured counters = %v", snap.Captured)
	}
	if snap.FilteredTotal != 1 {
		t.Errorf("FilteredTotal = %d, want 1", snap.FilteredTotal)
	}
	if snap.DrainedTotal != 4 {
		t.Errorf("DrainedTotal = %d, want 4", snap.DrainedTotal)
	}
}

func TestDrainUnregisteredReturnsNil(t *testing.T) {
	ctx := New()
	if records := ctx.DrainCurrentThread(); records != nil {
		t.Errorf("drain of unregistered goroutine = %+v, want nil", records)
	}
	// Draining must not have registered us as a side effect.
	if ctx.Initialized() {
		t.Error("drain registered the goroutine")
	}
}

func TestConcurrentLoggingManyGoroutines(t *testing.T) {
	ctx := New()

	const workers = 16
	const perWorker = 50

	type result struct {
		id      core.ThreadID
		records []core.Record
	}
	results := make(chan result, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			id := ctx.InitCurrentThread()
			for i := 0; i < perWorker; i++ {
				ctx.Infof("w%d-%d", w, i)
			}
			results <- result{id: id, records: ctx.DrainCurrentThread()}
		}(w)
	}
	wg.Wait()
	close(results)

	seen := map[core.ThreadID]bool{}
	for res := range results {
		if seen[res.id] {
			t.Fatalf("thread identity %d reported twice", res.id)
		}
		seen[res.id] = true
		if len(res.records) != perWorker {
			t.Errorf("thread %d drained %d records, want %d", res.id, len(res.records), perWorker)
		}
		for i, r := range res.records {
			if r.Seq != uint64(i) {
				t.Errorf("thread %d record %d has Seq %d", res.id, i, r.Seq)
				break
			}
			if r.ThreadID != res.id {
				t.Errorf("thread %d drained foreign record from %d", res.id, r.ThreadID)
				break
			}
		}
	}
}

func BenchmarkLog(b *testing.B) {
	ctx := New()
	ctx.InitCurrentThread()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx.Info("benchmark message")
	}
	b.StopTimer()
	ctx.DrainCurrentThread()
}

func BenchmarkLogWithFields(b *testing.B) {
	ctx := New()
	ctx.InitCurrentThread()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx.Info("benchmark message", String("key", "value"), Int("n", i))
	}
	b.StopTimer()
	ctx.DrainCurrentThread()
}
