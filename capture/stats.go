package capture

import (
	"sync/atomic"

	"github.com/capturelog/threadlog/core"
)

// Stats tracks capture counters for one context
type Stats struct {
	// Separate atomic counters per level
	CapturedTrace uint64
	CapturedDebug uint64
	CapturedInfo  uint64
	CapturedWarn  uint64
	CapturedError uint64
	// FilteredTotal counts emissions gated out by the minimum level
	FilteredTotal uint64
	// AutoInitTotal counts permissive-policy auto-registrations
	AutoInitTotal uint64
	// DrainedTotal counts records handed out by drains
	DrainedTotal uint64
	// ReleasedTotal counts goroutines that released their capture state
	ReleasedTotal uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementCaptured atomically increments the captured counter for a level
func (s *Stats) IncrementCaptured(level core.Severity) {
	switch level {
	case core.TraceLevel:
		atomic.AddUint64(&s.CapturedTrace, 1)
	case core.DebugLevel:
		atomic.AddUint64(&s.CapturedDebug, 1)
	case core.InfoLevel:
		atomic.AddUint64(&s.CapturedInfo, 1)
	case core.WarnLevel:
		atomic.AddUint64(&s.CapturedWarn, 1)
	case core.ErrorLevel:
		atomic.AddUint64(&s.CapturedError, 1)
	}
}

// IncrementFiltered atomically increments the filtered counter
func (s *Stats) IncrementFiltered() {
	atomic.AddUint64(&s.FilteredTotal, 1)
}

// IncrementAutoInit atomically increments the auto-registration counter
func (s *Stats) IncrementAutoInit() {
	atomic.AddUint64(&s.AutoInitTotal, 1)
}

// AddDrained atomically adds to the drained-record counter
func (s *Stats) AddDrained(n uint64) {
	atomic.AddUint64(&s.DrainedTotal, n)
}

// IncrementReleased atomically increments the released counter
func (s *Stats) IncrementReleased() {
	atomic.AddUint64(&s.ReleasedTotal, 1)
}

// GetCaptured returns the captured count for a level
func (s *Stats) GetCaptured(level core.Severity) uint64 {
	switch level {
	case core.TraceLevel:
		return atomic.LoadUint64(&s.CapturedTrace)
	case core.DebugLevel:
		return atomic.LoadUint64(&s.CapturedDebug)
	case core.InfoLevel:
		return atomic.LoadUint64(&s.CapturedInfo)
	case core.WarnLevel:
		return atomic.LoadUint64(&s.CapturedWarn)
	case core.ErrorLevel:
		return atomic.LoadUint64(&s.CapturedError)
	default:
		return 0
	}
}

// GetTotalCaptured returns the total captured across all levels
func (s *Stats) GetTotalCaptured() uint64 {
	return atomic.LoadUint64(&s.CapturedTrace) +
		atomic.LoadUint64(&s.CapturedDebug) +
		atomic.LoadUint64(&s.CapturedInfo) +
		atomic.LoadUint64(&s.CapturedWarn) +
		atomic.LoadUint64(&s.CapturedError)
}

// Reset resets all counters to zero
func (s *Stats) Reset() {
	atomic.StoreUint64(&s.CapturedTrace, 0)
	atomic.StoreUint64(&s.CapturedDebug, 0)
	atomic.StoreUint64(&s.CapturedInfo, 0)
	atomic.StoreUint64(&s.CapturedWarn, 0)
	atomic.StoreUint64(&s.CapturedError, 0)
	atomic.StoreUint64(&s.FilteredTotal, 0)
	atomic.StoreUint64(&s.AutoInitTotal, 0)
	atomic.StoreUint64(&s.DrainedTotal, 0)
	atomic.StoreUint64(&s.ReleasedTotal, 0)
}

// Snapshot is a point-in-time copy of a context's counters
type Snapshot struct {
	Captured      map[core.Severity]uint64
	FilteredTotal uint64
	AutoInitTotal uint64
	DrainedTotal  uint64
	ReleasedTotal uint64
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	return Snapshot{
		Captured: map[core.Severity]uint64{
			core.TraceLevel: s.GetCaptured(core.TraceLevel),
			core.DebugLevel: s.GetCaptured(core.DebugLevel),
			core.InfoLevel:  s.GetCaptured(core.InfoLevel),
			core.WarnLevel:  s.GetCaptured(core.WarnLevel),
			core.ErrorLevel: s.GetCaptured(core.ErrorLevel),
		},
		FilteredTotal: atomic.LoadUint64(&s.FilteredTotal),
		AutoInitTotal: atomic.LoadUint64(&s.AutoInitTotal),
		DrainedTotal:  atomic.LoadUint64(&s.DrainedTotal),
		ReleasedTotal: atomic.LoadUint64(&s.ReleasedTotal),
	}
}
