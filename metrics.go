package shelf

import (
	"fmt"
	"sync/atomic"
)

// MetricsCollector receives interning events. Implement it to feed a
// monitoring system; examples/observability has a Prometheus version.
//
// Implementations must be safe for concurrent use: const dictionaries call
// them from every inserting goroutine.
type MetricsCollector interface {
	// RecordInsert is called after each Insert. hit is true when the value
	// was already present and its existing handle was returned.
	RecordInsert(hit bool)

	// RecordRemove is called after each Remove or RemoveValue.
	RecordRemove(found bool)
}

// NoopMetricsCollector discards all events.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(bool) {}
func (NoopMetricsCollector) RecordRemove(bool) {}

// BasicMetricsCollector counts events in memory.
type BasicMetricsCollector struct {
	Inserts      atomic.Int64
	InsertHits   atomic.Int64
	Removes      atomic.Int64
	RemoveMisses atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(hit bool) {
	b.Inserts.Add(1)
	if hit {
		b.InsertHits.Add(1)
	}
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(found bool) {
	b.Removes.Add(1)
	if !found {
		b.RemoveMisses.Add(1)
	}
}

// Stats returns a snapshot of the counters.
func (b *BasicMetricsCollector) Stats() BasicMetricsStats {
	return BasicMetricsStats{
		Inserts:      b.Inserts.Load(),
		InsertHits:   b.InsertHits.Load(),
		Removes:      b.Removes.Load(),
		RemoveMisses: b.RemoveMisses.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	Inserts      int64
	InsertHits   int64
	Removes      int64
	RemoveMisses int64
}

// HitRate is the share of inserts that found the value already interned.
func (s BasicMetricsStats) HitRate() float64 {
	if s.Inserts == 0 {
		return 0
	}
	return float64(s.InsertHits) / float64(s.Inserts)
}

func (s BasicMetricsStats) String() string {
	return fmt.Sprintf("inserts=%d hits=%d (%.1f%%) removes=%d misses=%d",
		s.Inserts, s.InsertHits, 100*s.HitRate(), s.Removes, s.RemoveMisses)
}
