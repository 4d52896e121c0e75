// Package metrics is a small, backend-agnostic facade for the loader's
// operational metrics.
//
// Callers record through the package-level helpers; a no-op backend is
// installed by default, so instrumentation is always safe to call. Concrete
// systems (Prometheus Pushgateway, DogStatsD) live in subpackages and are
// installed once at startup with SetBackend.
package metrics

import (
	"sync"
	"time"
)

// Metric names shared by every backend.
const (
	StepTotal            = "cine_step_total"
	StepDurationSeconds  = "cine_step_duration_seconds"
	RecordsTotal         = "cine_records_total"
	ChunksTotal          = "cine_chunks_total"
	ChunkDurationSeconds = "cine_chunk_duration_seconds"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

// RecordStep counts one entity-level step (decode, load, orphan scan) and
// its duration, labelled with the outcome.
func RecordStep(step, entity string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{
		"step":   step,
		"entity": entity,
		"status": status,
	}
	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRows adds delta records of the given kind for a table.
//
// Kinds used by the loader:
//   - "inserted"
//   - "skipped" (malformed rows dropped in lenient mode)
//   - "orphans" (rows referencing an unknown parent id)
//   - "decoded" (benchmark only)
func RecordRows(table, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RecordsTotal, float64(delta), Labels{
		"table": table,
		"kind":  kind,
	})
}

// RecordChunk accounts for one committed chunk of n records.
func RecordChunk(table string, n int, d time.Duration) {
	b := current()
	lbls := Labels{"table": table}
	b.IncCounter(ChunksTotal, 1, lbls)
	b.ObserveHistogram(ChunkDurationSeconds, d.Seconds(), lbls)
	RecordRows(table, "inserted", int64(n))
}
