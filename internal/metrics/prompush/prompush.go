// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// A batch loader exits long before any scraper would find it, so collected
// series are pushed to a Pushgateway on Flush instead of being served over
// HTTP. All Prometheus-specific dependencies stay inside this package.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"cine/internal/metrics"
)

// DefaultJob is the Pushgateway grouping job used when none is configured.
const DefaultJob = "cine"

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stepCounter   *prometheus.CounterVec   // cine_step_total
	stepDuration  *prometheus.SummaryVec   // cine_step_duration_seconds
	recordCounter *prometheus.CounterVec   // cine_records_total
	chunkCounter  *prometheus.CounterVec   // cine_chunks_total
	chunkDuration *prometheus.HistogramVec // cine_chunk_duration_seconds
}

// NewBackend constructs a Pushgateway backend. gatewayURL is required; an
// empty jobName falls back to DefaultJob.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = DefaultJob
	}

	b := &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		reg:        prometheus.NewRegistry(),
		stepCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metrics.StepTotal,
				Help: "Entity-level steps executed, by step, entity and status.",
			},
			[]string{"step", "entity", "status"},
		),
		stepDuration: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name:       metrics.StepDurationSeconds,
				Help:       "Duration of entity-level steps in seconds.",
				Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
			[]string{"step", "entity", "status"},
		),
		recordCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metrics.RecordsTotal,
				Help: "Records by table and kind (inserted, skipped, orphans, decoded).",
			},
			[]string{"table", "kind"},
		),
		chunkCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metrics.ChunksTotal,
				Help: "Committed insert chunks per table.",
			},
			[]string{"table"},
		),
		chunkDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metrics.ChunkDurationSeconds,
				Help:    "Time to insert and commit one chunk.",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"table"},
		),
	}

	for name, c := range map[string]prometheus.Collector{
		"step counter":   b.stepCounter,
		"step summary":   b.stepDuration,
		"record counter": b.recordCounter,
		"chunk counter":  b.chunkCounter,
		"chunk duration": b.chunkDuration,
	} {
		if err := b.reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
	}
	return b, nil
}

// IncCounter routes a counter update to its collector. Unknown names are ignored.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		if b.stepCounter != nil {
			b.stepCounter.WithLabelValues(labels["step"], labels["entity"], labels["status"]).Add(delta)
		}
	case metrics.RecordsTotal:
		if b.recordCounter != nil {
			b.recordCounter.WithLabelValues(labels["table"], labels["kind"]).Add(delta)
		}
	case metrics.ChunksTotal:
		if b.chunkCounter != nil {
			b.chunkCounter.WithLabelValues(labels["table"]).Add(delta)
		}
	}
}

// ObserveHistogram routes a duration observation to its collector.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	switch name {
	case metrics.StepDurationSeconds:
		if b.stepDuration != nil {
			b.stepDuration.WithLabelValues(labels["step"], labels["entity"], labels["status"]).Observe(value)
		}
	case metrics.ChunkDurationSeconds:
		if b.chunkDuration != nil {
			b.chunkDuration.WithLabelValues(labels["table"]).Observe(value)
		}
	}
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
