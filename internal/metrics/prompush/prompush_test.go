package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"cine/internal/metrics"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Counter.Write() error = %v", err)
	}
	if m.GetCounter() == nil {
		t.Fatalf("metric did not contain a counter")
	}
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, v *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	m := &dto.Metric{}
	metric, ok := v.WithLabelValues(labels...).(prometheus.Metric)
	if !ok {
		t.Fatalf("HistogramVec.WithLabelValues(...) is not a prometheus.Metric")
	}
	if err := metric.Write(m); err != nil {
		t.Fatalf("Histogram.Write() error = %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		jobName     string
		gatewayURL  string
		wantErr     bool
		wantJobName string
	}{
		{name: "missing gateway URL", jobName: "imdb", wantErr: true},
		{name: "default job", gatewayURL: "http://pushgateway:9091", wantJobName: DefaultJob},
		{name: "explicit job", jobName: "nightly", gatewayURL: "http://pushgateway:9091", wantJobName: "nightly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := NewBackend(tt.jobName, tt.gatewayURL)
			if tt.wantErr {
				if err == nil || b != nil {
					t.Fatalf("NewBackend() = %v, %v, want nil backend and error", b, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend() error = %v", err)
			}
			if b.jobName != tt.wantJobName {
				t.Fatalf("jobName = %q, want %q", b.jobName, tt.wantJobName)
			}
		})
	}
}

func TestRouting(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("", "http://example.com")
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}

	b.IncCounter(metrics.RecordsTotal, 5, metrics.Labels{"table": "titles", "kind": "inserted"})
	b.IncCounter(metrics.RecordsTotal, 2, metrics.Labels{"table": "titles", "kind": "inserted"})
	b.IncCounter(metrics.ChunksTotal, 1, metrics.Labels{"table": "titles"})
	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "load", "entity": "titles", "status": "success"})
	b.IncCounter("unknown_metric", 10, metrics.Labels{"table": "titles"})
	b.ObserveHistogram(metrics.ChunkDurationSeconds, 0.2, metrics.Labels{"table": "titles"})
	b.ObserveHistogram("unknown_metric", 0.2, metrics.Labels{"table": "titles"})

	if got := counterValue(t, b.recordCounter.WithLabelValues("titles", "inserted")); got != 7 {
		t.Fatalf("records = %v, want 7", got)
	}
	if got := counterValue(t, b.chunkCounter.WithLabelValues("titles")); got != 1 {
		t.Fatalf("chunks = %v, want 1", got)
	}
	if got := counterValue(t, b.stepCounter.WithLabelValues("load", "titles", "success")); got != 1 {
		t.Fatalf("steps = %v, want 1", got)
	}
	if got := histogramCount(t, b.chunkDuration, "titles"); got != 1 {
		t.Fatalf("chunk duration samples = %d, want 1", got)
	}
}

func TestZeroBackendIsSafe(t *testing.T) {
	t.Parallel()

	b := &Backend{}
	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{})
	b.IncCounter(metrics.RecordsTotal, 1, metrics.Labels{})
	b.IncCounter(metrics.ChunksTotal, 1, metrics.Labels{})
	b.ObserveHistogram(metrics.StepDurationSeconds, 1, metrics.Labels{})
	b.ObserveHistogram(metrics.ChunkDurationSeconds, 1, metrics.Labels{})
}

func TestFlush(t *testing.T) {
	t.Parallel()

	type pushed struct {
		method string
		path   string
		body   string
	}
	reqCh := make(chan pushed, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		body, _ := io.ReadAll(r.Body)
		reqCh <- pushed{method: r.Method, path: r.URL.Path, body: string(body)}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	b, err := NewBackend("imdb-load", server.URL)
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	b.IncCounter(metrics.ChunksTotal, 1, metrics.Labels{"table": "ratings"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var got pushed
	select {
	case got = <-reqCh:
	default:
		t.Fatalf("Flush() sent no request")
	}
	if got.method != http.MethodPut {
		t.Fatalf("method = %s, want PUT", got.method)
	}
	if !strings.Contains(got.path, "/job/imdb-load") {
		t.Fatalf("path = %q, want job grouping", got.path)
	}
	if len(got.body) == 0 {
		t.Fatalf("push body is empty")
	}
}
