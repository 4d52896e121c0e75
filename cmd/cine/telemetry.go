package main

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cine/internal/config"
	"cine/internal/metrics"
	"cine/internal/metrics/datadog"
	"cine/internal/metrics/prompush"
)

// setupMetrics installs the configured metrics backend and returns the
// function that flushes it at exit. With no backend it returns nil.
func setupMetrics(m config.Metrics, log *zap.Logger) (func() error, error) {
	switch m.Backend {
	case "", "none":
		log.Debug("metrics disabled")
		return nil, nil

	case "pushgateway":
		b, err := prompush.NewBackend(m.Job, m.PushgatewayURL)
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		metrics.SetBackend(b)
		log.Info("metrics enabled", zap.String("backend", m.Backend), zap.String("url", m.PushgatewayURL), zap.String("job", m.Job))
		return flushWith(log, nil), nil

	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{Addr: m.DogStatsDAddr, Namespace: "cine.", GlobalTags: m.Tags})
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		metrics.SetBackend(b)
		log.Info("metrics enabled", zap.String("backend", m.Backend), zap.String("addr", m.DogStatsDAddr))
		return flushWith(log, b.Close), nil

	default:
		return nil, fmt.Errorf("metrics: unknown backend %q", m.Backend)
	}
}

func flushWith(log *zap.Logger, closeFn func() error) func() error {
	return func() error {
		err := metrics.Flush()
		if closeFn != nil {
			err = errors.Join(err, closeFn())
		}
		if err != nil {
			log.Warn("metrics flush failed", zap.Error(err))
		}
		return nil
	}
}
