package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/securematch/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

type transportMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newTransportMetrics(reg prometheus.Registerer) (*transportMetrics, error) {
	m := &transportMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "securematch",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "API requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "securematch",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "API request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.requests); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("securematch: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("securematch: register metric: %w", err)
	}
	return nil
}

// outcome buckets an error into a low-cardinality label.
func outcome(err error) string {
	var appErr *ApplicationError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &appErr):
		return "application_error"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	default:
		return "unknown"
	}
}

type observer struct {
	log     logging.Logger
	metrics *transportMetrics
}

func (o *observer) observe(ctx context.Context, op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		o.metrics.requests.WithLabelValues(op, outcome(err)).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.log == nil {
		return
	}
	if err != nil {
		o.log.Warn(ctx, "request failed", "op", op, "duration", dur, "error", err)
		return
	}
	o.log.Debug(ctx, "request completed", "op", op, "duration", dur)
}
