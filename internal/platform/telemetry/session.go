package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SessionMetrics holds session middleware metrics. All methods are safe on a
// nil receiver, so callers can wire metrics conditionally.
type SessionMetrics struct {
	loadDuration metric.Float64Histogram
	loadTotal    metric.Int64Counter
	commitTotal  metric.Int64Counter
}

// NewSessionMetrics creates session load/commit metrics.
func NewSessionMetrics() (*SessionMetrics, error) {
	meter := otel.Meter(instrumentationName)

	loadDuration, err := meter.Float64Histogram(
		"session.load.duration",
		metric.WithDescription("Session load duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	loadTotal, err := meter.Int64Counter(
		"session.load.total",
		metric.WithDescription("Total number of session loads"),
	)
	if err != nil {
		return nil, err
	}

	commitTotal, err := meter.Int64Counter(
		"session.commit.total",
		metric.WithDescription("Total number of session commits"),
	)
	if err != nil {
		return nil, err
	}

	return &SessionMetrics{
		loadDuration: loadDuration,
		loadTotal:    loadTotal,
		commitTotal:  commitTotal,
	}, nil
}

// RecordLoad records one session load attempt and its duration.
func (m *SessionMetrics) RecordLoad(ctx context.Context, duration time.Duration, err error) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("result", resultLabel(err)))
	m.loadTotal.Add(ctx, 1, attrs)
	m.loadDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordCommit records one session commit attempt.
func (m *SessionMetrics) RecordCommit(ctx context.Context, err error) {
	if m == nil {
		return
	}

	m.commitTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", resultLabel(err))))
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}
