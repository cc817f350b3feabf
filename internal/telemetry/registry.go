// Package telemetry implements the engine's process-wide timer registry:
// a narrow interface around named, start/stop labeled regions, backed by
// Prometheus counters and histograms and wrapped in OpenTelemetry spans.
package telemetry

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

// Registry is the timer contract every engine operation reports through.
// Start returns a function that stops the timer when called; callers
// invoke it with defer.
type Registry interface {
	Start(ctx context.Context, label string) (context.Context, func(err error))
}

var (
	callsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "limbblas_calls_total",
			Help: "The total number of timed limb-BLAS regions entered, by label and status.",
		},
		[]string{"label", "status"},
	)
	callDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "limbblas_call_duration_seconds",
			Help: "The duration of timed limb-BLAS regions, by label.",
		},
		[]string{"label"},
	)
)

// PromOtelRegistry implements Registry with Prometheus counters/histograms
// plus an OpenTelemetry span per labeled region. The underlying metrics are
// package-level, registered once with the default Prometheus registerer;
// NewPromOtelRegistry only varies the tracer name.
type PromOtelRegistry struct {
	tracer string
}

// NewPromOtelRegistry constructs a Registry that reports under the given
// OpenTelemetry tracer name.
func NewPromOtelRegistry(tracerName string) *PromOtelRegistry {
	return &PromOtelRegistry{tracer: tracerName}
}

// Start begins a timed region under the given label and returns a stop
// function recording its outcome.
func (r *PromOtelRegistry) Start(ctx context.Context, label string) (context.Context, func(err error)) {
	ctx, span := otel.Tracer(r.tracer).Start(ctx, label)
	start := time.Now()
	return ctx, func(err error) {
		status := "success"
		if err != nil {
			status = "error"
		}
		callsTotal.WithLabelValues(label, status).Inc()
		callDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		span.End()
	}
}

// NoopRegistry implements Registry with no side effects, for callers that
// do not want Prometheus registration (e.g. unit tests run in parallel,
// which would otherwise collide on the default registry).
type NoopRegistry struct{}

// Start implements Registry.
func (NoopRegistry) Start(ctx context.Context, label string) (context.Context, func(err error)) {
	return ctx, func(err error) {}
}
