// Package observability assembles the shop's telemetry provider from a tracer, a
// logger and the Prometheus instruments registered by StandardInstruments.
package observability

import (
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"
)

// Instruments maps metric keys to registered instruments. Unknown keys resolve to nops.
type Instruments struct {
	Counters   map[observability.MetricKey]observability.Counter
	Histograms map[observability.MetricKey]observability.Histogram
}

func (in Instruments) Counter(name observability.MetricKey) observability.Counter {
	if c := in.Counters[name]; c != nil {
		return c
	}
	return observability.NopCounter()
}

func (in Instruments) Histogram(name observability.MetricKey) observability.Histogram {
	if h := in.Histograms[name]; h != nil {
		return h
	}
	return observability.NopHistogram()
}

type telemetry struct {
	tracer  observability.Tracer
	logger  observability.Logger
	metrics observability.Metrics
}

// New returns the provider handed to use cases, workers and the HTTP handler.
// Nil parts fall back to nops, so tests can pass only what they assert on.
func New(tracer observability.Tracer, logger observability.Logger, in Instruments) observability.Observability {
	t := &telemetry{tracer: tracer, logger: logger, metrics: in}
	if t.tracer == nil {
		t.tracer = observability.NopTracer()
	}
	if t.logger == nil {
		t.logger = observability.NopLogger()
	}
	if len(in.Counters) == 0 && len(in.Histograms) == 0 {
		t.metrics = observability.NopMetrics()
	}
	return t
}

func (t *telemetry) Tracer() observability.Tracer   { return t.tracer }
func (t *telemetry) Logger() observability.Logger   { return t.logger }
func (t *telemetry) Metrics() observability.Metrics { return t.metrics }
