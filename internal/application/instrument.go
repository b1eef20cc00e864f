package application

import (
	"context"
	"time"

	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const spanPrefix = "UC."

// UseCase is implemented by the single-operation shop services (catalog listing,
// newsletter signup, contest upload). The cart workflow exposes several operations
// and reports through Instruments directly.
type UseCase[C any, R any] interface {
	Execute(ctx context.Context, cmd C) (R, error)
}

// Instruments bundles the RED metrics, tracer and base logger a use case reports to.
// Instruments are supplied via DI; never create metrics inside a use case method.
type Instruments struct {
	log          observability.Logger
	tracer       observability.Tracer
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
	extCounter   observability.Counter   // external_requests_total{peer,endpoint,outcome}
	extHistogram observability.Histogram // external_request_duration_seconds{peer,endpoint}
}

func NewInstruments(tel observability.Observability, service string) Instruments {
	if tel == nil {
		tel = observability.Nop()
	}
	metrics := tel.Metrics()
	return Instruments{
		log:          tel.Logger().With(observability.F("service", service)),
		tracer:       tel.Tracer(),
		reqCounter:   metrics.Counter(observability.MUsecaseRequests),
		durHistogram: metrics.Histogram(observability.MUsecaseDuration),
		extCounter:   metrics.Counter(observability.MExternalRequests),
		extHistogram: metrics.Histogram(observability.MExternalRequestDuration),
	}
}

// Run tracks a single use case execution.
type Run struct {
	in      Instruments
	ctx     context.Context
	span    trace.Span
	useCase string
	start   time.Time
	status  string
	logger  observability.Logger
	fields  []observability.Field
}

// Begin starts the span and returns a context carrying the use case logger.
func (in Instruments) Begin(ctx context.Context, useCase, spanName string, attrs ...attribute.KeyValue) (context.Context, *Run) {
	logger := logctx.FromOr(ctx, in.log).With(observability.F("use_case", useCase))

	attrs = append([]attribute.KeyValue{attribute.String("use_case", useCase)}, attrs...)
	ctx, span := in.tracer.Start(ctx, spanPrefix+spanName, attrs...)
	ctx = logctx.With(ctx, logger)

	return ctx, &Run{
		in:      in,
		ctx:     ctx,
		span:    span,
		useCase: useCase,
		start:   time.Now(),
		logger:  logger,
	}
}

// Logger returns the use case scoped logger.
func (r *Run) Logger() observability.Logger { return r.logger }

// Span exposes the use case span for events and attributes.
func (r *Run) Span() trace.Span { return r.span }

// SetStatus overrides the status text derived from the final error.
func (r *Run) SetStatus(status string) { r.status = status }

// AddField attaches a field to the final use_case_done line.
func (r *Run) AddField(key string, value any) {
	r.fields = append(r.fields, observability.F(key, value))
}

// End records span status, RED metrics and one use_case_done log line.
func (r *Run) End(err error) {
	lat := time.Since(r.start).Seconds()
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	statusText := r.status
	if statusText == "" || (err != nil && statusText == "OK") {
		statusText = Outcome(err)
	}

	if r.span != nil {
		if err != nil {
			r.span.RecordError(err)
			r.span.SetStatus(codes.Error, statusText)
		} else {
			r.span.SetStatus(codes.Ok, statusText)
		}
		r.span.End()
	}

	if r.in.reqCounter != nil {
		r.in.reqCounter.Add(1,
			observability.L("use_case", r.useCase),
			observability.L("outcome", outcome),
		)
	}
	if r.in.durHistogram != nil {
		r.in.durHistogram.Observe(lat,
			observability.L("use_case", r.useCase),
		)
	}

	fields := []observability.Field{
		observability.F("outcome", outcome),
		observability.F("status", statusText),
		observability.F("latency_seconds", lat),
	}
	if sc := trace.SpanContextFromContext(r.ctx); sc.IsValid() {
		fields = append(fields,
			observability.F("trace_id", sc.TraceID().String()),
			observability.F("span_id", sc.SpanID().String()),
		)
	}
	fields = append(fields, r.fields...)
	if err != nil {
		fields = append(fields, observability.F("error", err.Error()))
	}

	r.logger.Info("use_case_done", fields...)
}

// External records a call to an outside dependency such as the mailer.
func (in Instruments) External(peer, endpoint string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	if in.extCounter != nil {
		in.extCounter.Add(1,
			observability.L("peer", peer),
			observability.L("endpoint", endpoint),
			observability.L("outcome", outcome),
		)
	}
	if in.extHistogram != nil {
		in.extHistogram.Observe(time.Since(start).Seconds(),
			observability.L("peer", peer),
			observability.L("endpoint", endpoint),
		)
	}
}
