// Package workerpresentation attaches domain event handlers to the bus.
package workerpresentation

import (
	"context"

	domoutbox "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/outbox"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability/logctx"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Subscribe registers every handler on sub, giving each invocation an event-scoped logger.
func Subscribe(
	sub domoutbox.Subscriber,
	base observability.Logger,
	tel observability.Observability,
	handlers map[string]domoutbox.Handler,
) {
	if tel == nil {
		tel = observability.Nop()
	}
	if base == nil {
		base = tel.Logger()
	}
	for name, h := range handlers {
		if h == nil {
			continue
		}
		sub.Subscribe(name, withEventLogger(name, base, h))
	}
}

// withEventLogger puts a logger carrying event, event_id and, when the dispatch
// span is valid, trace_id/span_id on the handler's context.
func withEventLogger(name string, base observability.Logger, h domoutbox.Handler) domoutbox.Handler {
	return func(ctx context.Context, e domoutbox.Event) error {
		fields := []observability.Field{
			observability.F("event", name),
			observability.F("event_id", uuid.NewString()),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		return h(logctx.With(ctx, base.With(fields...)), e)
	}
}
