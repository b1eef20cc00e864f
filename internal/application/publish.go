package application

import (
	"context"
	"time"

	domoutbox "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/outbox"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	publishPeer    = "outbox"
	publishTimeout = 300 * time.Millisecond
)

// Publish emits e best-effort: failures are recorded on the run but never returned.
func (r *Run) Publish(ctx context.Context, publisher domoutbox.Publisher, e domoutbox.Event) {
	if publisher == nil || e == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	start := time.Now()
	err := publisher.Publish(pubCtx, e)
	if err == nil && pubCtx.Err() != nil {
		err = pubCtx.Err()
	}
	r.in.External(publishPeer, e.EventName(), start, err)

	if err != nil {
		if r.span != nil {
			r.span.RecordError(err)
		}
		r.logger.Warn("event_publish_failed",
			observability.F("event", e.EventName()),
			observability.F("error", err.Error()),
		)
		r.AddField("event_publish_error", err.Error())
		return
	}
	if r.span != nil {
		r.span.AddEvent(e.EventName(), trace.WithAttributes(attribute.String("event", e.EventName())))
	}
}
