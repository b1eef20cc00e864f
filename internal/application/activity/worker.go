package activity

import (
	"context"

	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application"
	domcart "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/cart"
	domcontest "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/contest"
	domnewsletter "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/newsletter"
	domoutbox "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/outbox"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const (
	workerService = "activity-worker"
	useCase       = "activity.record"
)

// Worker records shop activity (checkouts, signups, uploads) as metrics and logs.
type Worker struct {
	in           application.Instruments
	eventCounter observability.Counter // domain_events_total{event}
}

func New(tel observability.Observability) *Worker {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Worker{
		in:           application.NewInstruments(tel, workerService),
		eventCounter: tel.Metrics().Counter(observability.MDomainEvents),
	}
}

// Handlers lists the events the worker reacts to, keyed by event name.
func (w *Worker) Handlers() map[string]domoutbox.Handler {
	return map[string]domoutbox.Handler{
		domcart.CheckedOutEvent{}.EventName():       w.Handle,
		domnewsletter.SubscribedEvent{}.EventName(): w.Handle,
		domcontest.PhotoUploadedEvent{}.EventName(): w.Handle,
	}
}

// Handle records a single event. Unknown events are ignored.
func (w *Worker) Handle(ctx context.Context, e domoutbox.Event) (err error) {
	if e == nil {
		return nil
	}
	_, run := w.in.Begin(ctx, useCase, "RecordActivity", attribute.String("event", e.EventName()))
	defer func() { run.End(err) }()

	fields := eventFields(e)
	if fields == nil {
		run.SetStatus("IGNORED")
		return nil
	}
	if w.eventCounter != nil {
		w.eventCounter.Add(1, observability.L("event", e.EventName()))
	}
	run.Logger().Info("activity_recorded",
		append([]observability.Field{observability.F("event", e.EventName())}, fields...)...)
	return nil
}

func eventFields(e domoutbox.Event) []observability.Field {
	switch evt := e.(type) {
	case domcart.CheckedOutEvent:
		return []observability.Field{
			observability.F("cart_id", evt.CartID),
			observability.F("items", evt.Items),
			observability.F("total", evt.Total),
			observability.F("occurred_at", evt.OccurredAt),
		}
	case domnewsletter.SubscribedEvent:
		return []observability.Field{
			observability.F("occurred_at", evt.OccurredAt),
		}
	case domcontest.PhotoUploadedEvent:
		return []observability.Field{
			observability.F("year", evt.Year),
			observability.F("month", evt.Month),
			observability.F("file_name", evt.FileName),
			observability.F("occurred_at", evt.OccurredAt),
		}
	default:
		return nil
	}
}
