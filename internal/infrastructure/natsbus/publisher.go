// Package natsbus forwards domain events to NATS so other services can follow shop activity.
package natsbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domoutbox "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/outbox"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability/logctx"

	"github.com/nats-io/nats.go"
)

// SubjectPrefix is prepended to the event name to build the subject.
const SubjectPrefix = "ninjacoders."

// Envelope is the JSON document published for every event.
type Envelope struct {
	Event       string          `json:"event"`
	PublishedAt time.Time       `json:"published_at"`
	Payload     json.RawMessage `json:"payload"`
}

// conn is the subset of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

// Publisher implements outbox.Publisher on a NATS connection.
type Publisher struct {
	nc  conn
	log observability.Logger
}

// Connect dials url and returns a publisher owning the connection.
func Connect(url, name string, logger observability.Logger) (*Publisher, error) {
	if url == "" {
		return nil, errors.New("natsbus: url is required")
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	log := logger.With(observability.F("component", "natsbus"))
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats_disconnected", observability.F("error", err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats_reconnected", observability.F("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &Publisher{nc: nc, log: log}, nil
}

func newPublisher(nc conn, logger observability.Logger) *Publisher {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Publisher{nc: nc, log: logger}
}

// Subject returns the NATS subject for an event name.
func Subject(eventName string) string { return SubjectPrefix + eventName }

// Publish encodes e into an Envelope and publishes it. NATS publishes are
// fire-and-forget, so the context is only checked before sending.
func (p *Publisher) Publish(ctx context.Context, e domoutbox.Event) error {
	if e == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before publish: %w", err)
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("natsbus: encode %s: %w", e.EventName(), err)
	}
	data, err := json.Marshal(Envelope{
		Event:       e.EventName(),
		PublishedAt: time.Now().UTC(),
		Payload:     payload,
	})
	if err != nil {
		return fmt.Errorf("natsbus: encode envelope: %w", err)
	}
	subject := Subject(e.EventName())
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("natsbus: publish %s: %w", subject, err)
	}
	logctx.FromOr(ctx, p.log).Debug("event_forwarded", observability.F("subject", subject))
	return nil
}

// Close flushes pending messages and drains the connection.
func (p *Publisher) Close(ctx context.Context) error {
	if err := p.nc.FlushWithContext(ctx); err != nil {
		p.log.Warn("nats_flush_failed", observability.F("error", err))
	}
	return p.nc.Drain()
}
