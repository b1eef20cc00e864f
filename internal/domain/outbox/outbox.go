// Package outbox defines how the shop announces finished work: cart checkouts,
// newsletter signups and contest uploads are published as named events after the
// workflow has succeeded. Delivery is best effort.
package outbox

import "context"

// Event names use the "<context>.<past tense>" form, e.g. "cart.checked_out".
type Event interface {
	EventName() string
}

type Handler func(ctx context.Context, e Event) error

// Publisher hands an event to the in-process bus or an external transport.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Subscriber routes events by name to handlers.
type Subscriber interface {
	Subscribe(eventName string, h Handler)
}
