package newsletter

import (
	"fmt"
	"time"
)

const (
	Subject = "NinjaCoders Newsletter Subscription"
)

// WelcomeBody is the plain-text welcome mail for a new subscriber.
func WelcomeBody(name string) string {
	return fmt.Sprintf("Hi %s, \nThank you for signing up to the NinjaCoders Newsletter. You'll be hearing from us soon!", name)
}

// SubscribedEvent is emitted after the welcome mail went out.
type SubscribedEvent struct {
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (SubscribedEvent) EventName() string { return "newsletter.subscribed" }

func NewSubscribedEvent(email string) SubscribedEvent {
	return SubscribedEvent{Email: email, OccurredAt: time.Now().UTC()}
}
