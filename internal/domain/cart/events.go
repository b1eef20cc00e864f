package cart

import "time"

// CheckedOutEvent is emitted once a cart has been finalized.
type CheckedOutEvent struct {
	CartID     string    `json:"cart_id"`
	Email      string    `json:"email"`
	Items      int       `json:"items"`
	Total      string    `json:"total"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (CheckedOutEvent) EventName() string { return "cart.checked_out" }

func NewCheckedOutEvent(c *Cart) CheckedOutEvent {
	return CheckedOutEvent{
		CartID:     c.ID,
		Email:      c.Email,
		Items:      len(c.Items),
		Total:      c.Total().StringFixed(2),
		OccurredAt: time.Now().UTC(),
	}
}
