package cart

import (
	"time"

	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/product"
)

type Status string

const (
	StatusEmpty      Status = "empty"
	StatusActive     Status = "active"
	StatusCheckedOut Status = "checked_out"
)

// State implements the state pattern for the cart lifecycle:
// Empty -> Active -> CheckedOut, with Active -> Empty when the last item goes.
type State interface {
	Status() Status
	OnAdd(c *Cart, p product.Product) (State, error)
	OnSetQuantity(c *Cart, productID string, qty int) (State, error)
	OnRemove(c *Cart, productID string) (State, error)
	OnCheckout(c *Cart, email string) (State, error)
}

type emptyState struct{}

func (emptyState) Status() Status { return StatusEmpty }

func (emptyState) OnAdd(c *Cart, p product.Product) (State, error) {
	c.Items = append(c.Items, LineItem{Product: p, Quantity: 1})
	return activeState{}, nil
}

func (emptyState) OnSetQuantity(*Cart, string, int) (State, error) {
	return nil, ErrItemNotFound
}

func (emptyState) OnRemove(*Cart, string) (State, error) {
	return emptyState{}, nil
}

func (emptyState) OnCheckout(c *Cart, email string) (State, error) {
	return checkout(c, email)
}

type activeState struct{}

func (activeState) Status() Status { return StatusActive }

func (activeState) OnAdd(c *Cart, p product.Product) (State, error) {
	if i := c.indexOf(p.ID); i >= 0 {
		c.Items[i].Quantity++
		return activeState{}, nil
	}
	c.Items = append(c.Items, LineItem{Product: p, Quantity: 1})
	return activeState{}, nil
}

func (activeState) OnSetQuantity(c *Cart, productID string, qty int) (State, error) {
	i := c.indexOf(productID)
	if i < 0 {
		return nil, ErrItemNotFound
	}
	if qty <= 0 {
		c.removeAt(i)
		return stateAfterRemoval(c), nil
	}
	c.Items[i].Quantity = qty
	return activeState{}, nil
}

func (activeState) OnRemove(c *Cart, productID string) (State, error) {
	if i := c.indexOf(productID); i >= 0 {
		c.removeAt(i)
	}
	return stateAfterRemoval(c), nil
}

func (activeState) OnCheckout(c *Cart, email string) (State, error) {
	return checkout(c, email)
}

type checkedOutState struct{}

func (checkedOutState) Status() Status { return StatusCheckedOut }

func (checkedOutState) OnAdd(*Cart, product.Product) (State, error) {
	return nil, ErrCheckedOut
}

func (checkedOutState) OnSetQuantity(*Cart, string, int) (State, error) {
	return nil, ErrCheckedOut
}

func (checkedOutState) OnRemove(*Cart, string) (State, error) {
	return nil, ErrCheckedOut
}

func (checkedOutState) OnCheckout(*Cart, string) (State, error) {
	return nil, ErrCheckedOut
}

func checkout(c *Cart, email string) (State, error) {
	c.Email = email
	c.CheckedOutAt = time.Now().UTC()
	return checkedOutState{}, nil
}

func stateAfterRemoval(c *Cart) State {
	if len(c.Items) == 0 {
		return emptyState{}
	}
	return activeState{}
}
