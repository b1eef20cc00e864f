package cart

import (
	"errors"
	"time"

	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/product"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound       = errors.New("cart: not found")
	ErrItemNotFound   = errors.New("cart: line item not found")
	ErrCheckedOut     = errors.New("cart: already checked out")
	ErrInvalidProduct = errors.New("cart: product id is required")
)

// LineItem is one product entry in a cart. Quantity is always at least one.
type LineItem struct {
	Product  product.Product
	Quantity int
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type Cart struct {
	ID           string
	Items        []LineItem
	Email        string
	CheckedOutAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	checkedOut bool
}

func New(id string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Restore rebuilds a cart loaded from storage.
func Restore(id string, items []LineItem, email string, checkedOutAt time.Time, createdAt, updatedAt time.Time) *Cart {
	return &Cart{
		ID:           id,
		Items:        items,
		Email:        email,
		CheckedOutAt: checkedOutAt,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		checkedOut:   !checkedOutAt.IsZero(),
	}
}

func (c *Cart) Status() Status {
	return c.state().Status()
}

func (c *Cart) CheckedOut() bool { return c.checkedOut }

// Total is the sum of the line item subtotals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Size is the number of distinct line items.
func (c *Cart) Size() int { return len(c.Items) }

// RequiresDeposit reports whether any product in the cart needs a deposit.
func (c *Cart) RequiresDeposit() bool {
	for _, item := range c.Items {
		if item.Product.RequiresDeposit {
			return true
		}
	}
	return false
}

// Item returns the line item for productID.
func (c *Cart) Item(productID string) (LineItem, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.Items[i], true
	}
	return LineItem{}, false
}

// Add appends p or increments its quantity when already present.
func (c *Cart) Add(p product.Product) error {
	if p.ID == "" {
		return ErrInvalidProduct
	}
	next, err := c.state().OnAdd(c, p)
	if err != nil {
		return err
	}
	c.apply(next)
	return nil
}

// SetQuantity overwrites the quantity of an existing line item; qty <= 0 removes it.
func (c *Cart) SetQuantity(productID string, qty int) error {
	next, err := c.state().OnSetQuantity(c, productID, qty)
	if err != nil {
		return err
	}
	c.apply(next)
	return nil
}

// Remove deletes the line item for productID. Missing items are ignored.
func (c *Cart) Remove(productID string) error {
	next, err := c.state().OnRemove(c, productID)
	if err != nil {
		return err
	}
	c.apply(next)
	return nil
}

// Checkout finalizes the cart for email. A checked-out cart is terminal.
func (c *Cart) Checkout(email string) error {
	next, err := c.state().OnCheckout(c, email)
	if err != nil {
		return err
	}
	c.apply(next)
	return nil
}

func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Items = append([]LineItem(nil), c.Items...)
	return &clone
}

func (c *Cart) state() State {
	switch {
	case c.checkedOut:
		return checkedOutState{}
	case len(c.Items) == 0:
		return emptyState{}
	default:
		return activeState{}
	}
}

func (c *Cart) apply(next State) {
	c.checkedOut = next.Status() == StatusCheckedOut
	c.UpdatedAt = time.Now().UTC()
}

func (c *Cart) indexOf(productID string) int {
	for i, item := range c.Items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}
