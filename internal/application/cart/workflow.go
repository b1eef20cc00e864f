package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application"
	domcart "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/cart"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/mail"
	domoutbox "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/outbox"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/product"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const (
	cartService = "cart-service"

	useCaseView     = "cart.view"
	useCaseAdd      = "cart.add"
	useCaseChange   = "cart.change_quantity"
	useCaseDelete   = "cart.delete_item"
	useCaseCheckout = "cart.checkout"

	ReceiptSubject = "NinjaCoders - Thank You For Your Purchase"
	currencySymbol = "€"
	mailPeer       = "mailer"
)

// Workflow orchestrates the session cart against the data store and the mailer.
// The session cart id is always passed in explicitly; operations that can change it
// return the id the caller must keep in the session.
type Workflow struct {
	carts     domcart.Repository
	products  product.Repository
	mailer    mail.Sender
	receipts  ReceiptRenderer
	publisher domoutbox.Publisher
	inst      application.Instruments
}

func NewWorkflow(
	carts domcart.Repository,
	products product.Repository,
	mailer mail.Sender,
	receipts ReceiptRenderer,
	publisher domoutbox.Publisher,
	tel observability.Observability,
) *Workflow {
	return &Workflow{
		carts:     carts,
		products:  products,
		mailer:    mailer,
		receipts:  receipts,
		publisher: publisher,
		inst:      application.NewInstruments(tel, cartService),
	}
}

// View resolves the session cart. An absent or finished cart comes back empty.
func (w *Workflow) View(ctx context.Context, cartID string) (_ *domcart.Cart, err error) {
	ctx, run := w.inst.Begin(ctx, useCaseView, "ViewCart", attribute.String("cart.id", cartID))
	defer func() { run.End(err) }()

	c, err := w.resolve(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		run.SetStatus("EMPTY")
		return domcart.New(""), nil
	}
	run.AddField("items", c.Size())
	return c, nil
}

// AddToCart adds productID to the session cart, creating the cart on first use.
// It returns the cart id to bind to the session.
func (w *Workflow) AddToCart(ctx context.Context, cartID, productID string) (_ string, err error) {
	ctx, run := w.inst.Begin(ctx, useCaseAdd, "AddToCart",
		attribute.String("cart.id", cartID),
		attribute.String("product.id", productID),
	)
	defer func() { run.End(err) }()

	if strings.TrimSpace(productID) == "" {
		return cartID, application.Validation("Product is required.")
	}
	p, err := w.products.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return cartID, application.NotFound("Product not found.", err)
		}
		return cartID, storeError(err)
	}

	current, err := w.resolve(ctx, cartID)
	if err != nil {
		return cartID, err
	}
	if current == nil {
		if current, err = w.create(ctx); err != nil {
			return cartID, err
		}
		run.SetStatus("CART_CREATED")
	}

	updated, err := w.carts.AddItem(ctx, current.ID, *p)
	if errors.Is(err, domcart.ErrNotFound) || errors.Is(err, domcart.ErrCheckedOut) {
		// The cart finished or vanished between resolve and add; start over once.
		if current, err = w.create(ctx); err != nil {
			return cartID, err
		}
		updated, err = w.carts.AddItem(ctx, current.ID, *p)
	}
	if err != nil {
		return cartID, storeError(err)
	}

	run.Span().SetAttributes(attribute.String("cart.id", updated.ID))
	run.AddField("cart_id", updated.ID)
	return updated.ID, nil
}

// ChangeQuantity overwrites the quantity of a line item; qty <= 0 removes it.
func (w *Workflow) ChangeQuantity(ctx context.Context, cartID, productID string, qty int) (err error) {
	ctx, run := w.inst.Begin(ctx, useCaseChange, "ChangeQuantity",
		attribute.String("cart.id", cartID),
		attribute.String("product.id", productID),
		attribute.Int("cart.quantity", qty),
	)
	defer func() { run.End(err) }()

	current, err := w.resolve(ctx, cartID)
	if err != nil {
		return err
	}
	if current == nil {
		return application.NotFound("Cart not found.", domcart.ErrNotFound)
	}

	_, err = w.carts.SetQuantity(ctx, current.ID, productID, qty)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domcart.ErrItemNotFound):
		return application.NotFound("Item is not in the cart.", err)
	case errors.Is(err, domcart.ErrNotFound), errors.Is(err, domcart.ErrCheckedOut):
		return application.NotFound("Cart not found.", err)
	default:
		return storeError(err)
	}
}

// DeleteItem removes a line item. Missing carts and items are not errors.
func (w *Workflow) DeleteItem(ctx context.Context, cartID, productID string) (err error) {
	ctx, run := w.inst.Begin(ctx, useCaseDelete, "DeleteItem",
		attribute.String("cart.id", cartID),
		attribute.String("product.id", productID),
	)
	defer func() { run.End(err) }()

	current, err := w.resolve(ctx, cartID)
	if err != nil {
		return err
	}
	if current == nil {
		run.SetStatus("NOOP")
		return nil
	}

	_, err = w.carts.RemoveItem(ctx, current.ID, productID)
	if errors.Is(err, domcart.ErrNotFound) || errors.Is(err, domcart.ErrCheckedOut) {
		run.SetStatus("NOOP")
		return nil
	}
	if err != nil {
		return storeError(err)
	}
	return nil
}

type CheckoutInput struct {
	CartID string
	Email  string
}

type CheckoutResult struct {
	// Cart is the finalized snapshot the receipt was built from.
	Cart        *domcart.Cart
	ReceiptSent bool
	// ClearSession tells the caller to drop the cart id from the session.
	ClearSession bool
}

// Checkout finalizes the cart, mails the receipt and asks the caller to reset the
// session cart. The order is fixed: finalize, then mail, then clear.
//
// When the receipt cannot be sent the checkout still stands: the result carries the
// snapshot with ReceiptSent=false and ClearSession=true, and the error is a
// dependency error the caller should surface to the user.
func (w *Workflow) Checkout(ctx context.Context, in CheckoutInput) (_ *CheckoutResult, err error) {
	ctx, run := w.inst.Begin(ctx, useCaseCheckout, "Checkout", attribute.String("cart.id", in.CartID))
	defer func() { run.End(err) }()

	email := strings.TrimSpace(in.Email)
	if !mail.ValidAddress(email) {
		return nil, application.Validation("Email is invalid!")
	}

	snapshot, err := w.finalize(ctx, in.CartID, email)
	if err != nil {
		return nil, err
	}
	run.AddField("items", snapshot.Size())
	run.AddField("total", snapshot.Total().StringFixed(2))
	if snapshot.ID != "" {
		run.Publish(ctx, w.publisher, domcart.NewCheckedOutEvent(snapshot))
	}

	result := &CheckoutResult{Cart: snapshot, ClearSession: true}

	msg := mail.Message{
		To:      email,
		Subject: ReceiptSubject,
		Text:    ReceiptText(snapshot),
	}
	if w.receipts != nil {
		html, renderErr := w.receipts.RenderReceipt(snapshot)
		if renderErr != nil {
			run.Logger().Warn("receipt_render_failed", observability.F("error", renderErr.Error()))
		} else {
			msg.HTML = html
		}
	}

	start := time.Now()
	sendErr := w.mailer.Send(ctx, msg)
	w.inst.External(mailPeer, "receipt", start, sendErr)
	if sendErr != nil {
		run.SetStatus("RECEIPT_SEND_FAILED")
		return result, application.Dependency("Unable to send confirmation email.", sendErr)
	}

	result.ReceiptSent = true
	return result, nil
}

func (w *Workflow) finalize(ctx context.Context, cartID, email string) (*domcart.Cart, error) {
	current, err := w.resolve(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		snapshot, err := w.carts.Checkout(ctx, current.ID, email)
		switch {
		case err == nil:
			return snapshot, nil
		case errors.Is(err, domcart.ErrNotFound), errors.Is(err, domcart.ErrCheckedOut):
			// Lost a race with another checkout; treat the cart as absent.
		default:
			return nil, storeError(err)
		}
	}

	empty := domcart.New("")
	if err := empty.Checkout(email); err != nil {
		return nil, err
	}
	return empty, nil
}

// resolve maps a session cart id to a live cart; nil means "no cart".
func (w *Workflow) resolve(ctx context.Context, cartID string) (*domcart.Cart, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, nil
	}
	c, err := w.carts.Get(ctx, cartID)
	if errors.Is(err, domcart.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(err)
	}
	if c.CheckedOut() {
		return nil, nil
	}
	return c, nil
}

func (w *Workflow) create(ctx context.Context) (*domcart.Cart, error) {
	c, err := w.carts.Create(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return c, nil
}

func storeError(err error) error {
	return application.Dependency("The shop is temporarily unavailable.", fmt.Errorf("cart store: %w", err))
}
