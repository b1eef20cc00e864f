package httppresentation

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application"
	appcart "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application/cart"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/session"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/view"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability/logctx"
)

const cartPath = "/cart"

func (h *Handler) handleCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.deps.Cart.View(r.Context(), session.FromContext(r.Context()).CartID())
	if err != nil {
		h.writePageError(w, r, err)
		return
	}
	h.renderPage(w, r, http.StatusOK, view.PageCart, "Cart", view.CartData{Cart: c})
}

func (h *Handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	cartID, err := h.deps.Cart.AddToCart(r.Context(), sess.CartID(), r.PostFormValue("productId"))
	if err != nil {
		h.writeCartError(w, r, err)
		return
	}
	sess.SetCartID(cartID)
	http.Redirect(w, r, cartPath, http.StatusSeeOther)
}

func (h *Handler) handleChangeCartItemQty(w http.ResponseWriter, r *http.Request) {
	qty, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("qty")))
	if err != nil {
		h.writeCartError(w, r, application.Validation("Quantity must be a whole number."))
		return
	}
	cartID := session.FromContext(r.Context()).CartID()
	if err := h.deps.Cart.ChangeQuantity(r.Context(), cartID, r.PostFormValue("productId"), qty); err != nil {
		h.writeCartError(w, r, err)
		return
	}
	http.Redirect(w, r, cartPath, http.StatusSeeOther)
}

func (h *Handler) handleDeleteFromCart(w http.ResponseWriter, r *http.Request) {
	cartID := session.FromContext(r.Context()).CartID()
	if err := h.deps.Cart.DeleteItem(r.Context(), cartID, r.PostFormValue("productId")); err != nil {
		h.writeCartError(w, r, err)
		return
	}
	http.Redirect(w, r, cartPath, http.StatusSeeOther)
}

// handleCheckout finalizes the cart and renders the thank-you page. A failed receipt
// mail does not undo the checkout; the page tells the buyer no confirmation was sent.
func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	email := strings.TrimSpace(r.PostFormValue("email"))

	result, err := h.deps.Cart.Checkout(r.Context(), appcart.CheckoutInput{
		CartID: sess.CartID(),
		Email:  email,
	})
	if result == nil {
		h.writeCartError(w, r, err)
		return
	}
	if err != nil {
		logctx.FromOr(r.Context(), h.log).Warn("checkout_receipt_failed", observability.F("error", err))
	}
	if result.ClearSession {
		sess.Reset()
	}

	h.renderPage(w, r, http.StatusOK, view.PageCartThankYou, "Thank You", view.ThankYouData{
		Email:       email,
		Total:       result.Cart.Total(),
		ReceiptSent: result.ReceiptSent,
	})
}

// writeCartError sends validation and not-found failures back to the cart page as a
// flash; anything else renders the error page.
func (h *Handler) writeCartError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, application.ErrValidation) || errors.Is(err, application.ErrNotFound) {
		session.FromContext(r.Context()).SetFlash(session.Flash{
			Type:    "danger",
			Intro:   "Sorry!",
			Message: errorMessage(err),
		})
		http.Redirect(w, r, cartPath, http.StatusSeeOther)
		return
	}
	h.writePageError(w, r, err)
}
