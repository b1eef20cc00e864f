package cart

import domcart "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/cart"

// ReceiptRenderer turns a finalized cart into the HTML body of the receipt mail.
type ReceiptRenderer interface {
	RenderReceipt(c *domcart.Cart) (string, error)
}
