package cart

import (
	"fmt"
	"strings"

	domcart "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/cart"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/product"
)

// ReceiptText is the plain-text alternative of the receipt mail.
func ReceiptText(c *domcart.Cart) string {
	var b strings.Builder
	b.WriteString("Thank you for your purchase!\n\n")
	if len(c.Items) == 0 {
		b.WriteString("Your cart was empty.\n")
	}
	for _, item := range c.Items {
		fmt.Fprintf(&b, "%d x %s  %s\n",
			item.Quantity,
			item.Product.Name,
			product.FormatMoney(item.Subtotal(), currencySymbol),
		)
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", product.FormatMoney(c.Total(), currencySymbol))
	return b.String()
}
