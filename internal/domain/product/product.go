package product

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("product: not found")

type Product struct {
	ID              string
	SKU             string
	Name            string
	Description     string
	FeaturedImage   string
	RequiresDeposit bool
	Price           decimal.Decimal
}

// DisplayPrice renders the price with a currency symbol prefix, two decimals and
// comma thousands separators, e.g. "€1,250.00".
func (p Product) DisplayPrice(symbol string) string {
	return FormatMoney(p.Price, symbol)
}

// FormatMoney formats amount the way prices are shown on the site.
func FormatMoney(amount decimal.Decimal, symbol string) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	fixed := amount.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + symbol + b.String() + "." + frac
}
