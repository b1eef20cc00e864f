package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{amount: "0", want: "€0.00"},
		{amount: "9.5", want: "€9.50"},
		{amount: "999.999", want: "€1,000.00"},
		{amount: "1234567.1", want: "€1,234,567.10"},
		{amount: "-12.3", want: "-€12.30"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.amount), "€"))
		})
	}
}

func TestDisplayPrice(t *testing.T) {
	p := Product{Price: decimal.RequireFromString("450")}
	assert.Equal(t, "$450.00", p.DisplayPrice("$"))
}
