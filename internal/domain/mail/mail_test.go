package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidAddress(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"ninja@example.com", true},
		{"first.last@sub.example.co.uk", true},
		{"user@[192.168.0.1]", true},
		{`"quoted name"@example.com`, true},
		{"not-an-email", false},
		{"", false},
		{"user@localhost", false},
		{"user@example.c", false},
		{"two@@example.com", false},
		{"dot.@example.com", false},
		{" padded@example.com", false},
		{"a b@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidAddress(tt.addr))
		})
	}
}
