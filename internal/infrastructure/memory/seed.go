package memory

import (
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/product"
	"github.com/shopspring/decimal"
)

// DefaultProducts is the masterclass catalog the site ships with.
func DefaultProducts() []product.Product {
	return []product.Product{
		{
			ID:              "b3f1c6a2-0d1e-4a57-9c1e-1f2a3b4c5d01",
			SKU:             "NC-MC-NODE",
			Name:            "Node.js Backend Masterclass",
			Description:     "Five evenings of Express, sessions, templating and deployment.",
			FeaturedImage:   "/img/masterclass/node.jpg",
			RequiresDeposit: false,
			Price:           decimal.RequireFromString("249.00"),
		},
		{
			ID:              "b3f1c6a2-0d1e-4a57-9c1e-1f2a3b4c5d02",
			SKU:             "NC-MC-GO",
			Name:            "Go Services Bootcamp",
			Description:     "Build, test and ship an HTTP service in Go over a long weekend.",
			FeaturedImage:   "/img/masterclass/go.jpg",
			RequiresDeposit: true,
			Price:           decimal.RequireFromString("1250.00"),
		},
		{
			ID:              "b3f1c6a2-0d1e-4a57-9c1e-1f2a3b4c5d03",
			SKU:             "NC-MC-CSS",
			Name:            "Modern CSS Layouts",
			Description:     "Grid, flexbox and container queries in one hands-on day.",
			FeaturedImage:   "/img/masterclass/css.jpg",
			RequiresDeposit: false,
			Price:           decimal.RequireFromString("99.50"),
		},
		{
			ID:              "b3f1c6a2-0d1e-4a57-9c1e-1f2a3b4c5d04",
			SKU:             "NC-MC-SEC",
			Name:            "Web Security Essentials",
			Description:     "Sessions, CSRF, XSS and secrets management for web developers.",
			FeaturedImage:   "/img/masterclass/security.jpg",
			RequiresDeposit: true,
			Price:           decimal.RequireFromString("480.00"),
		},
	}
}
