// Package view renders the site's HTML pages and the receipt mail from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	domcart "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/cart"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/product"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/session"
	"github.com/shopspring/decimal"
)

//go:embed templates
var templateFS embed.FS

// CurrencySymbol prefixes every rendered amount.
const CurrencySymbol = "€"

const (
	PageHome              = "home"
	PageAbout             = "about"
	PageMasterclass       = "masterclass"
	PageCart              = "cart"
	PageCartThankYou      = "cart-thank-you"
	PageNewsletter        = "newsletter"
	PageNewsletterArchive = "newsletter-archive"
	PageSetupPhoto        = "contest/setup-photo"
	PageNotFound          = "404"
	PageServerError       = "500"
)

// Page is the data every layout render receives. Data carries the page-specific model.
type Page struct {
	Title               string
	Flash               *session.Flash
	CartSize            int
	CartRequiresDeposit bool
	ColorMode           string
	Year                int
	Data                any
}

type AboutData struct{ Tagline string }

type MasterclassData struct{ Products []product.Product }

type CartData struct{ Cart *domcart.Cart }

type ThankYouData struct {
	Email       string
	Total       decimal.Decimal
	ReceiptSent bool
}

type SetupPhotoData struct{ Year, Month int }

// Renderer holds one parsed template set per page plus the receipt mail.
type Renderer struct {
	pages   map[string]*template.Template
	receipt *template.Template
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return product.FormatMoney(d, CurrencySymbol) },
}

func New() (*Renderer, error) {
	layout, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layouts/*.html")
	if err != nil {
		return nil, fmt.Errorf("view: parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	err = fs.WalkDir(templateFS, "templates/pages", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, "templates/pages/"), path.Ext(p))
		t, err := template.Must(layout.Clone()).ParseFS(templateFS, p)
		if err != nil {
			return fmt.Errorf("view: parse page %s: %w", name, err)
		}
		r.pages[name] = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.receipt, err = template.New("cart-thank-you.html").Funcs(funcs).ParseFS(templateFS, "templates/email/cart-thank-you.html")
	if err != nil {
		return nil, fmt.Errorf("view: parse receipt: %w", err)
	}
	return r, nil
}

// Has reports whether page exists.
func (r *Renderer) Has(page string) bool {
	_, ok := r.pages[page]
	return ok
}

// Render executes page into w. Output is buffered so a failing template writes nothing.
func (r *Renderer) Render(w io.Writer, page string, data Page) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("view: unknown page %q", page)
	}
	if data.Year == 0 {
		data.Year = time.Now().Year()
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("view: render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// RenderReceipt renders the HTML body of the purchase confirmation mail.
func (r *Renderer) RenderReceipt(c *domcart.Cart) (string, error) {
	if c == nil {
		c = domcart.New("")
	}
	var buf bytes.Buffer
	if err := r.receipt.Execute(&buf, c); err != nil {
		return "", fmt.Errorf("view: render receipt: %w", err)
	}
	return buf.String(), nil
}
