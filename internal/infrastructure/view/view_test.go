package view

import (
	"bytes"
	"testing"

	domcart "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/cart"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/memory"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	return r
}

func TestEveryPageRenders(t *testing.T) {
	r := newRenderer(t)
	c := domcart.New("c1")
	require.NoError(t, c.Add(memory.DefaultProducts()[0]))

	pages := map[string]any{
		PageHome:              nil,
		PageAbout:             AboutData{Tagline: "hello"},
		PageMasterclass:       MasterclassData{Products: memory.DefaultProducts()},
		PageCart:              CartData{Cart: c},
		PageCartThankYou:      ThankYouData{Email: "a@b.co", Total: c.Total(), ReceiptSent: true},
		PageNewsletter:        nil,
		PageNewsletterArchive: nil,
		PageSetupPhoto:        SetupPhotoData{Year: 2024, Month: 3},
		PageNotFound:          nil,
		PageServerError:       nil,
	}
	for page, data := range pages {
		t.Run(page, func(t *testing.T) {
			require.True(t, r.Has(page))
			var buf bytes.Buffer
			require.NoError(t, r.Render(&buf, page, Page{Data: data}))
			assert.Contains(t, buf.String(), "<html")
		})
	}
}

func TestLayoutShowsFlashAndDepositBanner(t *testing.T) {
	r := newRenderer(t)
	var buf bytes.Buffer
	err := r.Render(&buf, PageHome, Page{
		Flash:               &session.Flash{Type: "success", Intro: "Thank you!", Message: "Signed up."},
		CartSize:            2,
		CartRequiresDeposit: true,
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "alert-success")
	assert.Contains(t, out, "Thank you!")
	assert.Contains(t, out, "require a deposit")
	assert.Contains(t, out, `<span class="badge">2</span>`)
}

func TestMasterclassShowsEuroPrices(t *testing.T) {
	r := newRenderer(t)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, PageMasterclass, Page{Data: MasterclassData{Products: memory.DefaultProducts()}}))
	assert.Contains(t, buf.String(), "€1,250.00")
}

func TestSetupPhotoFormTargetsPartition(t *testing.T) {
	r := newRenderer(t)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, PageSetupPhoto, Page{Data: SetupPhotoData{Year: 2024, Month: 3}}))
	assert.Contains(t, buf.String(), "/api/setup-photo-contest/2024/3")
}

func TestUnknownPage(t *testing.T) {
	r := newRenderer(t)
	assert.False(t, r.Has("nope"))
	assert.Error(t, r.Render(&bytes.Buffer{}, "nope", Page{}))
}

func TestRenderReceipt(t *testing.T) {
	r := newRenderer(t)
	c := domcart.New("c1")
	p := memory.DefaultProducts()[1]
	require.NoError(t, c.Add(p))
	require.NoError(t, c.Add(p))

	html, err := r.RenderReceipt(c)
	require.NoError(t, err)
	assert.Contains(t, html, p.Name)
	assert.Contains(t, html, "€2,500.00")

	html, err = r.RenderReceipt(nil)
	require.NoError(t, err)
	assert.Contains(t, html, "Your cart was empty.")
	assert.Contains(t, html, "€0.00")
}

func TestTaglineComesFromList(t *testing.T) {
	assert.Contains(t, taglines, Tagline())
}
