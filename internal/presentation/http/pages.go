package httppresentation

import (
	"bytes"
	"net/http"
	"time"

	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/session"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/view"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability/logctx"

	"github.com/go-chi/chi/v5"
)

const (
	colorModeCookie = "color_mode"
	colorModeMaxAge = 30 * 24 * time.Hour
)

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, view.PageHome, "", nil)
}

func (h *Handler) handleAbout(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, view.PageAbout, "About", view.AboutData{Tagline: view.Tagline()})
}

// handleColorMode remembers the chosen mode for 30 days and bounces back.
func (h *Handler) handleColorMode(w http.ResponseWriter, r *http.Request) {
	mode := chi.URLParam(r, "mode")
	if mode != "light" && mode != "dark" {
		h.renderPage(w, r, http.StatusNotFound, view.PageNotFound, "Not Found", nil)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     colorModeCookie,
		Value:    mode,
		Path:     "/",
		MaxAge:   int(colorModeMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	target := r.Referer()
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *Handler) handleMasterclass(w http.ResponseWriter, r *http.Request) {
	products, err := h.deps.Catalog.Execute(r.Context(), struct{}{})
	if err != nil {
		h.writePageError(w, r, err)
		return
	}
	h.renderPage(w, r, http.StatusOK, view.PageMasterclass, "Masterclasses", view.MasterclassData{Products: products})
}

func (h *Handler) handleNewsletter(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, view.PageNewsletter, "Newsletter", nil)
}

func (h *Handler) handleNewsletterArchive(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, view.PageNewsletterArchive, "Newsletter Archive", nil)
}

func (h *Handler) handleSetupPhotoContest(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	h.renderPage(w, r, http.StatusOK, view.PageSetupPhoto, "Photo Contest", view.SetupPhotoData{
		Year:  now.Year(),
		Month: int(now.Month()),
	})
}

// renderPage fills the layout data every page shares (flash, cart badge, deposit
// banner, color mode) and renders page. The flash is consumed here, before any byte
// is written, so the session commit sees it cleared.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	ctx := r.Context()
	sess := session.FromContext(ctx)

	p := view.Page{
		Title: title,
		Flash: sess.PopFlash(),
		Data:  data,
	}
	if c, err := r.Cookie(colorModeCookie); err == nil {
		p.ColorMode = c.Value
	}
	if cartID := sess.CartID(); cartID != "" && h.deps.Cart != nil {
		if c, err := h.deps.Cart.View(ctx, cartID); err == nil {
			p.CartSize = c.Size()
			p.CartRequiresDeposit = c.RequiresDeposit()
		} else {
			logctx.FromOr(ctx, h.log).Warn("cart_badge_unavailable", observability.F("error", err))
		}
	}

	var buf bytes.Buffer
	if err := h.deps.Views.Render(&buf, page, p); err != nil {
		logctx.FromOr(ctx, h.log).Error("render_failed",
			observability.F("page", page),
			observability.F("error", err),
		)
		h.renderServerError(w, r, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderServerError renders the 500 page without touching the session or the cart.
func (h *Handler) renderServerError(w http.ResponseWriter, r *http.Request, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.deps.Views.Render(w, view.PageServerError, view.Page{Title: "Server Error"}); err != nil {
		logctx.FromOr(r.Context(), h.log).Error("render_failed",
			observability.F("page", view.PageServerError),
			observability.F("error", err),
		)
	}
}
