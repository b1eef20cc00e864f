package httppresentation

import (
	"context"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	appcart "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application/cart"
	appcatalog "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application/catalog"
	appcontest "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application/contest"
	appnewsletter "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application/newsletter"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/session"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/view"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability/logctx"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

const (
	componentHTTPHandler = "http_server"
	headerRequestID      = "X-Request-ID"

	defaultMaxUploadBytes = 20 << 20
)

// TempFiles stages incoming uploads before the contest use case moves them.
type TempFiles interface {
	CreateTemp() (*os.File, error)
}

// Dependencies is everything the router needs. Metrics and Ready are optional.
type Dependencies struct {
	Cart       *appcart.Workflow
	Catalog    *appcatalog.ListProductsUseCase
	Newsletter *appnewsletter.SignupUseCase
	Contest    *appcontest.StorePhotoUseCase
	Uploads    TempFiles
	Sessions   *session.Manager
	Views      *view.Renderer

	PublicDir      string
	AllowedOrigins []string
	MaxUploadBytes int64
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Ready backs /health; nil means always healthy.
	Ready func(ctx context.Context) error
}

type Handler struct {
	deps    Dependencies
	service string
	log     observability.Logger
	tel     observability.Observability

	httpRequests observability.Counter   // http_requests_total{method,route,status}
	httpDuration observability.Histogram // http_request_duration_seconds{method,route,status}
	static       http.Handler
}

func NewHandler(deps Dependencies, service string, tel observability.Observability) *Handler {
	if tel == nil {
		tel = observability.Nop()
	}
	if service == "" {
		service = "ninjacoders"
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = defaultMaxUploadBytes
	}
	h := &Handler{
		deps:         deps,
		service:      service,
		log:          tel.Logger().With(observability.F("component", componentHTTPHandler)),
		tel:          tel,
		httpRequests: tel.Metrics().Counter(observability.MHTTPRequests),
		httpDuration: tel.Metrics().Histogram(observability.MHTTPRequestDuration),
	}
	if deps.PublicDir != "" {
		h.static = http.FileServer(http.Dir(deps.PublicDir))
	}
	return h
}

// Router wires each route with middlewares:
// Trace → ObservabilityMiddleware (request logger) → Recover → Access log → HTTP metrics → Session → Handler
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(
		h.withTrace,
		ObservabilityMiddleware(h.log, func(r *http.Request) string {
			return r.Header.Get(headerRequestID)
		}, h.tel),
		h.withRecover,
		h.withAccessLog,
		h.withHTTPMetrics,
	)

	r.Get("/health", h.handleHealth)
	if h.deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.deps.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(h.deps.Sessions.Middleware)

		r.Get("/", h.handleHome)
		r.Get("/about", h.handleAbout)
		r.Get("/colormode/{mode}", h.handleColorMode)
		r.Get("/masterclass", h.handleMasterclass)
		r.Get("/cart", h.handleCart)
		r.Post("/add-to-cart", h.handleAddToCart)
		r.Post("/change-cart-item-qty", h.handleChangeCartItemQty)
		r.Post("/delete-from-cart", h.handleDeleteFromCart)
		r.Post("/checkout", h.handleCheckout)

		r.Get("/newsletter", h.handleNewsletter)
		r.Get("/newsletter/archive", h.handleNewsletterArchive)
		r.Get("/contest/setup-photo", h.handleSetupPhotoContest)

		r.Route("/api", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: h.allowedOrigins(),
				AllowedMethods: []string{http.MethodPost, http.MethodOptions},
				AllowedHeaders: []string{"Accept", "Content-Type", headerRequestID},
				ExposedHeaders: []string{headerRequestID},
				MaxAge:         300,
			}))
			r.Post("/newsletter-signup", h.handleNewsletterSignup)
			r.Post("/setup-photo-contest/{year}/{month}", h.handleSetupPhotoContestUpload)
		})

		r.NotFound(h.handleStaticOrNotFound)
	})

	return r
}

func (h *Handler) allowedOrigins() []string {
	if len(h.deps.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return h.deps.AllowedOrigins
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.deps.Ready != nil {
		if err := h.deps.Ready(r.Context()); err != nil {
			logctx.FromOr(r.Context(), h.log).Warn("health_check_failed", observability.F("error", err))
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleStaticOrNotFound serves files from the public directory and renders the
// 404 page for everything else.
func (h *Handler) handleStaticOrNotFound(w http.ResponseWriter, r *http.Request) {
	if h.static != nil && (r.Method == http.MethodGet || r.Method == http.MethodHead) && h.isPublicFile(r.URL.Path) {
		h.static.ServeHTTP(w, r)
		return
	}
	h.renderPage(w, r, http.StatusNotFound, view.PageNotFound, "Not Found", nil)
}

func (h *Handler) isPublicFile(urlPath string) bool {
	clean := path.Clean("/" + urlPath)
	if clean == "/" || strings.Contains(clean, "/.") {
		return false
	}
	info, err := os.Stat(filepath.Join(h.deps.PublicDir, filepath.FromSlash(clean)))
	return err == nil && !info.IsDir()
}
