// Package session provides cookie-identified, server-side sessions. The cookie
// carries only a signed id; cart id and flash live in the Store.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability/logctx"

	"github.com/google/uuid"
)

const CookieName = "ninjacoders.sid"

// Session is the request-scoped view of a stored session. It is safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	id       string
	data     Data
	modified bool
	reset    bool
}

func (s *Session) CartID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.CartID
}

func (s *Session) SetCartID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.CartID == id {
		return
	}
	s.data.CartID = id
	s.modified = true
}

// SetFlash stores f for the next rendered page, replacing any pending flash.
func (s *Session) SetFlash(f Flash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Flash = &f
	s.modified = true
}

// PopFlash returns the pending flash and clears it.
func (s *Session) PopFlash() *Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.data.Flash
	if f != nil {
		s.data.Flash = nil
		s.modified = true
	}
	return f
}

// Reset drops all session data and rotates the id on commit.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = Data{}
	s.modified = true
	s.reset = true
}

type sessionKey struct{}

// FromContext returns the session attached by Manager.Middleware. It never returns nil:
// without middleware an unattached throwaway session is returned.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionKey{}).(*Session); ok && s != nil {
		return s
	}
	return &Session{}
}

// WithSession attaches s to ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// Manager signs session cookies and loads/commits sessions around each request.
type Manager struct {
	store  Store
	secret []byte
	secure bool
	maxAge time.Duration
	log    observability.Logger
}

type Option func(*Manager)

// WithSecureCookie marks the cookie Secure (HTTPS only).
func WithSecureCookie(secure bool) Option { return func(m *Manager) { m.secure = secure } }

// WithMaxAge sets the cookie lifetime. Zero keeps a browser-session cookie.
func WithMaxAge(d time.Duration) Option { return func(m *Manager) { m.maxAge = d } }

func WithLogger(l observability.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

func NewManager(store Store, secret string, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, errors.New("session: store is required")
	}
	if secret == "" {
		return nil, errors.New("session: cookie secret is required")
	}
	m := &Manager{
		store:  store,
		secret: []byte(secret),
		log:    observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With(observability.F("component", "session"))
	return m, nil
}

// Middleware loads the session for the request and commits it before the response
// headers are written. A cookie is only issued once the session has been modified.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := m.load(r)
		sw := &committingWriter{ResponseWriter: w, commit: func() { m.commit(r, w, s) }}
		next.ServeHTTP(sw, r.WithContext(WithSession(r.Context(), s)))
		sw.flush()
	})
}

func (m *Manager) load(r *http.Request) *Session {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return &Session{}
	}
	id, ok := m.verify(c.Value)
	if !ok {
		return &Session{}
	}
	data, found, err := m.store.Load(r.Context(), id)
	if err != nil {
		logctx.FromOr(r.Context(), m.log).Warn("session_load_failed", observability.F("error", err))
		return &Session{}
	}
	if !found {
		return &Session{}
	}
	return &Session{id: id, data: data}
}

func (m *Manager) commit(r *http.Request, w http.ResponseWriter, s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.modified {
		return
	}
	ctx := r.Context()
	logger := logctx.FromOr(ctx, m.log)

	if s.reset && s.id != "" {
		if err := m.store.Delete(ctx, s.id); err != nil {
			logger.Warn("session_delete_failed", observability.F("error", err))
		}
		s.id = ""
	}
	if s.id == "" {
		if s.data.empty() {
			s.modified = false
			return
		}
		s.id = uuid.NewString()
	}
	if err := m.store.Save(ctx, s.id, s.data); err != nil {
		logger.Warn("session_save_failed", observability.F("error", err))
		return
	}
	s.modified = false
	s.reset = false

	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    m.sign(s.id),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if m.maxAge > 0 {
		cookie.MaxAge = int(m.maxAge.Seconds())
	}
	http.SetCookie(w, cookie)
}

func (m *Manager) sign(id string) string {
	return id + "." + m.mac(id)
}

func (m *Manager) verify(value string) (string, bool) {
	id, sig, ok := strings.Cut(value, ".")
	if !ok || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(m.mac(id))) {
		return "", false
	}
	return id, true
}

func (m *Manager) mac(id string) string {
	h := hmac.New(sha256.New, m.secret)
	h.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// committingWriter commits the session right before the first header write.
type committingWriter struct {
	http.ResponseWriter
	commit    func()
	committed bool
}

func (w *committingWriter) flush() {
	if !w.committed {
		w.committed = true
		w.commit()
	}
}

func (w *committingWriter) WriteHeader(code int) {
	w.flush()
	w.ResponseWriter.WriteHeader(code)
}

func (w *committingWriter) Write(b []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(b)
}

func (w *committingWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
