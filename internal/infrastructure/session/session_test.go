package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore(time.Hour)
	m, err := NewManager(store, "test-secret")
	require.NoError(t, err)
	return m, store
}

func serve(m *Manager, h http.HandlerFunc, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	m.Middleware(h).ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	return nil
}

func TestNoCookieUntilModified(t *testing.T) {
	m, store := newTestManager(t)

	rec := serve(m, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, FromContext(r.Context()).CartID())
		w.WriteHeader(http.StatusOK)
	})
	assert.Nil(t, sessionCookie(rec))
	assert.Zero(t, store.Len())
}

func TestCartIDSurvivesAcrossRequests(t *testing.T) {
	m, _ := newTestManager(t)

	rec := serve(m, func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).SetCartID("cart-1")
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	})
	c := sessionCookie(rec)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "/", c.Path)

	rec = serve(m, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cart-1", FromContext(r.Context()).CartID())
		_, _ = w.Write([]byte("ok"))
	}, c)
	assert.Nil(t, sessionCookie(rec), "unchanged session must not reissue the cookie")
}

func TestTamperedCookieStartsFreshSession(t *testing.T) {
	m, _ := newTestManager(t)

	rec := serve(m, func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).SetCartID("cart-1")
	})
	c := sessionCookie(rec)
	require.NotNil(t, c)

	id, _, _ := strings.Cut(c.Value, ".")
	forged := &http.Cookie{Name: CookieName, Value: id + ".forged"}
	serve(m, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, FromContext(r.Context()).CartID())
	}, forged)

	other, err := NewManager(NewMemoryStore(0), "other-secret")
	require.NoError(t, err)
	serve(other, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, FromContext(r.Context()).CartID())
	}, c)
}

func TestFlashIsConsumedOnce(t *testing.T) {
	m, _ := newTestManager(t)

	rec := serve(m, func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).SetFlash(Flash{Type: "success", Intro: "Thank you!", Message: "Signed up."})
	})
	c := sessionCookie(rec)
	require.NotNil(t, c)

	serve(m, func(w http.ResponseWriter, r *http.Request) {
		f := FromContext(r.Context()).PopFlash()
		require.NotNil(t, f)
		assert.Equal(t, "success", f.Type)
	}, c)
	serve(m, func(w http.ResponseWriter, r *http.Request) {
		assert.Nil(t, FromContext(r.Context()).PopFlash())
	}, c)
}

func TestResetRotatesSession(t *testing.T) {
	m, store := newTestManager(t)

	rec := serve(m, func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).SetCartID("cart-1")
	})
	first := sessionCookie(rec)
	require.NotNil(t, first)

	rec = serve(m, func(w http.ResponseWriter, r *http.Request) {
		s := FromContext(r.Context())
		s.Reset()
		s.SetFlash(Flash{Type: "success", Message: "done"})
	}, first)
	second := sessionCookie(rec)
	require.NotNil(t, second)
	assert.NotEqual(t, first.Value, second.Value)
	assert.Equal(t, 1, store.Len())

	serve(m, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, FromContext(r.Context()).CartID())
	}, first)
}

func TestMemoryStoreExpiresIdleSessions(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a", Data{CartID: "c"}))
	require.NoError(t, store.Save(ctx, "b", Data{CartID: "d"}))

	now = now.Add(2 * time.Minute)
	_, ok, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, store.Sweep())
	assert.Zero(t, store.Len())
}

func TestNewManagerValidates(t *testing.T) {
	_, err := NewManager(nil, "s")
	assert.Error(t, err)
	_, err = NewManager(NewMemoryStore(0), "")
	assert.Error(t, err)
}

func TestFromContextWithoutMiddleware(t *testing.T) {
	s := FromContext(context.Background())
	require.NotNil(t, s)
	s.SetCartID("x")
	assert.Equal(t, "x", s.CartID())
}
