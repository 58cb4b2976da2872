package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hustlcampus/hustl/pkg/auth"
	"github.com/stretchr/testify/require"
)

func TestLimiterWindowAndLazySweep(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	l := NewLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	require.True(t, l.Allow("a"))
	require.True(t, l.Allow("a"))
	require.False(t, l.Allow("a"))
	require.True(t, l.Allow("b"))
	require.Equal(t, 2, l.size())

	now = now.Add(2 * time.Minute)
	require.True(t, l.Allow("c"))
	require.Equal(t, 1, l.size())
	require.True(t, l.Allow("a"))
}

func TestRateLimitRejects(t *testing.T) {
	h := RateLimit(1, time.Minute, true)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 172.16.0.1")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimitIgnoresForwardedForUntilTrusted(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	send := func(h http.Handler, fwd string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.7:5100"
		req.Header.Set("X-Forwarded-For", fwd)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	direct := RateLimit(1, time.Minute, false)(okHandler)
	require.Equal(t, http.StatusOK, send(direct, "10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, send(direct, "10.0.0.2"))

	proxied := RateLimit(1, time.Minute, true)(okHandler)
	require.Equal(t, http.StatusOK, send(proxied, "10.0.0.1"))
	require.Equal(t, http.StatusOK, send(proxied, "10.0.0.2"))
	require.Equal(t, http.StatusTooManyRequests, send(proxied, "10.0.0.2, 198.51.100.1"))
}

func TestRecoveryReturns500(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), `"view":"error"`)
	require.NotContains(t, rec.Body.String(), "boom")
}

func TestRequireCapability(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RequireCapability(auth.CapModerate, "/admin-login", "Admin access required.")(inner)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin-login", rec.Header().Get("Location"))

	admin := auth.Principal{Caps: []auth.Capability{auth.CapModerate}}
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), admin))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// a logged-in user is not an admin
	user := auth.Principal{UserID: 9}
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), user))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestAuthenticateFallsBackToAnonymous(t *testing.T) {
	var got auth.Principal
	h := Authenticate(func(*http.Request) (auth.Principal, error) {
		return auth.Principal{UserID: 1}, http.ErrNoCookie
	})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) { got = auth.FromCtx(r.Context()) }))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, auth.Anonymous, got)
}
