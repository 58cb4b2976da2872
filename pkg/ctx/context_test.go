package ctx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	appctx "github.com/hustlcampus/hustl/pkg/ctx"
	"github.com/hustlcampus/hustl/pkg/response"
	"github.com/hustlcampus/hustl/pkg/session"
	"github.com/stretchr/testify/require"
)

func TestRenderWritesInstruction(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.Render(http.StatusUnprocessableEntity, "auth", map[string]any{"mode": "login"}, "Invalid credentials.")
	})(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var v response.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.Equal(t, "auth", v.View)
	require.Equal(t, "Invalid credentials.", v.Notice)
}

func TestParamUint(t *testing.T) {
	r := chi.NewRouter()
	var got uint
	var ok bool
	r.Get("/listing/{id}", appctx.Wrap(func(c *appctx.Context) {
		got, ok = c.ParamUint("id")
		c.Render(http.StatusOK, "listing", nil)
	}))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/listing/12", nil))
	require.True(t, ok)
	require.Equal(t, uint(12), got)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/listing/abc", nil))
	require.False(t, ok)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/listing/0", nil))
	require.False(t, ok)
}

func TestRedirectFlashesNoticeOnce(t *testing.T) {
	store := session.NewMemoryStore()
	opts := session.Options{CookieName: "sid", TTL: 60e9, Path: "/"}

	mux := chi.NewRouter()
	mux.Use(session.Middleware(store, opts))
	mux.Get("/go", appctx.Wrap(func(c *appctx.Context) { c.Redirect("/land", "Listing marked as sold.") }))
	mux.Get("/land", appctx.Wrap(func(c *appctx.Context) { c.Render(http.StatusOK, "market", nil) }))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/go", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/land", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	land := func() response.View {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/land", nil)
		req.AddCookie(cookies[0])
		mux.ServeHTTP(rec, req)
		var v response.View
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
		return v
	}

	first := land()
	require.Equal(t, "Listing marked as sold.", first.Flash["notice"])
	require.Empty(t, land().Flash)
}
