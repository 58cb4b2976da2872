package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestGroupsAndNamedRoutes(t *testing.T) {
	r := New()
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	admin := r.Group("/admin/", tag("group"))
	admin.Get("/verify/{uid}", "admin.verify", ok, tag("route"))
	r.Get("market", "market", ok)
	r.Post("market", "", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/verify/4", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"group", "route"}, order)

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/market", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	url, err := r.URL("admin.verify", map[string]string{"uid": "4"})
	require.NoError(t, err)
	require.Equal(t, "/admin/verify/4", url)

	_, err = r.URL("admin.verify", nil)
	require.Error(t, err)
	_, err = r.URL("missing", nil)
	require.Error(t, err)

	routes := r.Routes()
	require.Equal(t, []Route{
		{Method: http.MethodGet, Path: "/admin/verify/{uid}", Name: "admin.verify"},
		{Method: http.MethodGet, Path: "/market", Name: "market"},
		{Method: http.MethodPost, Path: "/market"},
	}, routes)
}
