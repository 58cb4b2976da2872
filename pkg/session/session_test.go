package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "abc", map[string]any{"email": "a@campus.edu"}, time.Minute))
	data, err := s.Load(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, "a@campus.edu", data["email"])

	data["email"] = "changed"
	again, err := s.Load(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, "a@campus.edu", again["email"])

	now = now.Add(2 * time.Minute)
	data, err = s.Load(ctx, "abc")
	require.NoError(t, err)
	require.Empty(t, data)
}

func testOptions() Options {
	return Options{CookieName: "sid", TTL: time.Hour, HTTPOnly: true, Path: "/"}
}

func TestRegenerateMovesData(t *testing.T) {
	store := NewMemoryStore()
	var firstID, secondID string

	h := Middleware(store, testOptions())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := FromCtx(r)
		firstID = sess.ID()
		sess.Set("email", "a@campus.edu")
		require.NoError(t, sess.Regenerate())
		secondID = sess.ID()
		require.NoError(t, sess.Save(w))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEqual(t, firstID, secondID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, secondID, cookies[0].Value)

	data, err := store.Load(context.Background(), secondID)
	require.NoError(t, err)
	require.Equal(t, "a@campus.edu", data["email"])
}

func TestInvalidateExpiresCookie(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "old", map[string]any{"email": "x"}, time.Hour))

	h := Middleware(store, testOptions())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := FromCtx(r)
		v, _ := sess.GetString("email")
		require.Equal(t, "x", v)
		sess.Invalidate()
		require.NoError(t, sess.Save(w))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "old"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Negative(t, cookies[0].MaxAge)

	data, err := store.Load(context.Background(), "old")
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestUnchangedSessionWritesNothing(t *testing.T) {
	h := Middleware(NewMemoryStore(), testOptions())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, FromCtx(r).Save(w))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Empty(t, rec.Result().Cookies())
}
