// Package session provides cookie-identified server-side sessions.
//
// Usage (middleware):
//
//	r.Use(session.Middleware(store, session.DefaultOptions()))
//
// Usage (handler):
//
//	sess := session.FromCtx(r)
//	sess.Set("email", u.Email)
//	if err := sess.Save(w); err != nil { ... }
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/hustlcampus/hustl/config"
	"github.com/hustlcampus/hustl/pkg/logger"
)

// Options configures the session cookie.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions reads TTL and the Secure flag from config.
func DefaultOptions() Options {
	return Options{
		CookieName: "hustl_session",
		TTL:        config.SessionTTL(),
		HTTPOnly:   true,
		Secure:     config.SessionCookieSecure(),
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

type ctxKey struct{}

// Session is the per-request handle. It is not safe for concurrent use.
type Session struct {
	ctx     context.Context
	store   Store
	id      string
	oldID   string
	data    map[string]any
	opts    Options
	changed bool
	// destroyed sessions write an expired cookie
	destroyed bool
}

func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *Session) Set(key string, value any) {
	s.data[key] = value
	s.changed = true
}

func (s *Session) Get(key string) (any, bool) {
	v, ok := s.data[key]
	return v, ok
}

// GetString returns the string stored under key, or "" and false.
func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.data[key].(string)
	return v, ok
}

func (s *Session) Delete(key string) {
	if _, ok := s.data[key]; ok {
		delete(s.data, key)
		s.changed = true
	}
}

const flashPrefix = "_flash_"

// Flash stores a value that is removed by the first GetFlash.
func (s *Session) Flash(key string, value any) {
	s.Set(flashPrefix+key, value)
}

func (s *Session) GetFlash(key string) (any, bool) {
	v, ok := s.Get(flashPrefix + key)
	if ok {
		s.Delete(flashPrefix + key)
	}
	return v, ok
}

// Regenerate moves the data to a fresh id. Call it on privilege changes
// such as login.
func (s *Session) Regenerate() error {
	id, err := newID()
	if err != nil {
		return fmt.Errorf("session: new id: %w", err)
	}
	if s.oldID == "" {
		s.oldID = s.id
	}
	s.id = id
	s.changed = true
	return nil
}

// Invalidate clears all data and drops the stored session on Save.
func (s *Session) Invalidate() {
	s.data = map[string]any{}
	s.changed = true
	s.destroyed = true
}

func (s *Session) ID() string { return s.id }

// Save persists changed data and writes the cookie. It is a no-op when
// nothing changed.
func (s *Session) Save(w http.ResponseWriter) error {
	if !s.changed {
		return nil
	}

	if s.oldID != "" {
		if err := s.store.Destroy(s.ctx, s.oldID); err != nil {
			logger.WithCtx(s.ctx).Warn("session: destroy old id", "error", err)
		}
		s.oldID = ""
	}

	if s.destroyed {
		if err := s.store.Destroy(s.ctx, s.id); err != nil {
			return fmt.Errorf("session: destroy: %w", err)
		}
		s.writeCookie(w, "", -1)
		s.changed, s.destroyed = false, false
		return nil
	}

	if err := s.store.Save(s.ctx, s.id, s.data, s.opts.TTL); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	s.writeCookie(w, s.id, int(s.opts.TTL.Seconds()))
	s.changed = false
	return nil
}

func (s *Session) writeCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    value,
		Path:     s.opts.Path,
		MaxAge:   maxAge,
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})
}

// Middleware loads the session named by the cookie, or starts an empty one,
// and stores it in the request context. A store failure degrades to an
// empty session rather than failing the request.
func Middleware(store Store, opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := &Session{ctx: r.Context(), store: store, opts: opts}

			if cookie, err := r.Cookie(opts.CookieName); err == nil && cookie.Value != "" {
				data, err := store.Load(r.Context(), cookie.Value)
				if err != nil {
					logger.WithCtx(r.Context()).Warn("session: load", "error", err)
				}
				if err == nil {
					sess.id, sess.data = cookie.Value, data
				}
			}
			if sess.id == "" {
				id, err := newID()
				if err != nil {
					http.Error(w, "session unavailable", http.StatusInternalServerError)
					return
				}
				sess.id, sess.data = id, map[string]any{}
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromCtx returns the request's session. Outside the middleware it returns
// a detached in-memory session whose Save only sets the cookie.
func FromCtx(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	id, _ := newID()
	return &Session{ctx: r.Context(), store: NewMemoryStore(), id: id, data: map[string]any{}, opts: DefaultOptions()}
}
