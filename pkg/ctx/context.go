// Package ctx gives handlers a single request context with helpers for
// path params, form binding, the session and rendering.
//
//	func Show(c *ctx.Context) {
//	    id, ok := c.ParamUint("id")
//	    ...
//	    c.Render(http.StatusOK, "listing", data)
//	}
//
//	router.Get("/listing/{id}", "listing.show", ctx.Wrap(Show))
package ctx

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/hustlcampus/hustl/config"
	"github.com/hustlcampus/hustl/pkg/auth"
	"github.com/hustlcampus/hustl/pkg/bind"
	"github.com/hustlcampus/hustl/pkg/logger"
	"github.com/hustlcampus/hustl/pkg/response"
	"github.com/hustlcampus/hustl/pkg/session"
	"github.com/hustlcampus/hustl/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap adapts h to http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps one request/response pair.
type Context struct {
	W http.ResponseWriter
	R *http.Request
}

var pool = sync.Pool{New: func() any { return &Context{} }}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W, c.R = w, r
	return c
}

func release(c *Context) {
	c.W, c.R = nil, nil
	pool.Put(c)
}

// ── Request ───────────────────────────────────────────────────────────────────

func (c *Context) Context() context.Context { return c.R.Context() }

// Param returns a chi URL parameter.
func (c *Context) Param(key string) string { return chi.URLParam(c.R, key) }

// ParamUint parses a positive integer path parameter.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 0)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// Bind decodes the form into dest, capped at MAX_UPLOAD_BYTES.
func (c *Context) Bind(dest any) (validate.Errors, error) {
	return bind.Form(c.W, c.R, dest, config.MaxUploadBytes())
}

// File returns the uploaded file part named field, or nil.
func (c *Context) File(field string) (multipart.File, *multipart.FileHeader, error) {
	return bind.File(c.R, field)
}

func (c *Context) Session() *session.Session { return session.FromCtx(c.R) }

// Principal is the caller resolved by the authentication middleware.
func (c *Context) Principal() auth.Principal { return auth.FromCtx(c.R.Context()) }

// ── Response ──────────────────────────────────────────────────────────────────

const flashNotice = "notice"

// Flash queues a notice for the next rendered page.
func (c *Context) Flash(notice string) {
	if notice != "" {
		c.Session().Flash(flashNotice, notice)
	}
}

// Render writes a rendering instruction. Queued flash values are attached
// and consumed, and the session is saved before the body is written.
func (c *Context) Render(status int, view string, data any, notice ...string) {
	v := response.View{Status: status, View: view, Data: data}
	if len(notice) > 0 {
		v.Notice = notice[0]
	}

	sess := c.Session()
	if f, ok := sess.GetFlash(flashNotice); ok {
		v.Flash = map[string]any{flashNotice: f}
	}
	c.saveSession()
	response.Render(c.W, v)
}

// Redirect sends 303 See Other to url, flashing notice when non-empty.
func (c *Context) Redirect(url string, notice ...string) {
	if len(notice) > 0 {
		c.Flash(notice[0])
	}
	c.saveSession()
	http.Redirect(c.W, c.R, url, http.StatusSeeOther)
}

func (c *Context) saveSession() {
	if err := c.Session().Save(c.W); err != nil {
		logger.WithCtx(c.Context()).Error("session save failed", "error", err)
	}
}
