// Package controllers turns HTTP requests into service calls and service
// results into rendering instructions or redirects.
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/hustlcampus/hustl/app/models"
	"github.com/hustlcampus/hustl/app/services"
	"github.com/hustlcampus/hustl/pkg/auth"
	"github.com/hustlcampus/hustl/pkg/bind"
	"github.com/hustlcampus/hustl/pkg/ctx"
	"github.com/hustlcampus/hustl/pkg/logger"
	"github.com/hustlcampus/hustl/pkg/session"
)

// Session keys.
const (
	sessionEmail       = "email"
	sessionAdminToken  = "admin_token"
	sessionDesiredRole = "desired_role"
)

// Controller holds the services shared by every handler.
type Controller struct {
	svc *services.Services
}

func New(svc *services.Services) *Controller {
	return &Controller{svc: svc}
}

// ResolvePrincipal identifies the caller from the session email and from a
// capability token held in the session or sent as a bearer token. A stale
// session email resolves to no user.
func (h *Controller) ResolvePrincipal(r *http.Request) (auth.Principal, error) {
	p := auth.Anonymous
	sess := session.FromCtx(r)

	if email, ok := sess.GetString(sessionEmail); ok && email != "" {
		u, err := h.svc.Directory.FindByEmail(r.Context(), email)
		switch {
		case err == nil:
			p.UserID, p.Email = u.ID, u.Email
		case !errors.Is(err, services.ErrNotFound):
			return auth.Anonymous, err
		}
	}

	token, _ := sess.GetString(sessionAdminToken)
	if token == "" {
		token = auth.BearerToken(r)
	}
	p.Caps = h.svc.Moderation.Capabilities(token)
	return p, nil
}

// currentUser loads the logged-in user, or returns nil for anonymous
// callers.
func (h *Controller) currentUser(c *ctx.Context) (*models.User, error) {
	p := c.Principal()
	if !p.Authenticated() {
		return nil, nil
	}
	u, err := h.svc.Directory.FindByID(c.Context(), p.UserID)
	if errors.Is(err, services.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

func isAdminPath(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/admin")
}

// fail maps a service error onto a response. view and data are used to
// re-render the originating page for user-correctable errors.
func (h *Controller) fail(c *ctx.Context, err error, view string, data any) {
	admin := isAdminPath(c.R)

	switch {
	case errors.Is(err, services.ErrAuthenticationRequired):
		if admin {
			c.Redirect("/admin-login", "Please log in as admin.")
			return
		}
		c.Redirect("/login", "Please log in to continue.")

	case errors.Is(err, services.ErrAuthorizationDenied):
		if admin {
			c.Redirect("/admin-login", "Admin access required.")
			return
		}
		c.Redirect("/market", "You are not allowed to do that.")

	case errors.Is(err, services.ErrValidation):
		c.Render(http.StatusUnprocessableEntity, view, data, services.Notice(err))

	case errors.Is(err, services.ErrInvalidCredentials):
		c.Render(http.StatusUnprocessableEntity, view, data, "Invalid email or password.")

	case errors.Is(err, services.ErrPasswordNotSet):
		c.Redirect("/signup", "Please sign up to set a password for your old account.")

	case errors.Is(err, services.ErrAlreadyRegistered):
		c.Redirect("/login", "Account already exists. Please log in.")

	case errors.Is(err, bind.ErrTooLarge):
		c.Render(http.StatusRequestEntityTooLarge, view, data, "The upload is too large.")

	case errors.Is(err, services.ErrInvalidTransition):
		to := "/"
		if admin {
			to = "/admin"
		}
		c.Redirect(to, "That action is no longer possible.")

	case errors.Is(err, services.ErrNotFound):
		c.Render(http.StatusNotFound, "not_found", nil, "We could not find that.")

	default:
		logger.WithCtx(c.Context()).Error("request failed", "path", c.R.URL.Path, "error", err)
		c.Render(http.StatusInternalServerError, "error", nil, "Something went wrong. Please try again.")
	}
}

// upload returns the image part of a multipart form, or nil when none was
// sent. The caller closes the returned file via done.
func upload(c *ctx.Context, field string) (up *services.Upload, done func(), err error) {
	file, header, err := c.File(field)
	if err != nil || file == nil {
		return nil, func() {}, err
	}
	return &services.Upload{Filename: header.Filename, Body: file}, func() { file.Close() }, nil
}
