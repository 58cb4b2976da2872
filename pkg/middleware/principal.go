package middleware

import (
	"net/http"

	"github.com/hustlcampus/hustl/pkg/auth"
	"github.com/hustlcampus/hustl/pkg/logger"
	"github.com/hustlcampus/hustl/pkg/session"
)

// PrincipalResolver identifies the caller of r.
type PrincipalResolver func(r *http.Request) (auth.Principal, error)

// Authenticate stores the resolved principal in the request context. A
// resolver error is logged and the request continues anonymously.
func Authenticate(resolve PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := resolve(r)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("resolve principal", "error", err)
				p = auth.Anonymous
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireUser redirects anonymous callers to loginURL.
func RequireUser(loginURL, notice string) func(http.Handler) http.Handler {
	return guard(func(p auth.Principal) bool { return p.Authenticated() }, loginURL, notice)
}

// RequireCapability redirects callers lacking c to loginURL.
func RequireCapability(c auth.Capability, loginURL, notice string) func(http.Handler) http.Handler {
	return guard(func(p auth.Principal) bool { return p.Can(c) }, loginURL, notice)
}

func guard(allowed func(auth.Principal) bool, to, notice string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowed(auth.FromCtx(r.Context())) {
				next.ServeHTTP(w, r)
				return
			}
			sess := session.FromCtx(r)
			sess.Flash("notice", notice)
			if err := sess.Save(w); err != nil {
				logger.WithCtx(r.Context()).Error("session save failed", "error", err)
			}
			http.Redirect(w, r, to, http.StatusSeeOther)
		})
	}
}
