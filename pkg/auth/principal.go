// Package auth holds password hashing, capability tokens and the Principal
// that describes who is calling.
package auth

import (
	"context"
	"net/http"
	"strings"
)

// Principal is the resolved caller: an optional logged-in user plus any
// capabilities granted by a verified token.
type Principal struct {
	UserID uint
	Email  string
	Caps   []Capability
}

// Anonymous is the zero principal.
var Anonymous = Principal{}

func (p Principal) Authenticated() bool { return p.UserID != 0 }

// Can reports whether p holds c.
func (p Principal) Can(c Capability) bool {
	for _, have := range p.Caps {
		if have == c {
			return true
		}
	}
	return false
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromCtx returns the principal stored in ctx, or Anonymous.
func FromCtx(ctx context.Context) Principal {
	if p, ok := ctx.Value(ctxKey{}).(Principal); ok {
		return p
	}
	return Anonymous
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
