package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Capability names a privilege carried by a signed token.
type Capability string

// CapModerate allows verifying sellers, deleting listings and resolving
// claims.
const CapModerate Capability = "moderate"

var ErrNoSigningKey = errors.New("auth: signing key is not configured")

// Claims is the capability token payload.
type Claims struct {
	Caps []Capability `json:"caps"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 capability tokens.
type Tokens struct {
	Key []byte
	TTL time.Duration
	Now func() time.Time
}

func NewTokens(key string, ttl time.Duration) *Tokens {
	return &Tokens{Key: []byte(key), TTL: ttl, Now: time.Now}
}

func (t *Tokens) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// Issue signs a token for subject carrying caps.
func (t *Tokens) Issue(subject string, caps ...Capability) (string, error) {
	if len(t.Key) == 0 {
		return "", ErrNoSigningKey
	}
	now := t.now()
	claims := Claims{
		Caps: caps,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Key)
}

// Parse verifies raw and returns its claims. Only HS256 is accepted.
func (t *Tokens) Parse(raw string) (*Claims, error) {
	if len(t.Key) == 0 {
		return nil, ErrNoSigningKey
	}
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return t.Key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("auth: parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
