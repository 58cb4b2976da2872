package services

import "strings"

// Display-name fallbacks.
const (
	FallbackSeller = "Campus Seller"
	FallbackAdmin  = "Unknown"
)

// ResolveDisplayName returns the first candidate that is set and not blank,
// or fallback. Callers pass candidates in priority order: the seller's
// display name, the listing's seller_brand, then the seller's email.
func ResolveDisplayName(fallback string, candidates ...*string) string {
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if s := strings.TrimSpace(*c); s != "" {
			return s
		}
	}
	return fallback
}
