package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestResolveDisplayName(t *testing.T) {
	tests := []struct {
		name       string
		fallback   string
		candidates []*string
		want       string
	}{
		{"display name wins", FallbackSeller, []*string{strp("Ann's Shop"), strp("Brand"), strp("ann@campus.edu")}, "Ann's Shop"},
		{"blank display name skipped", FallbackSeller, []*string{strp("  "), strp("Brand"), strp("ann@campus.edu")}, "Brand"},
		{"email after brand", FallbackSeller, []*string{nil, nil, strp("ann@campus.edu")}, "ann@campus.edu"},
		{"seller fallback", FallbackSeller, []*string{nil, strp(""), nil}, "Campus Seller"},
		{"admin fallback", FallbackAdmin, nil, "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ResolveDisplayName(tt.fallback, tt.candidates...))
		})
	}
}
