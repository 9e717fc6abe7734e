package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalizeEAN verifies canonicalization and rejection rules.
func TestNormalizeEAN(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"valid ean13", "3017620422003", "3017620422003"},
		{"separators stripped", "3-017620-422003", "3017620422003"},
		{"upc-a padded", "012345678905", "0012345678905"},
		{"placeholder rejected", "0000000000000", ""},
		{"empty rejected", "", ""},
		{"bad check digit rejected", "3017620422004", ""},
		{"internal code passthrough", "12345678", "12345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEAN(tt.raw))
		})
	}
}
