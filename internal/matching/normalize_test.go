package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFold verifies case folding, accent stripping and ligatures.
func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Pâtes", "pates"},
		{"CRÈME FRAÎCHE", "creme fraiche"},
		{"Bœuf haché", "boeuf hache"},
		{"Œufs", "oeufs"},
		{"déjà", "deja"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}

// TestFoldMatching verifies the helpers used by candidate scoring.
func TestFoldMatching(t *testing.T) {
	assert.True(t, containsFold("Crème fraîche épaisse", "creme"))
	assert.True(t, hasPrefixFold("Pâtes complètes", "pates"))
	assert.False(t, hasPrefixFold("Salade de pâtes", "pates"))
	assert.True(t, containsWholeWordFold("Salade de pâtes fraîches", "pates"))
	assert.False(t, containsWholeWordFold("Pâtes fraîches", "pates")) // prefix, not inner word
}

// TestBlacklisted verifies exclusion token matching.
func TestBlacklisted(t *testing.T) {
	assert.True(t, Blacklisted("Pizza 4 fromages"))
	assert.True(t, Blacklisted("Croquettes pour chat"))
	assert.True(t, Blacklisted("Gateau moelleux")) // accent-insensitive against "Gâteau"
	assert.True(t, Blacklisted("Shampoing doux"))
	assert.False(t, Blacklisted("Tomates grappe"))
	assert.False(t, Blacklisted("Farine de blé T55"))
}
