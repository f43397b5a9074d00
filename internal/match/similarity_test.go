package match

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "email", "email", 1.0},
		{"identical after normalization", "First Name", "first_name", 1.0},
		{"case folded", "EMAIL", "email", 1.0},
		{"classic edit distance", "kitten", "sitting", 1.0 - 3.0/7.0},
		{"single transposition-ish", "emial", "email", 1.0 - 2.0/5.0},
		{"disjoint", "zip", "phone", 1.0 - 5.0/5.0},
		{"empty left", "", "email", 0},
		{"empty right", "email", "", 0},
		{"only punctuation", "---", "email", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"first name", "fname"},
		{"zipcode", "postal"},
	}
	for _, p := range pairs {
		assert.InDelta(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), 1e-12)
	}
}

func TestSimilarityBounds(t *testing.T) {
	for _, p := range [][2]string{{"a", "completely different"}, {"x1", "x2"}, {"abc", "abd"}} {
		s := Similarity(p[0], p[1])
		assert.True(t, s >= 0 && s <= 1, "similarity %v out of range for %v", s, p)
		assert.False(t, math.IsNaN(s))
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshteinDistance(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}
