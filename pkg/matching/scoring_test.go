package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditDistance(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 0, s.EditDistance("acme", "acme"))
	assert.Equal(t, 4, s.EditDistance("", "acme"))
	assert.Equal(t, 4, s.EditDistance("acme", ""))
	assert.Equal(t, 1, s.EditDistance("acme", "acmes"))
	assert.Equal(t, 1, s.EditDistance("acme", "acne"))
	assert.Equal(t, 3, s.EditDistance("kitten", "sitting"))
	assert.Equal(t, s.EditDistance("kitten", "sitting"), s.EditDistance("sitting", "kitten"))
}

func TestSimilarity(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 1.0, s.Similarity("acme", "acme"))
	assert.Equal(t, 0.0, s.Similarity("", ""))
	assert.Equal(t, 0.0, s.Similarity("acme", ""))
	assert.Equal(t, 0.0, s.Similarity("", "acme"))

	// Containment scores the length ratio scaled by 0.95
	got := s.Similarity("acme", "acme corp")
	assert.InDelta(t, 4.0/9.0*0.95, got, 1e-9)
	assert.Equal(t, got, s.Similarity("acme corp", "acme"))

	// Non-containing strings fall through to edit distance over max length
	got = s.Similarity("acne", "acme")
	assert.InDelta(t, 0.75, got, 1e-9)
	assert.Equal(t, got, s.Similarity("acme", "acne"))

	// Completely different strings bottom out at zero
	assert.GreaterOrEqual(t, s.Similarity("aaaa", "zzzzzzzzzzzz"), 0.0)
}

func TestFuzzyMatch(t *testing.T) {
	s := NewScorer()

	assert.True(t, s.FuzzyMatch("acme", "acme", 1.0))
	assert.True(t, s.FuzzyMatch("acne", "acme", 0.7))
	assert.False(t, s.FuzzyMatch("acne", "acme", 0.9))
}
