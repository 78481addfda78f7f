package matching

import "strings"

// Scorer provides string comparison algorithms for identifier matching
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// EditDistance calculates the Levenshtein distance between two strings
// (insertion/deletion/substitution cost 1)
func (s *Scorer) EditDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Two-row dynamic programming table
	row := make([]int, len(b)+1)
	prevRow := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prevRow[j] = j
	}

	for i := 1; i <= len(a); i++ {
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			row[j] = min(min(row[j-1]+1, prevRow[j]+1), prevRow[j-1]+cost)
		}
		row, prevRow = prevRow, row
	}

	return prevRow[len(b)]
}

// Similarity returns a similarity score between 0.0 and 1.0.
// Exact matches score 1.0. When one string contains the other the score is
// the length ratio scaled by 0.95 - containment is a strong signal but
// "acme" vs "acme corp international" is not a perfect match. Otherwise
// the score is derived from edit distance over the longer length.
func (s *Scorer) Similarity(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0.0
		}
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) {
		return float64(len(shorter)) / float64(len(longer)) * 0.95
	}

	distance := s.EditDistance(a, b)
	maxLen := max(len(a), len(b))
	score := 1.0 - float64(distance)/float64(maxLen)
	if score < 0 {
		return 0.0
	}
	return score
}

// FuzzyMatch reports whether two strings are similar above a threshold
func (s *Scorer) FuzzyMatch(a, b string, threshold float64) bool {
	return s.Similarity(a, b) >= threshold
}
