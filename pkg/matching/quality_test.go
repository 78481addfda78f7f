package matching

import (
	"testing"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestQualityScoreNil(t *testing.T) {
	assert.Equal(t, 0.0, QualityScore(nil))
}

func TestQualityScoreEmpty(t *testing.T) {
	assert.Equal(t, 0.0, QualityScore(&models.Contact{}))
}

func TestQualityScoreMonotonic(t *testing.T) {
	// Each added field can only raise the score
	sparse := &models.Contact{Company: "Acme"}
	richer := &models.Contact{Company: "Acme", Website: "acme.com"}
	rich := &models.Contact{
		Company:       "Acme",
		Website:       "acme.com",
		Industry:      "Software",
		AnnualRevenue: "$10M-$50M",
		Employees:     250,
	}

	s1, s2, s3 := QualityScore(sparse), QualityScore(richer), QualityScore(rich)
	assert.Greater(t, s1, 0.0)
	assert.Greater(t, s2, s1)
	assert.Greater(t, s3, s2)
	assert.LessOrEqual(t, s3, 1.0)
}

func TestQualityScoreListRichness(t *testing.T) {
	one := &models.Contact{Technologies: []string{"go"}}
	three := &models.Contact{Technologies: []string{"go", "postgres", "kafka"}}
	five := &models.Contact{Technologies: []string{"go", "postgres", "kafka", "redis", "react"}}

	// List contribution grows with element count and saturates at 3
	assert.Greater(t, QualityScore(three), QualityScore(one))
	assert.Equal(t, QualityScore(three), QualityScore(five))
}

func TestQualityScoreStringRichness(t *testing.T) {
	short := &models.Contact{Industry: "IT"}
	long := &models.Contact{Industry: "Enterprise Software and Services"}

	// Longer strings carry more signal but the floor keeps any
	// populated string worth most of its weight
	assert.Greater(t, QualityScore(long), QualityScore(short))
	assert.Greater(t, QualityScore(short), 0.0)
}
