package matching

import (
	"github.com/Ramsey-B/clover/pkg/fields"
	"github.com/Ramsey-B/clover/pkg/models"
)

// QualityScore computes a 0..1 completeness/richness score for a contact's
// company fields. Each populated field contributes its weight scaled by a
// kind-specific richness factor:
//   - lists scale by min(1, len/3)
//   - strings scale by 0.7 + 0.3*min(1, len/20)
//   - plain values contribute full weight
//
// A record with only a company name scores low; one with name, website,
// industry, revenue and address scores high. Richer records win ties during
// matching and merging.
func QualityScore(c *models.Contact) float64 {
	if c == nil {
		return 0.0
	}

	var score float64
	for _, d := range fields.Company {
		v := d.FromContact(c)
		if v.Empty(d.Kind) {
			continue
		}

		weight := float64(d.Weight)
		switch d.Kind {
		case fields.KindList:
			richness := float64(v.Len(d.Kind)) / 3.0
			if richness > 1.0 {
				richness = 1.0
			}
			score += weight * richness
		case fields.KindString:
			length := float64(v.Len(d.Kind)) / 20.0
			if length > 1.0 {
				length = 1.0
			}
			score += weight * (0.7 + 0.3*length)
		default:
			score += weight
		}
	}

	return score / float64(fields.TotalWeight)
}
