// Package merging builds merged company templates from candidate contacts
package merging

import (
	"github.com/Ramsey-B/clover/pkg/fields"
	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/models"
)

// FieldMerger picks the best-sourced value for each company field across a
// set of candidate records
type FieldMerger struct{}

// NewFieldMerger creates a new FieldMerger
func NewFieldMerger() *FieldMerger {
	return &FieldMerger{}
}

// ExtractCompanyFields projects the non-empty company fields of a single
// contact into a template. Empty strings and empty lists are excluded.
func (m *FieldMerger) ExtractCompanyFields(c *models.Contact) *models.CompanyAttributes {
	if c == nil {
		return nil
	}

	template := &models.CompanyAttributes{}
	for _, d := range fields.Company {
		v := d.FromContact(c)
		if v.Empty(d.Kind) {
			continue
		}
		d.Apply(template, v)
	}
	return template
}

// MergeCompanyData merges candidate contacts into a single template. Each
// field is resolved independently: the winner is the candidate whose value
// scores highest on weight * richness * (0.7 + 0.3*quality), so the merged
// template can legitimately combine field A from record X with field B from
// record Y. That trades per-record provenance for completeness, which is
// what auto-fill wants.
func (m *FieldMerger) MergeCompanyData(candidates []*models.Contact) *models.CompanyAttributes {
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 {
		return m.ExtractCompanyFields(candidates[0])
	}

	// Quality is computed once per record, not once per field
	qualities := make([]float64, len(candidates))
	for i, c := range candidates {
		qualities[i] = matching.QualityScore(c)
	}

	template := &models.CompanyAttributes{}
	for _, d := range fields.Company {
		var best fields.Value
		bestScore := -1.0

		for i, c := range candidates {
			v := d.FromContact(c)
			if v.Empty(d.Kind) {
				continue
			}

			score := float64(d.Weight) * richness(v, d.Kind) * (0.7 + 0.3*qualities[i])
			if score > bestScore {
				bestScore = score
				best = v
			}
		}

		if bestScore >= 0 {
			d.Apply(template, best)
		}
	}

	return template
}

// richness scales a value's contribution by how much information it carries
func richness(v fields.Value, k fields.Kind) float64 {
	switch k {
	case fields.KindList:
		extra := float64(v.Len(k)) / 5.0
		if extra > 1.0 {
			extra = 1.0
		}
		return 1.0 + extra
	case fields.KindString:
		extra := float64(v.Len(k)) / 50.0
		if extra > 0.2 {
			extra = 0.2
		}
		return 0.8 + extra
	default:
		return 1.0
	}
}
