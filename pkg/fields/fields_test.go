package fields

import (
	"testing"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestCompanyTable(t *testing.T) {
	assert.Len(t, Company, 15)

	total := 0
	seen := map[string]bool{}
	for _, d := range Company {
		total += d.Weight
		assert.False(t, seen[d.Name], "duplicate field %s", d.Name)
		seen[d.Name] = true
		assert.NotNil(t, d.FromContact)
		assert.NotNil(t, d.FromTemplate)
		assert.NotNil(t, d.Apply)
	}
	assert.Equal(t, total, TotalWeight)
}

func TestValueEmpty(t *testing.T) {
	assert.True(t, Value{}.Empty(KindString))
	assert.False(t, Value{Str: "x"}.Empty(KindString))

	assert.True(t, Value{}.Empty(KindList))
	assert.False(t, Value{List: []string{"x"}}.Empty(KindList))

	// Value kinds can carry either a number or a bracket string
	assert.True(t, Value{}.Empty(KindValue))
	assert.False(t, Value{Num: 5}.Empty(KindValue))
	assert.False(t, Value{Str: "11-50"}.Empty(KindValue))
}

func TestValueRaw(t *testing.T) {
	assert.Equal(t, "x", Value{Str: "x"}.Raw(KindString))
	assert.Equal(t, []string{"a", "b"}, Value{List: []string{"a", "b"}}.Raw(KindList))
	assert.Equal(t, 5, Value{Num: 5}.Raw(KindValue))
	assert.Equal(t, "11-50", Value{Str: "11-50", Num: 5}.Raw(KindValue))
}

func TestCountAndNames(t *testing.T) {
	assert.Equal(t, 0, Count(nil))
	assert.Nil(t, Names(nil))

	template := &models.CompanyAttributes{
		Company:  "Acme",
		Website:  "acme.com",
		Industry: "Software",
	}
	assert.Equal(t, 3, Count(template))
	assert.Equal(t, []string{"company", "website", "industry"}, Names(template))
}
