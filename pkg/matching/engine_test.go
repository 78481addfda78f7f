package matching

import (
	"testing"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryEmpty(t *testing.T) {
	assert.True(t, NewQuery("", "", "", "").Empty())

	// A webmail address normalizes away, so it alone leaves the query empty
	assert.True(t, NewQuery("", "", "", "user@gmail.com").Empty())

	assert.False(t, NewQuery("Acme", "", "", "").Empty())
	assert.False(t, NewQuery("", "acme.com", "", "").Empty())
	assert.False(t, NewQuery("", "", "acme-corp", "").Empty())
	assert.False(t, NewQuery("", "", "", "user@acme.io").Empty())
}

func TestQueryKey(t *testing.T) {
	// Surface variants of the same identifiers share a key
	a := NewQuery("Acme, Inc.", "https://www.acme.com/about", "linkedin.com/company/acme-corp", "bob@acme.com")
	b := NewQuery("acme inc", "acme.com", "acme-corp", "alice@acme.com")
	assert.Equal(t, a.Key(), b.Key())

	c := NewQuery("Initech", "acme.com", "acme-corp", "alice@acme.com")
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestScoreNameTiers(t *testing.T) {
	e := NewEngine(DefaultConfig())
	q := NewQuery("Acme Labs", "", "", "")

	// "ACME LABS Inc." normalizes to "acme labs" (exact); "Acme Labz" is one
	// edit away (fuzzy); "Acme Lab" is a contained prefix (partial)
	exact := e.Score(&models.Contact{Company: "ACME LABS Inc."}, q)
	fuzzy := e.Score(&models.Contact{Company: "Acme Labz"}, q)
	partial := e.Score(&models.Contact{Company: "Acme Lab"}, q)
	none := e.Score(&models.Contact{Company: "Initech"}, q)

	assert.Equal(t, models.MatchTypeExactCompany, exact.MatchType)
	assert.Equal(t, 1.0, exact.Confidence)

	assert.Equal(t, models.MatchTypeFuzzyCompany, fuzzy.MatchType)
	assert.Equal(t, models.MatchTypePartialCompany, partial.MatchType)

	assert.Greater(t, exact.Score, fuzzy.Score)
	assert.Greater(t, fuzzy.Score, partial.Score)
	assert.Greater(t, exact.Confidence, fuzzy.Confidence)
	assert.Greater(t, fuzzy.Confidence, partial.Confidence)

	assert.Equal(t, models.MatchTypeNone, none.MatchType)
	assert.Equal(t, 0.0, none.Score)
}

func TestScoreWebsiteChannel(t *testing.T) {
	e := NewEngine(DefaultConfig())
	q := NewQuery("", "https://www.acme.com", "", "")

	exact := e.Score(&models.Contact{Website: "acme.com"}, q)
	assert.Equal(t, models.MatchTypeWebsite, exact.MatchType)
	assert.Equal(t, 1.0, exact.Confidence)

	miss := e.Score(&models.Contact{Website: "initech.io"}, q)
	assert.Equal(t, models.MatchTypeNone, miss.MatchType)
}

func TestScoreLinkedInChannel(t *testing.T) {
	e := NewEngine(DefaultConfig())
	q := NewQuery("", "", "https://linkedin.com/company/acme-corp", "")

	hit := e.Score(&models.Contact{CompanyLinkedIn: "acme-corp"}, q)
	assert.Equal(t, models.MatchTypeLinkedIn, hit.MatchType)
	assert.Equal(t, 1.0, hit.Confidence)

	// Handles are exact identifiers: a near-miss is no match at all
	near := e.Score(&models.Contact{CompanyLinkedIn: "acme-corp-inc"}, q)
	assert.Equal(t, models.MatchTypeNone, near.MatchType)
}

func TestScoreEmailDomainChannel(t *testing.T) {
	e := NewEngine(DefaultConfig())
	q := NewQuery("", "", "", "bob@acme.io")

	hit := e.Score(&models.Contact{Email: "alice@acme.io"}, q)
	assert.Equal(t, models.MatchTypeEmailDomain, hit.MatchType)
	assert.Equal(t, 0.95, hit.Confidence)

	// Shared webmail domains never count as company evidence
	webmail := e.Score(&models.Contact{Email: "alice@gmail.com"}, NewQuery("", "", "", "bob@gmail.com"))
	assert.Equal(t, models.MatchTypeNone, webmail.MatchType)
}

func TestScoreChannelsAreAdditive(t *testing.T) {
	e := NewEngine(DefaultConfig())
	q := NewQuery("Acme Inc", "acme.com", "", "")

	nameOnly := e.Score(&models.Contact{Company: "Acme"}, q)
	both := e.Score(&models.Contact{Company: "Acme", Website: "acme.com"}, q)

	require.Equal(t, models.MatchTypeExactCompany, nameOnly.MatchType)
	assert.Equal(t, models.MatchTypeExactCompany+"+"+models.MatchTypeWebsite, both.MatchType)
	assert.Greater(t, both.Score, nameOnly.Score)
	assert.Equal(t, 1.0, both.Confidence)
}

func TestScoreQualityDamping(t *testing.T) {
	e := NewEngine(DefaultConfig())
	q := NewQuery("Acme Inc", "", "", "")

	sparse := e.Score(&models.Contact{Company: "Acme"}, q)
	rich := e.Score(&models.Contact{
		Company:       "Acme",
		Website:       "acme.com",
		Industry:      "Software",
		AnnualRevenue: "$10M-$50M",
		Employees:     250,
		Technologies:  []string{"go", "postgres", "kafka"},
	}, q)

	// Same identifier evidence, but the richer record is worth more
	assert.Equal(t, sparse.MatchType, rich.MatchType)
	assert.Greater(t, rich.Score, sparse.Score)

	// Damping never more than halves the raw channel total
	assert.GreaterOrEqual(t, sparse.Score, scoreExactName*0.5)
	assert.LessOrEqual(t, rich.Score, scoreExactName)
}

func TestScoreNilCandidate(t *testing.T) {
	e := NewEngine(DefaultConfig())
	got := e.Score(nil, NewQuery("Acme", "", "", ""))
	assert.Equal(t, models.MatchTypeNone, got.MatchType)
	assert.Equal(t, 0.0, got.Score)
}
