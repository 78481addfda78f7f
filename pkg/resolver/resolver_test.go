package resolver

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/models"
)

type fakeStore struct {
	contacts []*models.Contact
	calls    int
	err      error
}

func (f *fakeStore) FindByAnyIdentifier(_ context.Context, _ string, _ matching.Query) ([]*models.Contact, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.contacts, nil
}

func newTestResolver(store CandidateStore) *Resolver {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewResolver(store, matching.NewEngine(matching.DefaultConfig()), logger, DefaultConfig())
}

func TestResolveEmptyRequestSkipsStore(t *testing.T) {
	store := &fakeStore{}
	r := newTestResolver(store)

	result, err := r.Resolve(context.Background(), "tenant-1", models.ResolveRequest{})
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 0, store.calls)

	// A webmail-only request normalizes to nothing and is treated the same
	result, err = r.Resolve(context.Background(), "tenant-1", models.ResolveRequest{Email: "bob@gmail.com"})
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 0, store.calls)
}

func TestResolveNoCandidates(t *testing.T) {
	r := newTestResolver(&fakeStore{})

	result, err := r.Resolve(context.Background(), "tenant-1", models.ResolveRequest{CompanyName: "Acme"})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestResolveMergesHighConfidenceCandidates(t *testing.T) {
	store := &fakeStore{contacts: []*models.Contact{
		{
			Company:  "Acme Inc",
			Website:  "acme.com",
			Industry: "Enterprise Software",
		},
		{
			Company:       "Acme",
			Website:       "acme.com",
			AnnualRevenue: "$10M-$50M",
			Employees:     250,
		},
		{
			Company: "Initech", // never scores against this query
		},
	}}
	r := newTestResolver(store)

	result, err := r.Resolve(context.Background(), "tenant-1", models.ResolveRequest{
		CompanyName: "Acme, Inc.",
		Website:     "https://www.acme.com",
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	// The template combines attributes from both matching records
	assert.Equal(t, "acme.com", result.Template.Website)
	assert.Equal(t, "Enterprise Software", result.Template.Industry)
	assert.Equal(t, "$10M-$50M", result.Template.AnnualRevenue)
	assert.Equal(t, 250, result.Template.Employees)

	assert.Equal(t, models.MatchTypeExactCompany+"+"+models.MatchTypeWebsite, result.MatchType)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Equal(t, 2, result.Candidates)
}

func TestResolveEmailDomainSourcesFromRicherCandidate(t *testing.T) {
	// Both candidates share the email domain, but only the richer one
	// carries attributes worth merging
	store := &fakeStore{contacts: []*models.Contact{
		{Email: "a@foo.io"},
		{
			Email:         "b@foo.io",
			Company:       "Foo Labs",
			Industry:      "Analytics",
			AnnualRevenue: "$1M-$10M",
		},
	}}
	r := newTestResolver(store)

	result, err := r.Resolve(context.Background(), "tenant-1", models.ResolveRequest{Email: "user@foo.io"})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, models.MatchTypeEmailDomain, result.MatchType)
	assert.Equal(t, "Foo Labs", result.Template.Company)
	assert.Equal(t, "Analytics", result.Template.Industry)
	assert.Equal(t, "$1M-$10M", result.Template.AnnualRevenue)
}

func TestResolveRejectsThinTemplate(t *testing.T) {
	// A confident match on a record that only carries a name produces a
	// one-field template, which is below the usefulness floor.
	store := &fakeStore{contacts: []*models.Contact{{Company: "Acme"}}}
	r := newTestResolver(store)

	result, err := r.Resolve(context.Background(), "tenant-1", models.ResolveRequest{CompanyName: "Acme"})
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 1, store.calls)
}

func TestResolveCachedMemoizesByNormalizedTuple(t *testing.T) {
	store := &fakeStore{contacts: []*models.Contact{
		{Company: "Acme", Website: "acme.com", Industry: "Software"},
	}}
	r := newTestResolver(store)
	cache := NewCache()

	// Three surface variants of the same identifiers hit the store once
	for _, name := range []string{"Acme, Inc.", "acme inc", "ACME Incorporated"} {
		result, err := r.ResolveCached(context.Background(), "tenant-1", models.ResolveRequest{CompanyName: name}, cache)
		require.NoError(t, err)
		require.NotNil(t, result)
	}
	assert.Equal(t, 1, store.calls)

	// A different tuple is a fresh lookup
	_, err := r.ResolveCached(context.Background(), "tenant-1", models.ResolveRequest{CompanyName: "Initech"}, cache)
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)
}

func TestResolveCachedMemoizesMisses(t *testing.T) {
	store := &fakeStore{}
	r := newTestResolver(store)
	cache := NewCache()

	for i := 0; i < 3; i++ {
		result, err := r.ResolveCached(context.Background(), "tenant-1", models.ResolveRequest{CompanyName: "Ghost Co"}, cache)
		require.NoError(t, err)
		assert.Nil(t, result)
	}
	assert.Equal(t, 1, store.calls)
}

func TestEmptyFieldDeltas(t *testing.T) {
	c := &models.Contact{
		Company:  "Acme",
		Industry: "Software", // already populated, must survive untouched
	}
	template := &models.CompanyAttributes{
		Company:       "Acme Inc",
		Website:       "acme.com",
		Industry:      "Enterprise Software",
		Employees:     250,
		AnnualRevenue: "$10M-$50M",
		Technologies:  []string{"go", "postgres"},
	}

	deltas := EmptyFieldDeltas(c, template)
	require.NotNil(t, deltas)

	assert.NotContains(t, deltas, "company")
	assert.NotContains(t, deltas, "industry")

	assert.Equal(t, "acme.com", deltas["website"])
	assert.Equal(t, 250, deltas["employees"])
	assert.Equal(t, "$10M-$50M", deltas["annual_revenue"])
	assert.Equal(t, []string{"go", "postgres"}, deltas["technologies"])

	assert.Nil(t, EmptyFieldDeltas(c, nil))
}

func TestMatchContactSkipsIdentifierless(t *testing.T) {
	store := &fakeStore{}
	r := newTestResolver(store)

	outcome, err := r.MatchContact(context.Background(), "tenant-1", &models.Contact{FirstName: "Bob"}, NewCache())
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusSkipped, outcome.Status)
	assert.Equal(t, 0, store.calls)
}

func TestMatchContactPendingReview(t *testing.T) {
	// Company name present but nothing resolves: flag for review rather
	// than silently leaving it unmatched
	r := newTestResolver(&fakeStore{})

	outcome, err := r.MatchContact(context.Background(), "tenant-1", &models.Contact{Company: "Ghost Co"}, NewCache())
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusPendingReview, outcome.Status)
	assert.Nil(t, outcome.Result)
}

func TestMatchContactUnmatched(t *testing.T) {
	r := newTestResolver(&fakeStore{})

	outcome, err := r.MatchContact(context.Background(), "tenant-1", &models.Contact{Website: "ghost.io"}, NewCache())
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusUnmatched, outcome.Status)
}

func TestMatchContactMatchedWithDeltas(t *testing.T) {
	store := &fakeStore{contacts: []*models.Contact{
		{
			Company:  "Acme Inc",
			Website:  "acme.com",
			Industry: "Enterprise Software",
		},
	}}
	r := newTestResolver(store)

	c := &models.Contact{Website: "https://acme.com"}
	outcome, err := r.MatchContact(context.Background(), "tenant-1", c, NewCache())
	require.NoError(t, err)
	require.NotNil(t, outcome.Result)

	assert.Equal(t, models.MatchStatusMatched, outcome.Status)
	assert.Equal(t, "Acme Inc", outcome.Deltas["company"])
	assert.Equal(t, "Enterprise Software", outcome.Deltas["industry"])
	assert.NotContains(t, outcome.Deltas, "website")
}

func TestAutoFillContact(t *testing.T) {
	store := &fakeStore{contacts: []*models.Contact{
		{
			Company:       "Acme Inc",
			Website:       "acme.com",
			Industry:      "Enterprise Software",
			AnnualRevenue: "$10M-$50M",
		},
	}}
	r := newTestResolver(store)

	c := &models.Contact{Company: "Acme", Website: "acme.com"}
	deltas, result, err := r.AutoFillContact(context.Background(), "tenant-1", c, NewCache())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "Enterprise Software", deltas["industry"])
	assert.Equal(t, "$10M-$50M", deltas["annual_revenue"])
	assert.NotContains(t, deltas, "company")
	assert.NotContains(t, deltas, "website")
}

func TestAutoFillContactNoMatch(t *testing.T) {
	r := newTestResolver(&fakeStore{})

	deltas, result, err := r.AutoFillContact(context.Background(), "tenant-1", &models.Contact{Company: "Ghost Co"}, NewCache())
	require.NoError(t, err)
	assert.Nil(t, deltas)
	assert.Nil(t, result)
}
