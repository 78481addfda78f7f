// Package resolver drives company identity resolution over the contact store
package resolver

import (
	"context"
	"sort"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/internal/tracing"
	"github.com/Ramsey-B/clover/pkg/fields"
	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/merging"
	"github.com/Ramsey-B/clover/pkg/models"
)

// CandidateStore is the slice of the contact repository the resolver needs.
// Implementations return up to a fixed cap of records matching ANY of the
// query's identifiers, most-recent-first.
type CandidateStore interface {
	FindByAnyIdentifier(ctx context.Context, tenantID string, q matching.Query) ([]*models.Contact, error)
}

// Config contains the tunable resolution thresholds
type Config struct {
	HighConfidenceScore float64 // Damped match score above which a candidate joins the merge set (default: 30)
	MergeFieldFloor     int     // Minimum populated fields for a usable template (default: 2)
	TopCandidates       int     // Candidates kept after ranking (default: 10)
}

// DefaultConfig returns default resolver configuration
func DefaultConfig() Config {
	return Config{
		HighConfidenceScore: 30,
		MergeFieldFloor:     2,
		TopCandidates:       10,
	}
}

// Result is a successful resolution: a merged template plus the match
// evidence of the best-scoring candidate.
type Result struct {
	Template   *models.CompanyAttributes
	MatchType  string
	Confidence float64
	Candidates int
}

// Resolver resolves identifier sets to merged company templates
type Resolver struct {
	store  CandidateStore
	engine *matching.Engine
	merger *merging.FieldMerger
	logger ectologger.Logger
	config Config
}

// NewResolver creates a new resolver
func NewResolver(store CandidateStore, engine *matching.Engine, logger ectologger.Logger, config Config) *Resolver {
	return &Resolver{
		store:  store,
		engine: engine,
		merger: merging.NewFieldMerger(),
		logger: logger,
		config: config,
	}
}

// Resolve looks up the best company template for the given identifiers.
// A nil Result with a nil error means "no confident match", which is a
// normal outcome, not a failure. An all-empty request returns nil without
// touching the store.
func (r *Resolver) Resolve(ctx context.Context, tenantID string, req models.ResolveRequest) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "resolver.Resolver.Resolve")
	defer span.End()

	q := matching.NewQuery(req.CompanyName, req.Website, req.LinkedIn, req.Email)
	if q.Empty() {
		return nil, nil
	}

	return r.resolveQuery(ctx, tenantID, q)
}

// Cache memoizes resolution results per normalized identifier tuple. It is
// owned by a single batch call and dropped at batch end; it is not safe for
// concurrent use across workers.
type Cache struct {
	entries map[string]*Result
}

// NewCache creates an empty resolution cache
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Result)}
}

// ResolveCached is Resolve with per-batch memoization. Both hits and misses
// are cached (a "no match" for a tuple is just as reusable); errors are not.
func (r *Resolver) ResolveCached(ctx context.Context, tenantID string, req models.ResolveRequest, cache *Cache) (*Result, error) {
	q := matching.NewQuery(req.CompanyName, req.Website, req.LinkedIn, req.Email)
	if q.Empty() {
		return nil, nil
	}

	key := q.Key()
	if result, ok := cache.entries[key]; ok {
		return result, nil
	}

	result, err := r.resolveQuery(ctx, tenantID, q)
	if err != nil {
		return nil, err
	}

	cache.entries[key] = result
	return result, nil
}

func (r *Resolver) resolveQuery(ctx context.Context, tenantID string, q matching.Query) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "resolver.Resolver.resolveQuery")
	defer span.End()

	candidates, err := r.store.FindByAnyIdentifier(ctx, tenantID, q)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	scored := make([]models.MatchCandidate, 0, len(candidates))
	for _, c := range candidates {
		ms := r.engine.Score(c, q)
		if ms.Score <= 0 {
			continue
		}
		scored = append(scored, models.MatchCandidate{
			Contact:    c,
			Score:      ms.Score,
			MatchType:  ms.MatchType,
			Confidence: ms.Confidence,
		})
	}
	if len(scored) == 0 {
		return nil, nil
	}

	// Stable sort preserves the store's most-recent-first order for ties
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > r.config.TopCandidates {
		scored = scored[:r.config.TopCandidates]
	}

	high := make([]*models.Contact, 0, len(scored))
	for _, mc := range scored {
		if mc.Score > r.config.HighConfidenceScore {
			high = append(high, mc.Contact)
		}
	}

	best := scored[0]

	var template *models.CompanyAttributes
	if len(high) == 0 {
		// Nothing cleared the bar; fall back to the single best candidate
		template = r.merger.ExtractCompanyFields(best.Contact)
	} else {
		template = r.merger.MergeCompanyData(high)
	}

	// A template needs at least a name plus one more attribute to be useful
	if fields.Count(template) < r.config.MergeFieldFloor {
		return nil, nil
	}

	return &Result{
		Template:   template,
		MatchType:  best.MatchType,
		Confidence: best.Confidence,
		Candidates: len(scored),
	}, nil
}

// EmptyFieldDeltas returns column deltas that fill the contact's empty
// company fields from the template. Populated fields are never overwritten.
func EmptyFieldDeltas(c *models.Contact, t *models.CompanyAttributes) map[string]any {
	if t == nil {
		return nil
	}

	deltas := make(map[string]any)
	for _, d := range fields.Company {
		if !d.FromContact(c).Empty(d.Kind) {
			continue
		}
		v := d.FromTemplate(t)
		if v.Empty(d.Kind) {
			continue
		}
		deltas[d.Column] = v.Raw(d.Kind)
	}
	return deltas
}
