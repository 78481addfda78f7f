// Package matching implements company identity matching over contact records
package matching

import (
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/normalizers"
)

// Channel contribution weights. Channels are additive: a candidate that
// matches on both name and website earns both contributions.
const (
	scoreExactName   = 100.0
	scoreFuzzyName   = 80.0
	scorePartialName = 50.0
	scoreWebsite     = 120.0
	scoreFuzzyDomain = 60.0
	scoreLinkedIn    = 110.0
	scoreEmailDomain = 90.0
)

// EngineConfig contains the tunable thresholds for the match engine
type EngineConfig struct {
	FuzzyNameThreshold   float64 // Similarity above which a name match is "fuzzy" (default: 0.85)
	PartialNameThreshold float64 // Similarity above which a name match is "partial" (default: 0.70)
	DomainThreshold      float64 // Similarity above which domains fuzzy-match (default: 0.8)
}

// DefaultConfig returns default engine configuration
func DefaultConfig() EngineConfig {
	return EngineConfig{
		FuzzyNameThreshold:   0.85,
		PartialNameThreshold: 0.70,
		DomainThreshold:      0.8,
	}
}

// Query holds a resolution request's identifiers, normalized once up front
type Query struct {
	CompanyName string
	Website     string
	LinkedIn    string
	EmailDomain string

	normName    string
	normWebsite string
	normHandle  string
}

// NewQuery normalizes the given identifiers into a reusable query
func NewQuery(companyName, website, linkedIn, email string) Query {
	return Query{
		CompanyName: companyName,
		Website:     website,
		LinkedIn:    linkedIn,
		EmailDomain: normalizers.EmailDomain(email),
		normName:    normalizers.CompanyName(companyName),
		normWebsite: normalizers.Website(website),
		normHandle:  normalizers.LinkedIn(linkedIn),
	}
}

// Empty reports whether the query carries no usable identifier
func (q Query) Empty() bool {
	return q.normName == "" && q.normWebsite == "" && q.normHandle == "" && q.EmailDomain == ""
}

// NormalizedName returns the canonicalized company name
func (q Query) NormalizedName() string { return q.normName }

// NormalizedWebsite returns the canonicalized website domain
func (q Query) NormalizedWebsite() string { return q.normWebsite }

// NormalizedHandle returns the canonicalized LinkedIn handle
func (q Query) NormalizedHandle() string { return q.normHandle }

// Key returns the query's normalized identifier tuple. Two queries with the
// same key resolve identically, so it doubles as a memoization key.
func (q Query) Key() string {
	return q.normName + "|" + q.normWebsite + "|" + q.normHandle + "|" + q.EmailDomain
}

// Engine scores candidate contacts against a query's identifiers
type Engine struct {
	scorer *Scorer
	config EngineConfig
}

// NewEngine creates a new match engine
func NewEngine(config EngineConfig) *Engine {
	return &Engine{
		scorer: NewScorer(),
		config: config,
	}
}

// Score combines the evidence from all four identifier channels into a
// single weighted score. The raw channel total is damped by the candidate's
// quality score (0.5 + 0.5*quality): a perfect identifier match on a
// nearly-empty record is worth half as much as one on a rich record, which
// keeps low-information duplicates from propagating their emptiness.
func (e *Engine) Score(candidate *models.Contact, q Query) models.MatchScore {
	result := models.MatchScore{MatchType: models.MatchTypeNone}
	if candidate == nil {
		return result
	}

	// Name channel
	if q.normName != "" {
		candName := normalizers.CompanyName(candidate.Company)
		if candName != "" {
			if candName == q.normName {
				result.Score += scoreExactName
				addMatchType(&result, models.MatchTypeExactCompany)
				result.Confidence = maxFloat(result.Confidence, 1.0)
			} else if sim := e.scorer.Similarity(candName, q.normName); sim >= e.config.FuzzyNameThreshold {
				result.Score += scoreFuzzyName * sim
				addMatchType(&result, models.MatchTypeFuzzyCompany)
				result.Confidence = maxFloat(result.Confidence, sim)
			} else if sim >= e.config.PartialNameThreshold {
				result.Score += scorePartialName * sim
				addMatchType(&result, models.MatchTypePartialCompany)
				result.Confidence = maxFloat(result.Confidence, sim*0.8)
			}
		}
	}

	// Website channel
	if q.normWebsite != "" {
		candSite := normalizers.Website(candidate.Website)
		if candSite != "" {
			if candSite == q.normWebsite {
				result.Score += scoreWebsite
				addMatchType(&result, models.MatchTypeWebsite)
				result.Confidence = maxFloat(result.Confidence, 1.0)
			} else if sim := e.scorer.Similarity(candSite, q.normWebsite); sim >= e.config.DomainThreshold {
				result.Score += scoreFuzzyDomain * sim
				addMatchType(&result, models.MatchTypeWebsite)
				result.Confidence = maxFloat(result.Confidence, sim*0.8)
			}
		}
	}

	// LinkedIn channel. Handles are exact identifiers; a partial handle
	// match is noise, so there is no fuzzy tier.
	if q.normHandle != "" {
		candHandle := normalizers.LinkedIn(candidate.CompanyLinkedIn)
		if candHandle != "" && candHandle == q.normHandle {
			result.Score += scoreLinkedIn
			addMatchType(&result, models.MatchTypeLinkedIn)
			result.Confidence = maxFloat(result.Confidence, 1.0)
		}
	}

	// Email-domain channel
	if q.EmailDomain != "" {
		candDomain := normalizers.EmailDomain(candidate.Email)
		if candDomain != "" && candDomain == q.EmailDomain {
			result.Score += scoreEmailDomain
			addMatchType(&result, models.MatchTypeEmailDomain)
			result.Confidence = maxFloat(result.Confidence, 0.95)
		}
	}

	result.Score *= 0.5 + 0.5*QualityScore(candidate)

	return result
}

// addMatchType appends a channel label to the composite match type
func addMatchType(r *models.MatchScore, matchType string) {
	if r.MatchType == models.MatchTypeNone {
		r.MatchType = matchType
		return
	}
	r.MatchType += "+" + matchType
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
