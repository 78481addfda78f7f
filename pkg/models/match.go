package models

// Match type labels. When more than one identifier channel fires, the
// labels are joined with "+" in channel order, e.g. "exact_company+website".
const (
	MatchTypeNone           = "none"
	MatchTypeExactCompany   = "exact_company"
	MatchTypeFuzzyCompany   = "fuzzy_company"
	MatchTypePartialCompany = "partial_company"
	MatchTypeWebsite        = "website"
	MatchTypeLinkedIn       = "linkedin"
	MatchTypeEmailDomain    = "email_domain"
)

// MatchScore is the combined evidence from all identifier channels for a
// single (query, candidate) pair, damped by the candidate's quality score.
type MatchScore struct {
	Score      float64 `json:"score"`
	MatchType  string  `json:"match_type"`
	Confidence float64 `json:"confidence"`
}

// MatchCandidate pairs a candidate contact with its score against a query.
// Ephemeral; produced during resolution and never persisted.
type MatchCandidate struct {
	Contact    *Contact `json:"contact"`
	Score      float64  `json:"score"`
	MatchType  string   `json:"match_type"`
	Confidence float64  `json:"confidence"`
}

// ResolveRequest carries the identifiers of the company to resolve.
// At least one identifier must be non-empty for a lookup to happen.
type ResolveRequest struct {
	CompanyName string `json:"company_name"`
	Website     string `json:"website"`
	LinkedIn    string `json:"linkedin"`
	Email       string `json:"email" validate:"omitempty,email"`
}

// ResolveResponse is the API shape for a single resolution
type ResolveResponse struct {
	Found      bool               `json:"found"`
	Template   *CompanyAttributes `json:"template,omitempty"`
	MatchType  string             `json:"match_type,omitempty"`
	Confidence float64            `json:"confidence,omitempty"`
	Candidates int                `json:"candidates"`
}
