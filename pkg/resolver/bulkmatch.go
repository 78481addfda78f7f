package resolver

import (
	"context"

	"github.com/Ramsey-B/clover/internal/tracing"
	"github.com/Ramsey-B/clover/pkg/models"
)

// MatchOutcome is the per-contact result of the bulk match flow
type MatchOutcome struct {
	Status string         // match status to persist on the contact
	Deltas map[string]any // empty-field deltas from the matched template
	Result *Result        // nil when no match was found
}

// MatchContact attempts to link a contact to a company. Domain identifiers
// (website, email) are tried first since they are the strongest evidence;
// name matching is the fallback. An unresolved contact that at least named
// a company goes to pending_review so an operator can distinguish "no info"
// from "info present but unresolved".
func (r *Resolver) MatchContact(ctx context.Context, tenantID string, c *models.Contact, cache *Cache) (*MatchOutcome, error) {
	ctx, span := tracing.StartSpan(ctx, "resolver.Resolver.MatchContact")
	defer span.End()

	if c.Website == "" && c.Email == "" && c.Company == "" && c.CompanyLinkedIn == "" {
		return &MatchOutcome{Status: models.MatchStatusSkipped}, nil
	}

	// Domain-based pass
	result, err := r.ResolveCached(ctx, tenantID, models.ResolveRequest{
		Website:  c.Website,
		LinkedIn: c.CompanyLinkedIn,
		Email:    c.Email,
	}, cache)
	if err != nil {
		return nil, err
	}

	// Name-based pass
	if result == nil && c.Company != "" {
		result, err = r.ResolveCached(ctx, tenantID, models.ResolveRequest{
			CompanyName: c.Company,
		}, cache)
		if err != nil {
			return nil, err
		}
	}

	if result == nil {
		status := models.MatchStatusUnmatched
		if c.Company != "" {
			status = models.MatchStatusPendingReview
		}
		return &MatchOutcome{Status: status}, nil
	}

	return &MatchOutcome{
		Status: models.MatchStatusMatched,
		Deltas: EmptyFieldDeltas(c, result.Template),
		Result: result,
	}, nil
}
