package resolver

import (
	"context"

	"github.com/Ramsey-B/clover/internal/tracing"
	"github.com/Ramsey-B/clover/pkg/models"
)

// AutoFillContact resolves a template from the contact's own identifiers
// and returns deltas for its empty company fields only. A nil delta map
// with a nil error means nothing could be filled.
func (r *Resolver) AutoFillContact(ctx context.Context, tenantID string, c *models.Contact, cache *Cache) (map[string]any, *Result, error) {
	ctx, span := tracing.StartSpan(ctx, "resolver.Resolver.AutoFillContact")
	defer span.End()

	result, err := r.ResolveCached(ctx, tenantID, models.ResolveRequest{
		CompanyName: c.Company,
		Website:     c.Website,
		LinkedIn:    c.CompanyLinkedIn,
		Email:       c.Email,
	}, cache)
	if err != nil {
		return nil, nil, err
	}
	if result == nil {
		return nil, nil, nil
	}

	deltas := EmptyFieldDeltas(c, result.Template)
	if len(deltas) == 0 {
		return nil, result, nil
	}
	return deltas, result, nil
}
