// Package contact persists contact records
package contact

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"
	"github.com/lib/pq"

	"github.com/Ramsey-B/clover/internal/database"
	"github.com/Ramsey-B/clover/internal/tracing"
	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/models"
)

var contactColumns = []string{
	"id", "tenant_id", "first_name", "last_name", "email", "title",
	"company", "website", "company_linkedin",
	"industry", "employees", "employee_size_bracket", "annual_revenue",
	"technologies", "company_address", "company_city", "company_state",
	"company_country", "company_age", "technology_category", "business_type",
	"match_status", "created_at", "updated_at", "deleted_at",
}

// Repository handles contact persistence
type Repository struct {
	db            database.DB
	logger        ectologger.Logger
	maxCandidates int
}

// NewRepository creates a new contact repository. maxCandidates caps the
// identifier search result set.
func NewRepository(db database.DB, logger ectologger.Logger, maxCandidates int) *Repository {
	if maxCandidates <= 0 {
		maxCandidates = 100
	}
	return &Repository{
		db:            db,
		logger:        logger,
		maxCandidates: maxCandidates,
	}
}

// Create creates a new contact
func (r *Repository) Create(ctx context.Context, tenantID string, req models.CreateContactRequest) (*models.Contact, error) {
	ctx, span := tracing.StartSpan(ctx, "contact.Repository.Create")
	defer span.End()

	now := time.Now().UTC()
	contact := &models.Contact{
		ID:                  uuid.New().String(),
		TenantID:            tenantID,
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Email:               req.Email,
		Title:               req.Title,
		Company:             req.Company,
		Website:             req.Website,
		CompanyLinkedIn:     req.CompanyLinkedIn,
		Industry:            req.Industry,
		Employees:           req.Employees,
		EmployeeSizeBracket: req.EmployeeSizeBracket,
		AnnualRevenue:       req.AnnualRevenue,
		Technologies:        req.Technologies,
		CompanyAddress:      req.CompanyAddress,
		CompanyCity:         req.CompanyCity,
		CompanyState:        req.CompanyState,
		CompanyCountry:      req.CompanyCountry,
		CompanyAge:          req.CompanyAge,
		TechnologyCategory:  req.TechnologyCategory,
		BusinessType:        req.BusinessType,
		MatchStatus:         models.MatchStatusUnmatched,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("contacts")
	sb.Cols(
		"id", "tenant_id", "first_name", "last_name", "email", "title",
		"company", "website", "company_linkedin",
		"industry", "employees", "employee_size_bracket", "annual_revenue",
		"technologies", "company_address", "company_city", "company_state",
		"company_country", "company_age", "technology_category", "business_type",
		"match_status", "created_at", "updated_at",
	)
	sb.Values(
		contact.ID, contact.TenantID, contact.FirstName, contact.LastName, contact.Email, contact.Title,
		contact.Company, contact.Website, contact.CompanyLinkedIn,
		contact.Industry, contact.Employees, contact.EmployeeSizeBracket, contact.AnnualRevenue,
		contact.Technologies, contact.CompanyAddress, contact.CompanyCity, contact.CompanyState,
		contact.CompanyCountry, contact.CompanyAge, contact.TechnologyCategory, contact.BusinessType,
		contact.MatchStatus, contact.CreatedAt, contact.UpdatedAt,
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create contact")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create contact")
	}

	return contact, nil
}

// Get retrieves a contact by ID
func (r *Repository) Get(ctx context.Context, tenantID, id string) (*models.Contact, error) {
	ctx, span := tracing.StartSpan(ctx, "contact.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(contactColumns...)
	sb.From("contacts")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var contact models.Contact
	if err := r.db.GetContext(ctx, &contact, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("contact %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get contact")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get contact")
	}

	return &contact, nil
}

// List retrieves a page of contacts for a tenant
func (r *Repository) List(ctx context.Context, tenantID string, page, pageSize int) (*models.ContactListResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "contact.Repository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	countSb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	countSb.Select("COUNT(*)")
	countSb.From("contacts")
	countSb.Where(
		countSb.Equal("tenant_id", tenantID),
		countSb.IsNull("deleted_at"),
	)

	query, args := countSb.Build()
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count contacts")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list contacts")
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(contactColumns...)
	sb.From("contacts")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)
	sb.OrderBy("created_at DESC")
	sb.Limit(pageSize)
	sb.Offset((page - 1) * pageSize)

	query, args = sb.Build()
	var contacts []models.Contact
	if err := r.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list contacts")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list contacts")
	}

	return &models.ContactListResponse{
		Items:      contacts,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// FindByAnyIdentifier returns contacts matching ANY of the query's
// identifiers, most-recent-first, capped at maxCandidates. The match is
// deliberately broad (substring on normalized identifiers); the scoring
// engine does the precise ranking.
func (r *Repository) FindByAnyIdentifier(ctx context.Context, tenantID string, q matching.Query) ([]*models.Contact, error) {
	ctx, span := tracing.StartSpan(ctx, "contact.Repository.FindByAnyIdentifier")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(contactColumns...)
	sb.From("contacts")

	var conds []string
	if name := q.NormalizedName(); name != "" {
		conds = append(conds, sb.ILike("company", "%"+name+"%"))
	}
	if site := q.NormalizedWebsite(); site != "" {
		conds = append(conds, sb.ILike("website", "%"+site+"%"))
	}
	if handle := q.NormalizedHandle(); handle != "" {
		conds = append(conds, sb.ILike("company_linkedin", "%"+handle+"%"))
	}
	if q.EmailDomain != "" {
		conds = append(conds, sb.ILike("email", "%@"+q.EmailDomain))
	}
	if len(conds) == 0 {
		return nil, nil
	}

	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
		sb.Or(conds...),
	)
	sb.OrderBy("created_at DESC")
	sb.Limit(r.maxCandidates)

	query, args := sb.Build()
	var contacts []*models.Contact
	if err := r.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to find contacts by identifier")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to find candidate contacts")
	}

	return contacts, nil
}

// ApplyFieldDeltas updates only the given columns on a contact. Values are
// column -> raw value; list values are adapted for the driver.
func (r *Repository) ApplyFieldDeltas(ctx context.Context, tenantID, id string, deltas map[string]any) error {
	ctx, span := tracing.StartSpan(ctx, "contact.Repository.ApplyFieldDeltas")
	defer span.End()

	if len(deltas) == 0 {
		return nil
	}

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("contacts")

	assignments := make([]string, 0, len(deltas)+1)
	for column, value := range deltas {
		if !isContactColumn(column) {
			return httperror.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown contact field %q", column))
		}
		if list, ok := value.([]string); ok {
			value = pq.StringArray(list)
		}
		assignments = append(assignments, sb.Assign(column, value))
	}
	assignments = append(assignments, sb.Assign("updated_at", time.Now().UTC()))
	sb.Set(assignments...)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"contact_id": id}).Error("Failed to apply field deltas")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update contact")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("contact %s not found", id))
	}

	return nil
}

// MarkMatchStatus sets the contact's match status
func (r *Repository) MarkMatchStatus(ctx context.Context, tenantID, id, status string) error {
	ctx, span := tracing.StartSpan(ctx, "contact.Repository.MarkMatchStatus")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("contacts")
	sb.Set(
		sb.Assign("match_status", status),
		sb.Assign("updated_at", time.Now().UTC()),
	)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to mark match status")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update match status")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("contact %s not found", id))
	}

	return nil
}

// ListForBulkMatch returns contacts without a confirmed company link,
// most-recent-first. limit <= 0 means all eligible.
func (r *Repository) ListForBulkMatch(ctx context.Context, tenantID string, limit int) ([]*models.Contact, error) {
	ctx, span := tracing.StartSpan(ctx, "contact.Repository.ListForBulkMatch")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(contactColumns...)
	sb.From("contacts")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
		sb.In("match_status", models.MatchStatusUnmatched, models.MatchStatusPendingReview),
	)
	sb.OrderBy("created_at DESC")
	if limit > 0 {
		sb.Limit(limit)
	}

	query, args := sb.Build()
	var contacts []*models.Contact
	if err := r.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list contacts for bulk match")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list contacts")
	}

	return contacts, nil
}

// ListForAutoFill returns contacts carrying at least one company identifier,
// most-recent-first. limit <= 0 means all eligible.
func (r *Repository) ListForAutoFill(ctx context.Context, tenantID string, limit int) ([]*models.Contact, error) {
	ctx, span := tracing.StartSpan(ctx, "contact.Repository.ListForAutoFill")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(contactColumns...)
	sb.From("contacts")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
		"(company <> '' OR website <> '' OR company_linkedin <> '' OR email <> '')",
	)
	sb.OrderBy("created_at DESC")
	if limit > 0 {
		sb.Limit(limit)
	}

	query, args := sb.Build()
	var contacts []*models.Contact
	if err := r.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list contacts for auto-fill")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list contacts")
	}

	return contacts, nil
}

func isContactColumn(column string) bool {
	for _, c := range contactColumns {
		if strings.EqualFold(c, column) {
			return true
		}
	}
	return false
}
