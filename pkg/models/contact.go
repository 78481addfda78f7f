package models

import (
	"time"

	"github.com/lib/pq"
)

// MatchStatus values for a contact's company link
const (
	MatchStatusUnmatched     = "unmatched"
	MatchStatusMatched       = "matched"
	MatchStatusPendingReview = "pending_review"
	MatchStatusSkipped       = "skipped"
)

// Contact represents a scraped or imported prospect record.
// Identity fields (company, website, company_linkedin, email) may all be
// empty; the resolution engine works with whatever subset is present.
type Contact struct {
	ID        string `json:"id" db:"id"`
	TenantID  string `json:"tenant_id" db:"tenant_id"`
	FirstName string `json:"first_name,omitempty" db:"first_name"`
	LastName  string `json:"last_name,omitempty" db:"last_name"`
	Email     string `json:"email,omitempty" db:"email"`
	Title     string `json:"title,omitempty" db:"title"`

	// Company identity channels
	Company         string `json:"company,omitempty" db:"company"`
	Website         string `json:"website,omitempty" db:"website"`
	CompanyLinkedIn string `json:"company_linkedin,omitempty" db:"company_linkedin"`

	// Company attributes (the mergeable field set)
	Industry            string         `json:"industry,omitempty" db:"industry"`
	Employees           int            `json:"employees,omitempty" db:"employees"`
	EmployeeSizeBracket string         `json:"employee_size_bracket,omitempty" db:"employee_size_bracket"`
	AnnualRevenue       string         `json:"annual_revenue,omitempty" db:"annual_revenue"`
	Technologies        pq.StringArray `json:"technologies,omitempty" db:"technologies"`
	CompanyAddress      string         `json:"company_address,omitempty" db:"company_address"`
	CompanyCity         string         `json:"company_city,omitempty" db:"company_city"`
	CompanyState        string         `json:"company_state,omitempty" db:"company_state"`
	CompanyCountry      string         `json:"company_country,omitempty" db:"company_country"`
	CompanyAge          int            `json:"company_age,omitempty" db:"company_age"`
	TechnologyCategory  string         `json:"technology_category,omitempty" db:"technology_category"`
	BusinessType        string         `json:"business_type,omitempty" db:"business_type"`

	MatchStatus string     `json:"match_status" db:"match_status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// CompanyAttributes is a merged template of company fields. Only fields
// with a confident non-empty value are set; absence means "no confident
// value found", not "confidently empty".
type CompanyAttributes struct {
	Company             string   `json:"company,omitempty"`
	Website             string   `json:"website,omitempty"`
	CompanyLinkedIn     string   `json:"company_linkedin,omitempty"`
	Industry            string   `json:"industry,omitempty"`
	Employees           int      `json:"employees,omitempty"`
	EmployeeSizeBracket string   `json:"employee_size_bracket,omitempty"`
	AnnualRevenue       string   `json:"annual_revenue,omitempty"`
	Technologies        []string `json:"technologies,omitempty"`
	CompanyAddress      string   `json:"company_address,omitempty"`
	CompanyCity         string   `json:"company_city,omitempty"`
	CompanyState        string   `json:"company_state,omitempty"`
	CompanyCountry      string   `json:"company_country,omitempty"`
	CompanyAge          int      `json:"company_age,omitempty"`
	TechnologyCategory  string   `json:"technology_category,omitempty"`
	BusinessType        string   `json:"business_type,omitempty"`
}

// CreateContactRequest is the request for creating a contact
type CreateContactRequest struct {
	FirstName           string   `json:"first_name"`
	LastName            string   `json:"last_name"`
	Email               string   `json:"email" validate:"omitempty,email"`
	Title               string   `json:"title"`
	Company             string   `json:"company"`
	Website             string   `json:"website"`
	CompanyLinkedIn     string   `json:"company_linkedin"`
	Industry            string   `json:"industry"`
	Employees           int      `json:"employees" validate:"omitempty,gte=0"`
	EmployeeSizeBracket string   `json:"employee_size_bracket"`
	AnnualRevenue       string   `json:"annual_revenue"`
	Technologies        []string `json:"technologies"`
	CompanyAddress      string   `json:"company_address"`
	CompanyCity         string   `json:"company_city"`
	CompanyState        string   `json:"company_state"`
	CompanyCountry      string   `json:"company_country"`
	CompanyAge          int      `json:"company_age" validate:"omitempty,gte=0"`
	TechnologyCategory  string   `json:"technology_category"`
	BusinessType        string   `json:"business_type"`
}

// ContactListResponse is the response for listing contacts
type ContactListResponse struct {
	Items      []Contact `json:"items"`
	TotalCount int       `json:"total_count"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
}
