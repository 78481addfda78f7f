// Package fields defines the company attribute set and its scoring weights.
// Quality scoring, match scoring and merging all iterate the same table;
// the weights must never diverge between them or their scores stop being
// comparable.
package fields

import (
	"github.com/Ramsey-B/clover/pkg/models"
)

// Kind describes how a field's value contributes to richness scoring
type Kind int

const (
	// KindString scales contribution by string length
	KindString Kind = iota
	// KindList scales contribution by element count
	KindList
	// KindValue contributes full weight when set (numeric/bracket style fields)
	KindValue
)

// Value holds a single company attribute value. Which member is meaningful
// is selected by the owning descriptor's Kind.
type Value struct {
	Str  string
	List []string
	Num  int
}

// Empty reports whether the value is unset for the given kind
func (v Value) Empty(k Kind) bool {
	switch k {
	case KindList:
		return len(v.List) == 0
	case KindValue:
		return v.Num == 0 && v.Str == ""
	default:
		return v.Str == ""
	}
}

// Len returns the richness length for the value: string length for string
// kinds, element count for lists, 0 for plain values.
func (v Value) Len(k Kind) int {
	switch k {
	case KindList:
		return len(v.List)
	case KindString:
		return len(v.Str)
	default:
		return 0
	}
}

// Raw returns the underlying value for delta application
func (v Value) Raw(k Kind) any {
	switch k {
	case KindList:
		return v.List
	case KindValue:
		if v.Str != "" {
			return v.Str
		}
		return v.Num
	default:
		return v.Str
	}
}

// Descriptor is one entry in the shared field table
type Descriptor struct {
	Name   string // wire/JSON name
	Column string // database column
	Weight int    // importance weight, 2..8
	Kind   Kind

	FromContact  func(*models.Contact) Value
	FromTemplate func(*models.CompanyAttributes) Value
	Apply        func(*models.CompanyAttributes, Value)
}

// Company is the statically-defined list of company attribute fields.
// Iterate this instead of reflecting over record shapes.
var Company = []Descriptor{
	{
		Name: "company", Column: "company", Weight: 8, Kind: KindString,
		FromContact:  func(c *models.Contact) Value { return Value{Str: c.Company} },
		FromTemplate: func(t *models.CompanyAttributes) Value { return Value{Str: t.Company} },
		Apply:        func(t *models.CompanyAttributes, v Value) { t.Company = v.Str },
	},
	{
		Name: "website", Column: "website", Weight: 7, Kind: KindString,
		FromContact:  func(c *models.Contact) Value { return Value{Str: c.Website} },
		FromTemplate: func(t *models.CompanyAttributes) Value { return Value{Str: t.Website} },
		Apply:        func(t *models.CompanyAttributes, v Value) { t.Website = v.Str },
	},
	{
		Name: "company_linkedin", Column: "company_linkedin", Weight: 6, Kind: KindString,
		FromContact:  func(c *models.Contact) Value { return Value{Str: c.CompanyLinkedIn} },
		FromTemplate: func(t *models.CompanyAttributes) Value { return Value{Str: t.CompanyLinkedIn} },
		Apply:        func(t *models.CompanyAttributes, v Value) { t.CompanyLinkedIn = v.Str },
	},
	{
		Name: "industry", Column: "industry", Weight: 5, Kind: KindString,
		FromContact:  func(c *models.Contact) Value { return Value{Str: c.Industry} },
		FromTemplate: func(t *models.CompanyAttributes) Value { return Value{Str: t.Industry} },
		Apply:        func(t *models.CompanyAttributes, v Value) { t.Industry = v.Str },
	},
	{
		Name: "employees", Column: "employees", Weight: 4, Kind: KindValue,
		FromContact:  func(c *models.Contact) Value { return Value{Num: c.Employees} },
		FromTemplate: func(t *models.CompanyAttributes) Value { return Value{Num: t.Employees} },
		Apply:        func(t *models.CompanyAttributes, v Value) { t.Employees = v.Num },
	},
	{
		Name: "employee_size_bracket", Column: "employee_size_bracket", Weight: 3, Kind: KindValue,
		FromContact:  func(c *models.Contact) Value { return Value{Str: c.EmployeeSizeBracket} },
		FromTemplate: func(t *models.CompanyAttributes) Value { return Value{Str: t.EmployeeSizeBracket} },
		Apply:        func(t *models.CompanyAttributes, v Value) { t.EmployeeSizeBracket = v.Str },
	},
	{
		Name: "annual_revenue", Column: "annual_revenue", Weight: 5, Kind: KindValue,
		FromContact:  func(c *models.Contact) Value { return Value{Str: c.AnnualRevenue} },
		FromTemplate: func(t *models.CompanyAttributes) Value { return Value{Str: t.AnnualRevenue} },
		Apply:        func(t *models.CompanyAttributes, v Value) { t.AnnualRevenue = v.Str },
	},
	{
		Name: "technologies", Column: "technologies", Weight: 4, Kind: KindList,
		FromContact:  func(c *models.Contact) Value { return Value{List: c.Technologies} },
		FromTemplate: func(t *models.CompanyAttributes) Value { return Value{List: t.Technologies} },
		Apply:        func(t *models.CompanyAttributes, v Value) { t.Technologies = v.List },
	},
	{
		Name: "company_address", Column: "company_address", Weight: 3, Kind: KindString,
		FromContact:  func(c *models.Contact) Value { return Value{Str: c.CompanyAddress} },
		FromTemplate: func(t *models.CompanyAttributes) Value { return Value{Str: t.CompanyAddress} },
		Apply:        func(t *models.CompanyAttributes, v Value) { t.CompanyAddress = v.Str },
	},
	{
		Name: "company_city", Column: "company_city", Weight: 2, Kind: KindString,
		FromContact:  func(c *models.Contact) Value { return Value{Str: c.CompanyCity} },
		FromTemplate: func(t *models.CompanyAttributes) Value { return Value{Str: t.CompanyCity} },
		Apply:        func(t *models.CompanyAttributes, v Value) { t.CompanyCity = v.Str },
	},
	{
		Name: "company_state", Column: "company_state", Weight: 2, Kind: KindString,
		FromContact:  func(c *models.Contact) Value { return Value{Str: c.CompanyState} },
		FromTemplate: func(t *models.CompanyAttributes) Value { return Value{Str: t.CompanyState} },
		Apply:        func(t *models.CompanyAttributes, v Value) { t.CompanyState = v.Str },
	},
	{
		Name: "company_country", Column: "company_country", Weight: 2, Kind: KindString,
		FromContact:  func(c *models.Contact) Value { return Value{Str: c.CompanyCountry} },
		FromTemplate: func(t *models.CompanyAttributes) Value { return Value{Str: t.CompanyCountry} },
		Apply:        func(t *models.CompanyAttributes, v Value) { t.CompanyCountry = v.Str },
	},
	{
		Name: "company_age", Column: "company_age", Weight: 2, Kind: KindValue,
		FromContact:  func(c *models.Contact) Value { return Value{Num: c.CompanyAge} },
		FromTemplate: func(t *models.CompanyAttributes) Value { return Value{Num: t.CompanyAge} },
		Apply:        func(t *models.CompanyAttributes, v Value) { t.CompanyAge = v.Num },
	},
	{
		Name: "technology_category", Column: "technology_category", Weight: 3, Kind: KindString,
		FromContact:  func(c *models.Contact) Value { return Value{Str: c.TechnologyCategory} },
		FromTemplate: func(t *models.CompanyAttributes) Value { return Value{Str: t.TechnologyCategory} },
		Apply:        func(t *models.CompanyAttributes, v Value) { t.TechnologyCategory = v.Str },
	},
	{
		Name: "business_type", Column: "business_type", Weight: 3, Kind: KindString,
		FromContact:  func(c *models.Contact) Value { return Value{Str: c.BusinessType} },
		FromTemplate: func(t *models.CompanyAttributes) Value { return Value{Str: t.BusinessType} },
		Apply:        func(t *models.CompanyAttributes, v Value) { t.BusinessType = v.Str },
	},
}

// TotalWeight is the sum of all company field weights
var TotalWeight = func() int {
	total := 0
	for _, d := range Company {
		total += d.Weight
	}
	return total
}()

// Count returns the number of populated company fields on a template
func Count(t *models.CompanyAttributes) int {
	if t == nil {
		return 0
	}
	n := 0
	for _, d := range Company {
		if !d.FromTemplate(t).Empty(d.Kind) {
			n++
		}
	}
	return n
}

// Names returns the wire names of populated fields on a template
func Names(t *models.CompanyAttributes) []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(Company))
	for _, d := range Company {
		if !d.FromTemplate(t).Empty(d.Kind) {
			names = append(names, d.Name)
		}
	}
	return names
}
