package esg

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/cascade/pkg/query"
	"github.com/JaimeStill/cascade/pkg/repository"
)

var kpiProjection = query.
	NewProjectionMap("public", "esg_kpis", "k").
	Project("id", "ID").
	Project("organization_id", "OrganizationID").
	Project("document_id", "DocumentID").
	Project("facility_id", "FacilityID").
	Project("name", "Name").
	Project("category", "Category").
	Project("unit", "Unit").
	Project("baseline_value", "BaselineValue").
	Project("baseline_year", "BaselineYear").
	Project("confidence", "Confidence").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "Name"}

type Filters struct {
	OrganizationID *uuid.UUID
	DocumentID     *uuid.UUID
	FacilityID     *uuid.UUID
	Category       *string
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("OrganizationID", f.OrganizationID).
		WhereEquals("DocumentID", f.DocumentID).
		WhereEquals("FacilityID", f.FacilityID).
		WhereEquals("Category", f.Category)
}

func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if id, err := uuid.Parse(values.Get("organization_id")); err == nil {
		f.OrganizationID = &id
	}
	if id, err := uuid.Parse(values.Get("document_id")); err == nil {
		f.DocumentID = &id
	}
	if id, err := uuid.Parse(values.Get("facility_id")); err == nil {
		f.FacilityID = &id
	}
	if v := values.Get("category"); v != "" {
		f.Category = &v
	}
	return f
}

func scanFacility(s repository.Scanner) (Facility, error) {
	var f Facility
	err := s.Scan(
		&f.ID, &f.OrganizationID, &f.DocumentID, &f.Name,
		&f.LoanType, &f.HasMarginAdjustment, &f.MaxAdjustmentBps, &f.CreatedAt,
	)
	return f, err
}

func scanKPI(s repository.Scanner) (KPI, error) {
	var k KPI
	err := s.Scan(
		&k.ID, &k.OrganizationID, &k.DocumentID, &k.FacilityID,
		&k.Name, &k.Category, &k.Unit, &k.BaselineValue, &k.BaselineYear,
		&k.Confidence, &k.CreatedAt,
	)
	return k, err
}

func scanTarget(s repository.Scanner) (Target, error) {
	var t Target
	err := s.Scan(&t.ID, &t.KPIID, &t.TargetYear, &t.TargetValue, &t.MarginImpactBps, &t.CreatedAt)
	return t, err
}

func scanProceedsCategory(s repository.Scanner) (ProceedsCategory, error) {
	var p ProceedsCategory
	err := s.Scan(&p.ID, &p.FacilityID, &p.Name, &p.AllocationPercent, &p.CreatedAt)
	return p, err
}
