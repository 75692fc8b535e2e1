package trading

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/cascade/pkg/query"
	"github.com/JaimeStill/cascade/pkg/repository"
)

var checklistProjection = query.
	NewProjectionMap("public", "trading_checklist_items", "i").
	Project("id", "ID").
	Project("organization_id", "OrganizationID").
	Project("document_id", "DocumentID").
	Project("facility_id", "FacilityID").
	Project("category", "Category").
	Project("title", "Title").
	Project("description", "Description").
	Project("priority", "Priority").
	Project("completed", "Completed").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "CreatedAt"}

type Filters struct {
	DocumentID *uuid.UUID
	FacilityID *uuid.UUID
	Category   *string
	Priority   *string
	Completed  *bool
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("DocumentID", f.DocumentID).
		WhereEquals("FacilityID", f.FacilityID).
		WhereEquals("Category", f.Category).
		WhereEquals("Priority", f.Priority).
		WhereEquals("Completed", f.Completed)
}

func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if id, err := uuid.Parse(values.Get("document_id")); err == nil {
		f.DocumentID = &id
	}
	if id, err := uuid.Parse(values.Get("facility_id")); err == nil {
		f.FacilityID = &id
	}
	if v := values.Get("category"); v != "" {
		f.Category = &v
	}
	if v := values.Get("priority"); v != "" {
		f.Priority = &v
	}
	if b, err := strconv.ParseBool(values.Get("completed")); err == nil {
		f.Completed = &b
	}
	return f
}

func scanFacility(s repository.Scanner) (Facility, error) {
	var f Facility
	err := s.Scan(
		&f.ID, &f.OrganizationID, &f.DocumentID, &f.Name, &f.Borrower,
		&f.Transferability, &f.AssignmentConsentRequired, &f.MinimumTransferAmount, &f.CreatedAt,
	)
	return f, err
}

func scanChecklistItem(s repository.Scanner) (ChecklistItem, error) {
	var i ChecklistItem
	err := s.Scan(
		&i.ID, &i.OrganizationID, &i.DocumentID, &i.FacilityID,
		&i.Category, &i.Title, &i.Description, &i.Priority, &i.Completed, &i.CreatedAt,
	)
	return i, err
}
