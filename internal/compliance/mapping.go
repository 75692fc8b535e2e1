package compliance

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/cascade/pkg/query"
	"github.com/JaimeStill/cascade/pkg/repository"
)

var covenantProjection = query.
	NewProjectionMap("public", "covenants", "c").
	Project("id", "ID").
	Project("organization_id", "OrganizationID").
	Project("document_id", "DocumentID").
	Project("facility_id", "FacilityID").
	Project("name", "Name").
	Project("covenant_type", "CovenantType").
	Project("threshold", "Threshold").
	Project("test_frequency", "TestFrequency").
	Project("description", "Description").
	Project("confidence", "Confidence").
	Project("status", "Status").
	Project("created_at", "CreatedAt")

var obligationProjection = query.
	NewProjectionMap("public", "obligations", "o").
	Project("id", "ID").
	Project("organization_id", "OrganizationID").
	Project("document_id", "DocumentID").
	Project("facility_id", "FacilityID").
	Project("title", "Title").
	Project("obligation_type", "ObligationType").
	Project("frequency", "Frequency").
	Project("due_description", "DueDescription").
	Project("responsible_party", "ResponsibleParty").
	Project("confidence", "Confidence").
	Project("status", "Status").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

// Filters narrows covenant and obligation listings. Type matches
// covenant_type or obligation_type depending on the listing.
type Filters struct {
	OrganizationID *uuid.UUID
	DocumentID     *uuid.UUID
	FacilityID     *uuid.UUID
	Status         *string
	Type           *string
}

func (f Filters) apply(b *query.Builder, typeField string) *query.Builder {
	return b.
		WhereEquals("OrganizationID", f.OrganizationID).
		WhereEquals("DocumentID", f.DocumentID).
		WhereEquals("FacilityID", f.FacilityID).
		WhereEquals("Status", f.Status).
		WhereEquals(typeField, f.Type)
}

// FiltersFromQuery reads filters from URL query parameters. Malformed ids are ignored.
func FiltersFromQuery(values url.Values) Filters {
	f := Filters{
		OrganizationID: uuidParam(values, "organization_id"),
		DocumentID:     uuidParam(values, "document_id"),
		FacilityID:     uuidParam(values, "facility_id"),
	}
	if v := values.Get("status"); v != "" {
		f.Status = &v
	}
	if v := values.Get("type"); v != "" {
		f.Type = &v
	}
	return f
}

func uuidParam(values url.Values, key string) *uuid.UUID {
	id, err := uuid.Parse(values.Get(key))
	if err != nil {
		return nil
	}
	return &id
}

func scanFacility(s repository.Scanner) (Facility, error) {
	var f Facility
	err := s.Scan(
		&f.ID, &f.OrganizationID, &f.DocumentID,
		&f.Name, &f.Borrower, &f.FacilityType, &f.Currency,
		&f.CommitmentAmount, &f.MaturityDate, &f.CreatedAt,
	)
	return f, err
}

func scanCovenant(s repository.Scanner) (Covenant, error) {
	var c Covenant
	err := s.Scan(
		&c.ID, &c.OrganizationID, &c.DocumentID, &c.FacilityID,
		&c.Name, &c.CovenantType, &c.Threshold, &c.TestFrequency, &c.Description,
		&c.Confidence, &c.Status, &c.CreatedAt,
	)
	return c, err
}

func scanObligation(s repository.Scanner) (Obligation, error) {
	var o Obligation
	err := s.Scan(
		&o.ID, &o.OrganizationID, &o.DocumentID, &o.FacilityID,
		&o.Title, &o.ObligationType, &o.Frequency, &o.DueDescription, &o.ResponsibleParty,
		&o.Confidence, &o.Status, &o.CreatedAt,
	)
	return o, err
}
