package deals

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/cascade/pkg/query"
	"github.com/JaimeStill/cascade/pkg/repository"
)

var termProjection = query.
	NewProjectionMap("public", "deal_terms", "t").
	Project("id", "ID").
	Project("organization_id", "OrganizationID").
	Project("document_id", "DocumentID").
	Project("category_id", "CategoryID").
	Project("term_key", "TermKey").
	Project("label", "Label").
	Project("value", "Value").
	Project("confidence", "Confidence").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "CreatedAt"}

type Filters struct {
	OrganizationID *uuid.UUID
	DocumentID     *uuid.UUID
	CategoryID     *uuid.UUID
	TermKey        *string
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("OrganizationID", f.OrganizationID).
		WhereEquals("DocumentID", f.DocumentID).
		WhereEquals("CategoryID", f.CategoryID).
		WhereEquals("TermKey", f.TermKey)
}

func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	for key, dst := range map[string]**uuid.UUID{
		"organization_id": &f.OrganizationID,
		"document_id":     &f.DocumentID,
		"category_id":     &f.CategoryID,
	} {
		if id, err := uuid.Parse(values.Get(key)); err == nil {
			*dst = &id
		}
	}
	if v := values.Get("term_key"); v != "" {
		f.TermKey = &v
	}
	return f
}

func scanCategory(s repository.Scanner) (Category, error) {
	var c Category
	err := s.Scan(&c.ID, &c.OrganizationID, &c.DocumentID, &c.Name, &c.DisplayOrder, &c.CreatedAt)
	return c, err
}

func scanTerm(s repository.Scanner) (Term, error) {
	var t Term
	err := s.Scan(
		&t.ID, &t.OrganizationID, &t.DocumentID, &t.CategoryID,
		&t.TermKey, &t.Label, &t.Value, &t.Confidence, &t.CreatedAt,
	)
	return t, err
}
