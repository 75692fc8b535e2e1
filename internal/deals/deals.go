// Package deals stores deal-room term sheets: categories of negotiated terms
// seeded from a document's extracted facility terms.
package deals

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	DocumentID     uuid.UUID `json:"document_id"`
	Name           string    `json:"name"`
	DisplayOrder   int       `json:"display_order"`
	CreatedAt      time.Time `json:"created_at"`
}

type Term struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	DocumentID     uuid.UUID `json:"document_id"`
	CategoryID     uuid.UUID `json:"category_id"`
	TermKey        string    `json:"term_key"`
	Label          string    `json:"label"`
	Value          string    `json:"value"`
	Confidence     float64   `json:"confidence"`
	CreatedAt      time.Time `json:"created_at"`
}

type CreateCategoryCommand struct {
	OrganizationID uuid.UUID
	DocumentID     uuid.UUID
	Name           string
	DisplayOrder   int
}

type CreateTermCommand struct {
	OrganizationID uuid.UUID
	DocumentID     uuid.UUID
	CategoryID     uuid.UUID
	TermKey        string
	Label          string
	Value          string
	Confidence     float64
}
