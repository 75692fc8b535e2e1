// Package trading stores secondary-trading profiles of facilities and the
// due-diligence checklist a buyer works through before a transfer.
package trading

import (
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Facility is the tradability profile of a facility.
type Facility struct {
	ID                        uuid.UUID `json:"id"`
	OrganizationID            uuid.UUID `json:"organization_id"`
	DocumentID                uuid.UUID `json:"document_id"`
	Name                      string    `json:"name"`
	Borrower                  string    `json:"borrower"`
	Transferability           string    `json:"transferability"`
	AssignmentConsentRequired bool      `json:"assignment_consent_required"`
	MinimumTransferAmount     *float64  `json:"minimum_transfer_amount"`
	CreatedAt                 time.Time `json:"created_at"`
}

type ChecklistItem struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	DocumentID     uuid.UUID  `json:"document_id"`
	FacilityID     *uuid.UUID `json:"facility_id"`
	Category       string     `json:"category"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Priority       Priority   `json:"priority"`
	Completed      bool       `json:"completed"`
	CreatedAt      time.Time  `json:"created_at"`
}

type CreateFacilityCommand struct {
	OrganizationID            uuid.UUID
	DocumentID                uuid.UUID
	Name                      string
	Borrower                  string
	Transferability           string
	AssignmentConsentRequired bool
	MinimumTransferAmount     *float64
}

type CreateChecklistItemCommand struct {
	OrganizationID uuid.UUID
	DocumentID     uuid.UUID
	FacilityID     *uuid.UUID
	Category       string
	Title          string
	Description    string
	Priority       Priority
}
