// Package compliance stores the facility, covenant, and obligation records a
// compliance team monitors after a loan closes.
package compliance

import (
	"time"

	"github.com/google/uuid"
)

// ItemStatus is the review state of a covenant or obligation.
type ItemStatus string

const (
	StatusDraft         ItemStatus = "draft"
	StatusPendingReview ItemStatus = "pending_review"
	StatusConfirmed     ItemStatus = "confirmed"
)

type Facility struct {
	ID               uuid.UUID `json:"id"`
	OrganizationID   uuid.UUID `json:"organization_id"`
	DocumentID       uuid.UUID `json:"document_id"`
	Name             string    `json:"name"`
	Borrower         string    `json:"borrower"`
	FacilityType     string    `json:"facility_type"`
	Currency         string    `json:"currency"`
	CommitmentAmount *float64  `json:"commitment_amount"`
	MaturityDate     string    `json:"maturity_date"`
	CreatedAt        time.Time `json:"created_at"`
}

type Covenant struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	DocumentID     uuid.UUID  `json:"document_id"`
	FacilityID     *uuid.UUID `json:"facility_id"`
	Name           string     `json:"name"`
	CovenantType   string     `json:"covenant_type"`
	Threshold      string     `json:"threshold"`
	TestFrequency  string     `json:"test_frequency"`
	Description    string     `json:"description"`
	Confidence     float64    `json:"confidence"`
	Status         ItemStatus `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
}

type Obligation struct {
	ID               uuid.UUID  `json:"id"`
	OrganizationID   uuid.UUID  `json:"organization_id"`
	DocumentID       uuid.UUID  `json:"document_id"`
	FacilityID       *uuid.UUID `json:"facility_id"`
	Title            string     `json:"title"`
	ObligationType   string     `json:"obligation_type"`
	Frequency        string     `json:"frequency"`
	DueDescription   string     `json:"due_description"`
	ResponsibleParty string     `json:"responsible_party"`
	Confidence       float64    `json:"confidence"`
	Status           ItemStatus `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
}

type CreateFacilityCommand struct {
	OrganizationID   uuid.UUID
	DocumentID       uuid.UUID
	Name             string
	Borrower         string
	FacilityType     string
	Currency         string
	CommitmentAmount *float64
	MaturityDate     string
}

type CreateCovenantCommand struct {
	OrganizationID uuid.UUID
	DocumentID     uuid.UUID
	FacilityID     *uuid.UUID
	Name           string
	CovenantType   string
	Threshold      string
	TestFrequency  string
	Description    string
	Confidence     float64
	Status         ItemStatus
}

type CreateObligationCommand struct {
	OrganizationID   uuid.UUID
	DocumentID       uuid.UUID
	FacilityID       *uuid.UUID
	Title            string
	ObligationType   string
	Frequency        string
	DueDescription   string
	ResponsibleParty string
	Confidence       float64
	Status           ItemStatus
}
