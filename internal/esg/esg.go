// Package esg stores sustainability features of loan facilities: the loan
// classification, KPIs with their targets, and green use-of-proceeds categories.
package esg

import (
	"time"

	"github.com/google/uuid"
)

// LoanType classifies how sustainability features attach to a loan.
type LoanType string

const (
	LoanSustainabilityLinked LoanType = "sustainability_linked"
	LoanGreen                LoanType = "green_loan"
	LoanESGLinkedHybrid      LoanType = "esg_linked_hybrid"
)

type Facility struct {
	ID                  uuid.UUID `json:"id"`
	OrganizationID      uuid.UUID `json:"organization_id"`
	DocumentID          uuid.UUID `json:"document_id"`
	Name                string    `json:"name"`
	LoanType            LoanType  `json:"loan_type"`
	HasMarginAdjustment bool      `json:"has_margin_adjustment"`
	MaxAdjustmentBps    *float64  `json:"max_adjustment_bps"`
	CreatedAt           time.Time `json:"created_at"`
}

type KPI struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	DocumentID     uuid.UUID `json:"document_id"`
	FacilityID     uuid.UUID `json:"facility_id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Unit           string    `json:"unit"`
	BaselineValue  *float64  `json:"baseline_value"`
	BaselineYear   *int      `json:"baseline_year"`
	Confidence     float64   `json:"confidence"`
	CreatedAt      time.Time `json:"created_at"`
}

type Target struct {
	ID              uuid.UUID `json:"id"`
	KPIID           uuid.UUID `json:"kpi_id"`
	TargetYear      int       `json:"target_year"`
	TargetValue     float64   `json:"target_value"`
	MarginImpactBps *float64  `json:"margin_impact_bps"`
	CreatedAt       time.Time `json:"created_at"`
}

type ProceedsCategory struct {
	ID                uuid.UUID `json:"id"`
	FacilityID        uuid.UUID `json:"facility_id"`
	Name              string    `json:"name"`
	AllocationPercent *float64  `json:"allocation_percent"`
	CreatedAt         time.Time `json:"created_at"`
}

type CreateFacilityCommand struct {
	OrganizationID      uuid.UUID
	DocumentID          uuid.UUID
	Name                string
	LoanType            LoanType
	HasMarginAdjustment bool
	MaxAdjustmentBps    *float64
}

type CreateKPICommand struct {
	OrganizationID uuid.UUID
	DocumentID     uuid.UUID
	FacilityID     uuid.UUID
	Name           string
	Category       string
	Unit           string
	BaselineValue  *float64
	BaselineYear   *int
	Confidence     float64
}

type CreateTargetCommand struct {
	KPIID           uuid.UUID
	TargetYear      int
	TargetValue     float64
	MarginImpactBps *float64
}

type CreateProceedsCategoryCommand struct {
	FacilityID        uuid.UUID
	Name              string
	AllocationPercent *float64
}
