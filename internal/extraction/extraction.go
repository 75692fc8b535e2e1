// Package extraction defines the structured facts produced by the external
// extraction service and an HTTP client for calling it.
package extraction

import "context"

// Extractor turns a document's raw text into structured facts.
type Extractor interface {
	Extract(ctx context.Context, rawText string) (*Result, error)
}

// Result is the raw extraction payload for one document.
type Result struct {
	DocumentType string         `json:"document_type"`
	Confidence   float64        `json:"confidence"`
	Facility     *FacilityTerms `json:"facility,omitempty"`
	Covenants    []Covenant     `json:"covenants"`
	Obligations  []Obligation   `json:"obligations"`
	ESG          *ESGFacts      `json:"esg,omitempty"`
	Trading      *TradingFacts  `json:"trading,omitempty"`
}

// FacilityTerms are the headline commercial terms of the facility.
type FacilityTerms struct {
	Name             string   `json:"name"`
	Borrower         string   `json:"borrower"`
	Agent            string   `json:"agent,omitempty"`
	FacilityType     string   `json:"facility_type,omitempty"`
	Currency         string   `json:"currency,omitempty"`
	CommitmentAmount *float64 `json:"commitment_amount,omitempty"`
	MaturityDate     string   `json:"maturity_date,omitempty"`
	InterestBasis    string   `json:"interest_basis,omitempty"`
	MarginBps        *float64 `json:"margin_bps,omitempty"`
	GoverningLaw     string   `json:"governing_law,omitempty"`
	Confidence       float64  `json:"confidence"`
}

// Covenant is a covenant candidate.
type Covenant struct {
	Name           string  `json:"name"`
	CovenantType   string  `json:"covenant_type"`
	Threshold      string  `json:"threshold,omitempty"`
	TestFrequency  string  `json:"test_frequency,omitempty"`
	Description    string  `json:"description,omitempty"`
	Confidence     float64 `json:"confidence"`
	RequiresReview bool    `json:"requires_review"`
}

// Obligation is a reporting, notice, or payment obligation candidate.
type Obligation struct {
	Title            string  `json:"title"`
	ObligationType   string  `json:"obligation_type"`
	Frequency        string  `json:"frequency,omitempty"`
	DueDescription   string  `json:"due_description,omitempty"`
	ResponsibleParty string  `json:"responsible_party,omitempty"`
	Confidence       float64 `json:"confidence"`
	RequiresReview   bool    `json:"requires_review"`
}

// ESGFacts holds sustainability features of the facility.
type ESGFacts struct {
	KPIs               []KPI              `json:"kpis"`
	ProceedsCategories []ProceedsCategory `json:"proceeds_categories"`
	MarginAdjustment   *MarginAdjustment  `json:"margin_adjustment,omitempty"`
}

type KPI struct {
	Name           string   `json:"name"`
	Category       string   `json:"category,omitempty"`
	Unit           string   `json:"unit,omitempty"`
	BaselineValue  *float64 `json:"baseline_value,omitempty"`
	BaselineYear   *int     `json:"baseline_year,omitempty"`
	Targets        []Target `json:"targets"`
	Confidence     float64  `json:"confidence"`
	RequiresReview bool     `json:"requires_review"`
}

type Target struct {
	Year            int      `json:"year"`
	Value           float64  `json:"value"`
	MarginImpactBps *float64 `json:"margin_impact_bps,omitempty"`
}

// ProceedsCategory is a use-of-proceeds category of a green loan.
type ProceedsCategory struct {
	Name              string   `json:"name"`
	AllocationPercent *float64 `json:"allocation_percent,omitempty"`
}

// MarginAdjustment describes a KPI-linked margin ratchet.
type MarginAdjustment struct {
	MaxAdjustmentBps float64 `json:"max_adjustment_bps"`
	Description      string  `json:"description,omitempty"`
}

// TradingFacts are the transferability terms relevant to secondary trading.
type TradingFacts struct {
	Transferability           string   `json:"transferability"`
	AssignmentConsentRequired bool     `json:"assignment_consent_required"`
	MinimumTransferAmount     *float64 `json:"minimum_transfer_amount,omitempty"`
	DisqualifiedLenderList    bool     `json:"disqualified_lender_list"`
	Confidence                float64  `json:"confidence"`
}
