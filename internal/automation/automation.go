// Package automation fans a document's extraction result out into the
// compliance, deals, trading, and ESG domains. A run extracts the document,
// reshapes the facts into a cascade package, runs each enabled module
// processor in order, classifies failures, and persists one consolidated
// result per document.
package automation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cascade/internal/extraction"
)

// Stage names the part of a run an error is attributed to.
type Stage string

const (
	StageExtraction   Stage = "extraction"
	StageCompliance   Stage = "compliance"
	StageDeals        Stage = "deals"
	StageTrading      Stage = "trading"
	StageESG          Stage = "esg"
	StageFinalization Stage = "finalization"
)

// Phase is the progress phase reported to pollers.
type Phase string

const (
	PhaseExtracting           Phase = "extracting"
	PhaseProcessingCompliance Phase = "processing_compliance"
	PhaseProcessingDeals      Phase = "processing_deals"
	PhaseProcessingTrading    Phase = "processing_trading"
	PhaseProcessingESG        Phase = "processing_esg"
	PhaseCompleted            Phase = "completed"
	PhaseFailed               Phase = "failed"
)

// Terminal reports whether no further progress updates follow p.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseFailed
}

// Status is the outcome of a finished run.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPartial   Status = "partial"
	StatusFailed    Status = "failed"
)

// RunState is what status pollers see: a run outcome, or not_started and
// in_progress.
type RunState string

const (
	StateNotStarted RunState = "not_started"
	StateInProgress RunState = "in_progress"
	StateCompleted  RunState = RunState(StatusCompleted)
	StatePartial    RunState = RunState(StatusPartial)
	StateFailed     RunState = RunState(StatusFailed)
)

// RunConfig is fixed for the lifetime of one run.
type RunConfig struct {
	DocumentID              uuid.UUID `json:"document_id"`
	OrganizationID          uuid.UUID `json:"organization_id"`
	EnableCompliance        bool      `json:"enable_compliance"`
	EnableDeals             bool      `json:"enable_deals"`
	EnableTrading           bool      `json:"enable_trading"`
	EnableESG               bool      `json:"enable_esg"`
	AutoConfirmLowRiskItems bool      `json:"auto_confirm_low_risk_items"`
	ConfidenceThreshold     float64   `json:"confidence_threshold"`
}

// Defaults supplies RunConfig values a caller does not override.
type Defaults struct {
	ConfidenceThreshold     float64
	AutoConfirmLowRiskItems bool
}

// Overrides are caller-supplied RunConfig changes. Nil fields keep defaults;
// every module is enabled unless explicitly disabled.
type Overrides struct {
	EnableCompliance        *bool    `json:"enable_compliance,omitempty"`
	EnableDeals             *bool    `json:"enable_deals,omitempty"`
	EnableTrading           *bool    `json:"enable_trading,omitempty"`
	EnableESG               *bool    `json:"enable_esg,omitempty"`
	AutoConfirmLowRiskItems *bool    `json:"auto_confirm_low_risk_items,omitempty"`
	ConfidenceThreshold     *float64 `json:"confidence_threshold,omitempty"`
}

// Validate rejects a confidence threshold outside [0, 1].
func (o Overrides) Validate() error {
	if t := o.ConfidenceThreshold; t != nil && (*t < 0 || *t > 1) {
		return fmt.Errorf("%w: confidence_threshold %v outside [0, 1]", ErrInvalidOverrides, *t)
	}
	return nil
}

// NewRunConfig builds the configuration of one run.
func NewRunConfig(documentID, organizationID uuid.UUID, d Defaults, o Overrides) RunConfig {
	cfg := RunConfig{
		DocumentID:              documentID,
		OrganizationID:          organizationID,
		EnableCompliance:        boolOr(o.EnableCompliance, true),
		EnableDeals:             boolOr(o.EnableDeals, true),
		EnableTrading:           boolOr(o.EnableTrading, true),
		EnableESG:               boolOr(o.EnableESG, true),
		AutoConfirmLowRiskItems: boolOr(o.AutoConfirmLowRiskItems, d.AutoConfirmLowRiskItems),
		ConfidenceThreshold:     d.ConfidenceThreshold,
	}
	if o.ConfidenceThreshold != nil {
		cfg.ConfidenceThreshold = *o.ConfidenceThreshold
	}
	return cfg
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

// Result is the consolidated outcome of one run. A module result is set only
// when the module was enabled and its cascade sub-package was present.
type Result struct {
	DocumentID       uuid.UUID          `json:"document_id"`
	ExtractionResult *extraction.Result `json:"extraction_result"`
	Cascade          *Cascade           `json:"cascade,omitempty"`
	Compliance       *ComplianceResult  `json:"compliance,omitempty"`
	Deals            *DealsResult       `json:"deals,omitempty"`
	Trading          *TradingResult     `json:"trading,omitempty"`
	ESG              *ESGResult         `json:"esg,omitempty"`
	AutomationStatus Status             `json:"automation_status"`
	Errors           []AutomationError  `json:"errors"`
	ProcessingTimeMs int64              `json:"processing_time_ms"`
	CompletedAt      time.Time          `json:"completed_at"`
}

type ComplianceResult struct {
	FacilityCreated    bool       `json:"facility_created"`
	FacilityID         *uuid.UUID `json:"facility_id,omitempty"`
	CovenantsCreated   int        `json:"covenants_created"`
	ObligationsCreated int        `json:"obligations_created"`
	ItemsPendingReview int        `json:"items_pending_review"`
}

type DealsResult struct {
	CategoriesCreated int `json:"categories_created"`
	TermsCreated      int `json:"terms_created"`
}

type TradingResult struct {
	FacilityCreated       bool       `json:"facility_created"`
	FacilityID            *uuid.UUID `json:"facility_id,omitempty"`
	ChecklistItemsCreated int        `json:"checklist_items_created"`
}

type ESGResult struct {
	FacilityCreated           bool       `json:"facility_created"`
	FacilityID                *uuid.UUID `json:"facility_id,omitempty"`
	KPIsCreated               int        `json:"kpis_created"`
	TargetsCreated            int        `json:"targets_created"`
	ProceedsCategoriesCreated int        `json:"proceeds_categories_created"`
}

// StatusResponse answers a status poll.
type StatusResponse struct {
	DocumentID       uuid.UUID `json:"document_id"`
	Status           RunState  `json:"status"`
	Phase            Phase     `json:"phase,omitempty"`
	PercentComplete  int       `json:"percent_complete"`
	CurrentStep      string    `json:"current_step,omitempty"`
	StepsCompleted   int       `json:"steps_completed"`
	ModulesProcessed []Stage   `json:"modules_processed"`
	Result           *Result   `json:"result,omitempty"`
}

type BatchRequest struct {
	DocumentIDs []uuid.UUID `json:"document_ids"`
	Overrides   Overrides   `json:"overrides"`
}

// BatchResult is the outcome of one document in a batch. Error is set when
// the run was rejected before it started.
type BatchResult struct {
	DocumentID uuid.UUID `json:"document_id"`
	Result     *Result   `json:"result,omitempty"`
	Error      string    `json:"error,omitempty"`
}
