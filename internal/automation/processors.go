package automation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/cascade/internal/compliance"
	"github.com/JaimeStill/cascade/internal/deals"
	"github.com/JaimeStill/cascade/internal/esg"
	"github.com/JaimeStill/cascade/internal/trading"
)

// ComplianceStore is the subset of compliance.System a processor writes through.
type ComplianceStore interface {
	CreateFacility(ctx context.Context, cmd compliance.CreateFacilityCommand) (*compliance.Facility, error)
	CreateCovenant(ctx context.Context, cmd compliance.CreateCovenantCommand) (*compliance.Covenant, error)
	CreateObligation(ctx context.Context, cmd compliance.CreateObligationCommand) (*compliance.Obligation, error)
}

type DealStore interface {
	CreateCategory(ctx context.Context, cmd deals.CreateCategoryCommand) (*deals.Category, error)
	CreateTerm(ctx context.Context, cmd deals.CreateTermCommand) (*deals.Term, error)
}

type TradingStore interface {
	CreateFacility(ctx context.Context, cmd trading.CreateFacilityCommand) (*trading.Facility, error)
	CreateChecklistItem(ctx context.Context, cmd trading.CreateChecklistItemCommand) (*trading.ChecklistItem, error)
}

type ESGStore interface {
	CreateFacility(ctx context.Context, cmd esg.CreateFacilityCommand) (*esg.Facility, error)
	CreateKPI(ctx context.Context, cmd esg.CreateKPICommand) (*esg.KPI, error)
	CreateTarget(ctx context.Context, cmd esg.CreateTargetCommand) (*esg.Target, error)
	CreateProceedsCategory(ctx context.Context, cmd esg.CreateProceedsCategoryCommand) (*esg.ProceedsCategory, error)
}

// Each processor writes parent records before children and stops at the first
// failed write, returning the counts reached so far with the error.

type ComplianceProcessor struct {
	store ComplianceStore
}

func NewComplianceProcessor(store ComplianceStore) *ComplianceProcessor {
	return &ComplianceProcessor{store: store}
}

func (p *ComplianceProcessor) Process(ctx context.Context, c *Cascade, cfg RunConfig) (ComplianceResult, error) {
	var res ComplianceResult
	if c == nil || c.Compliance == nil {
		return res, nil
	}
	facts := c.Compliance

	var facilityID *uuid.UUID
	if f := facts.Facility; f != nil {
		facility, err := p.store.CreateFacility(ctx, compliance.CreateFacilityCommand{
			OrganizationID:   cfg.OrganizationID,
			DocumentID:       cfg.DocumentID,
			Name:             f.Name,
			Borrower:         f.Borrower,
			FacilityType:     f.FacilityType,
			Currency:         f.Currency,
			CommitmentAmount: f.CommitmentAmount,
			MaturityDate:     f.MaturityDate,
		})
		if err != nil {
			return res, fmt.Errorf("create compliance facility: %w", err)
		}
		res.FacilityCreated = true
		res.FacilityID = &facility.ID
		facilityID = &facility.ID
	}

	for _, cov := range facts.Covenants {
		pending := needsReview(cov.Confidence, cov.RequiresReview, cfg)
		if _, err := p.store.CreateCovenant(ctx, compliance.CreateCovenantCommand{
			OrganizationID: cfg.OrganizationID,
			DocumentID:     cfg.DocumentID,
			FacilityID:     facilityID,
			Name:           cov.Name,
			CovenantType:   cov.CovenantType,
			Threshold:      cov.Threshold,
			TestFrequency:  cov.TestFrequency,
			Description:    cov.Description,
			Confidence:     cov.Confidence,
			Status:         reviewStatus(pending, cfg),
		}); err != nil {
			return res, fmt.Errorf("create covenant %q: %w", cov.Name, err)
		}
		res.CovenantsCreated++
		if pending {
			res.ItemsPendingReview++
		}
	}

	for _, ob := range facts.Obligations {
		pending := needsReview(ob.Confidence, ob.RequiresReview, cfg)
		if _, err := p.store.CreateObligation(ctx, compliance.CreateObligationCommand{
			OrganizationID:   cfg.OrganizationID,
			DocumentID:       cfg.DocumentID,
			FacilityID:       facilityID,
			Title:            ob.Title,
			ObligationType:   ob.ObligationType,
			Frequency:        ob.Frequency,
			DueDescription:   ob.DueDescription,
			ResponsibleParty: ob.ResponsibleParty,
			Confidence:       ob.Confidence,
			Status:           reviewStatus(pending, cfg),
		}); err != nil {
			return res, fmt.Errorf("create obligation %q: %w", ob.Title, err)
		}
		res.ObligationsCreated++
		if pending {
			res.ItemsPendingReview++
		}
	}

	return res, nil
}

func needsReview(confidence float64, flagged bool, cfg RunConfig) bool {
	return flagged || confidence < cfg.ConfidenceThreshold
}

func reviewStatus(pending bool, cfg RunConfig) compliance.ItemStatus {
	switch {
	case pending:
		return compliance.StatusPendingReview
	case cfg.AutoConfirmLowRiskItems:
		return compliance.StatusConfirmed
	default:
		return compliance.StatusDraft
	}
}

type DealsProcessor struct {
	store DealStore
}

func NewDealsProcessor(store DealStore) *DealsProcessor {
	return &DealsProcessor{store: store}
}

func (p *DealsProcessor) Process(ctx context.Context, c *Cascade, cfg RunConfig) (DealsResult, error) {
	var res DealsResult
	if c == nil || c.Deals == nil {
		return res, nil
	}

	categories := make(map[string]uuid.UUID, len(c.Deals.Categories))
	for _, cat := range c.Deals.Categories {
		created, err := p.store.CreateCategory(ctx, deals.CreateCategoryCommand{
			OrganizationID: cfg.OrganizationID,
			DocumentID:     cfg.DocumentID,
			Name:           cat.Name,
			DisplayOrder:   cat.DisplayOrder,
		})
		if err != nil {
			return res, fmt.Errorf("create deal category %q: %w", cat.Name, err)
		}
		categories[cat.Name] = created.ID
		res.CategoriesCreated++
	}

	for _, term := range c.Deals.Terms {
		categoryID, ok := categories[term.Category]
		if !ok {
			return res, fmt.Errorf("deal term %q: unknown category %q", term.Key, term.Category)
		}
		if _, err := p.store.CreateTerm(ctx, deals.CreateTermCommand{
			OrganizationID: cfg.OrganizationID,
			DocumentID:     cfg.DocumentID,
			CategoryID:     categoryID,
			TermKey:        term.Key,
			Label:          term.Label,
			Value:          term.Value,
			Confidence:     term.Confidence,
		}); err != nil {
			return res, fmt.Errorf("create deal term %q: %w", term.Key, err)
		}
		res.TermsCreated++
	}

	return res, nil
}

type TradingProcessor struct {
	store TradingStore
}

func NewTradingProcessor(store TradingStore) *TradingProcessor {
	return &TradingProcessor{store: store}
}

func (p *TradingProcessor) Process(ctx context.Context, c *Cascade, cfg RunConfig) (TradingResult, error) {
	var res TradingResult
	if c == nil || c.Trading == nil {
		return res, nil
	}

	var facilityID *uuid.UUID
	if f := c.Trading.Facility; f != nil {
		facility, err := p.store.CreateFacility(ctx, trading.CreateFacilityCommand{
			OrganizationID:            cfg.OrganizationID,
			DocumentID:                cfg.DocumentID,
			Name:                      f.Name,
			Borrower:                  f.Borrower,
			Transferability:           f.Transferability,
			AssignmentConsentRequired: f.AssignmentConsentRequired,
			MinimumTransferAmount:     f.MinimumTransferAmount,
		})
		if err != nil {
			return res, fmt.Errorf("create trading facility: %w", err)
		}
		res.FacilityCreated = true
		res.FacilityID = &facility.ID
		facilityID = &facility.ID
	}

	for _, item := range c.Trading.ChecklistItems {
		if _, err := p.store.CreateChecklistItem(ctx, trading.CreateChecklistItemCommand{
			OrganizationID: cfg.OrganizationID,
			DocumentID:     cfg.DocumentID,
			FacilityID:     facilityID,
			Category:       item.Category,
			Title:          item.Title,
			Description:    item.Description,
			Priority:       item.Priority,
		}); err != nil {
			return res, fmt.Errorf("create checklist item %q: %w", item.Title, err)
		}
		res.ChecklistItemsCreated++
	}

	return res, nil
}

type ESGProcessor struct {
	store ESGStore
}

func NewESGProcessor(store ESGStore) *ESGProcessor {
	return &ESGProcessor{store: store}
}

func (p *ESGProcessor) Process(ctx context.Context, c *Cascade, cfg RunConfig) (ESGResult, error) {
	var res ESGResult
	if c == nil || c.ESG == nil {
		return res, nil
	}
	facts := c.ESG

	facility, err := p.store.CreateFacility(ctx, esg.CreateFacilityCommand{
		OrganizationID:      cfg.OrganizationID,
		DocumentID:          cfg.DocumentID,
		Name:                facts.FacilityName,
		LoanType:            facts.LoanType,
		HasMarginAdjustment: facts.HasMarginAdjustment,
		MaxAdjustmentBps:    facts.MaxAdjustmentBps,
	})
	if err != nil {
		return res, fmt.Errorf("create esg facility: %w", err)
	}
	res.FacilityCreated = true
	res.FacilityID = &facility.ID

	for _, kpi := range facts.KPIs {
		created, err := p.store.CreateKPI(ctx, esg.CreateKPICommand{
			OrganizationID: cfg.OrganizationID,
			DocumentID:     cfg.DocumentID,
			FacilityID:     facility.ID,
			Name:           kpi.Name,
			Category:       kpi.Category,
			Unit:           kpi.Unit,
			BaselineValue:  kpi.BaselineValue,
			BaselineYear:   kpi.BaselineYear,
			Confidence:     kpi.Confidence,
		})
		if err != nil {
			return res, fmt.Errorf("create kpi %q: %w", kpi.Name, err)
		}
		res.KPIsCreated++

		for _, target := range kpi.Targets {
			if _, err := p.store.CreateTarget(ctx, esg.CreateTargetCommand{
				KPIID:           created.ID,
				TargetYear:      target.Year,
				TargetValue:     target.Value,
				MarginImpactBps: target.MarginImpactBps,
			}); err != nil {
				return res, fmt.Errorf("create target %d for kpi %q: %w", target.Year, kpi.Name, err)
			}
			res.TargetsCreated++
		}
	}

	for _, cat := range facts.ProceedsCategories {
		if _, err := p.store.CreateProceedsCategory(ctx, esg.CreateProceedsCategoryCommand{
			FacilityID:        facility.ID,
			Name:              cat.Name,
			AllocationPercent: cat.AllocationPercent,
		}); err != nil {
			return res, fmt.Errorf("create proceeds category %q: %w", cat.Name, err)
		}
		res.ProceedsCategoriesCreated++
	}

	return res, nil
}
