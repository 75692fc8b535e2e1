package automation

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/JaimeStill/cascade/internal/esg"
	"github.com/JaimeStill/cascade/internal/extraction"
	"github.com/JaimeStill/cascade/internal/trading"
)

// Cascade holds the per-module sub-packages derived from one extraction.
// A nil sub-package means the extraction yielded nothing for that module.
type Cascade struct {
	Compliance *ComplianceFacts `json:"compliance,omitempty"`
	Deals      *DealFacts       `json:"deals,omitempty"`
	Trading    *TradingFacts    `json:"trading,omitempty"`
	ESG        *ESGFacts        `json:"esg,omitempty"`
}

type ComplianceFacts struct {
	Facility    *extraction.FacilityTerms `json:"facility,omitempty"`
	Covenants   []extraction.Covenant     `json:"covenants"`
	Obligations []extraction.Obligation   `json:"obligations"`
}

type DealFacts struct {
	Categories []DealCategory `json:"categories"`
	Terms      []DealTerm     `json:"terms"`
}

type DealCategory struct {
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

// DealTerm belongs to the category named by Category.
type DealTerm struct {
	Category   string  `json:"category"`
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

type TradingFacts struct {
	Facility       *TradingProfile `json:"facility,omitempty"`
	ChecklistItems []ChecklistItem `json:"checklist_items"`
}

type TradingProfile struct {
	Name                      string   `json:"name"`
	Borrower                  string   `json:"borrower"`
	Transferability           string   `json:"transferability"`
	AssignmentConsentRequired bool     `json:"assignment_consent_required"`
	MinimumTransferAmount     *float64 `json:"minimum_transfer_amount,omitempty"`
}

type ChecklistItem struct {
	Category    string           `json:"category"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Priority    trading.Priority `json:"priority"`
}

type ESGFacts struct {
	FacilityName        string                        `json:"facility_name"`
	LoanType            esg.LoanType                  `json:"loan_type"`
	HasMarginAdjustment bool                          `json:"has_margin_adjustment"`
	MaxAdjustmentBps    *float64                      `json:"max_adjustment_bps,omitempty"`
	KPIs                []extraction.KPI              `json:"kpis"`
	ProceedsCategories  []extraction.ProceedsCategory `json:"proceeds_categories"`
}

const (
	categoryFacility  = "facility"
	categoryPricing   = "pricing"
	categoryCovenants = "covenants"
	categoryESG       = "esg"
	categoryTransfer  = "transfer"
)

var dealCategoryOrder = []string{
	categoryFacility,
	categoryPricing,
	categoryCovenants,
	categoryESG,
	categoryTransfer,
}

// BuildCascade reshapes an extraction result into module sub-packages. It
// performs no I/O and does not modify raw.
func BuildCascade(raw *extraction.Result, cfg RunConfig) *Cascade {
	if raw == nil {
		return &Cascade{}
	}
	esgFacts := buildESG(raw)
	return &Cascade{
		Compliance: buildCompliance(raw),
		Deals:      buildDeals(raw, esgFacts),
		Trading:    buildTrading(raw, esgFacts, cfg),
		ESG:        esgFacts,
	}
}

// ClassifyLoanType decides how sustainability features attach to a loan.
func ClassifyLoanType(hasMarginAdjustment, hasProceeds bool) esg.LoanType {
	switch {
	case hasMarginAdjustment:
		return esg.LoanSustainabilityLinked
	case hasProceeds:
		return esg.LoanGreen
	default:
		return esg.LoanESGLinkedHybrid
	}
}

const unnamedFacility = "Unnamed facility"

// facilityName falls back to a placeholder when the facility name was not extracted.
func facilityName(f *extraction.FacilityTerms) string {
	if f == nil || strings.TrimSpace(f.Name) == "" {
		return unnamedFacility
	}
	return f.Name
}

func buildCompliance(raw *extraction.Result) *ComplianceFacts {
	if raw.Facility == nil && len(raw.Covenants) == 0 && len(raw.Obligations) == 0 {
		return nil
	}
	facts := &ComplianceFacts{
		Covenants:   slices.Clone(raw.Covenants),
		Obligations: slices.Clone(raw.Obligations),
	}
	if raw.Facility != nil {
		f := *raw.Facility
		f.Name = facilityName(raw.Facility)
		facts.Facility = &f
	}
	return facts
}

func buildESG(raw *extraction.Result) *ESGFacts {
	if raw.ESG == nil {
		return nil
	}
	e := raw.ESG
	hasMargin := e.MarginAdjustment != nil
	if len(e.KPIs) == 0 && len(e.ProceedsCategories) == 0 && !hasMargin {
		return nil
	}

	facts := &ESGFacts{
		FacilityName:        facilityName(raw.Facility),
		LoanType:            ClassifyLoanType(hasMargin, len(e.ProceedsCategories) > 0),
		HasMarginAdjustment: hasMargin,
		KPIs:                make([]extraction.KPI, 0, len(e.KPIs)),
		ProceedsCategories:  slices.Clone(e.ProceedsCategories),
	}
	if hasMargin {
		bps := e.MarginAdjustment.MaxAdjustmentBps
		facts.MaxAdjustmentBps = &bps
	}
	for _, kpi := range e.KPIs {
		kpi.Targets = slices.Clone(kpi.Targets)
		facts.KPIs = append(facts.KPIs, kpi)
	}
	if facts.ProceedsCategories == nil {
		facts.ProceedsCategories = []extraction.ProceedsCategory{}
	}
	return facts
}

type termSet struct {
	terms []DealTerm
}

func (s *termSet) add(category, key, label, value string, confidence float64) {
	if strings.TrimSpace(value) == "" {
		return
	}
	s.terms = append(s.terms, DealTerm{
		Category:   category,
		Key:        category + "." + key,
		Label:      label,
		Value:      value,
		Confidence: confidence,
	})
}

func buildDeals(raw *extraction.Result, esgFacts *ESGFacts) *DealFacts {
	var s termSet

	if f := raw.Facility; f != nil {
		c := f.Confidence
		s.add(categoryFacility, "name", "Facility Name", f.Name, c)
		s.add(categoryFacility, "borrower", "Borrower", f.Borrower, c)
		s.add(categoryFacility, "agent", "Agent", f.Agent, c)
		s.add(categoryFacility, "facility_type", "Facility Type", f.FacilityType, c)
		s.add(categoryFacility, "currency", "Currency", f.Currency, c)
		s.add(categoryFacility, "commitment_amount", "Commitment Amount", formatAmount(f.CommitmentAmount), c)
		s.add(categoryFacility, "maturity_date", "Maturity Date", f.MaturityDate, c)
		s.add(categoryFacility, "governing_law", "Governing Law", f.GoverningLaw, c)
		s.add(categoryPricing, "interest_basis", "Interest Basis", f.InterestBasis, c)
		s.add(categoryPricing, "margin_bps", "Margin", formatBps(f.MarginBps), c)
	}

	for _, cov := range raw.Covenants {
		value := cov.Threshold
		if value == "" {
			value = cov.Description
		}
		s.add(categoryCovenants, slug(cov.Name), cov.Name, value, cov.Confidence)
	}

	if esgFacts != nil {
		s.add(categoryESG, "loan_type", "Loan Type", string(esgFacts.LoanType), raw.Confidence)
		s.add(categoryESG, "max_margin_adjustment", "Maximum Margin Adjustment", formatBps(esgFacts.MaxAdjustmentBps), raw.Confidence)
		for _, kpi := range esgFacts.KPIs {
			s.add(categoryESG, "kpi."+slug(kpi.Name), kpi.Name, kpiSummary(kpi), kpi.Confidence)
		}
	}

	if t := raw.Trading; t != nil {
		c := t.Confidence
		s.add(categoryTransfer, "transferability", "Transferability", t.Transferability, c)
		s.add(categoryTransfer, "assignment_consent_required", "Assignment Consent Required", yesNo(t.AssignmentConsentRequired), c)
		s.add(categoryTransfer, "minimum_transfer_amount", "Minimum Transfer Amount", formatAmount(t.MinimumTransferAmount), c)
		s.add(categoryTransfer, "disqualified_lender_list", "Disqualified Lender List", yesNo(t.DisqualifiedLenderList), c)
	}

	if len(s.terms) == 0 {
		return nil
	}

	facts := &DealFacts{Terms: s.terms}
	for i, name := range dealCategoryOrder {
		if slices.ContainsFunc(s.terms, func(t DealTerm) bool { return t.Category == name }) {
			facts.Categories = append(facts.Categories, DealCategory{Name: name, DisplayOrder: i + 1})
		}
	}
	return facts
}

func buildTrading(raw *extraction.Result, esgFacts *ESGFacts, cfg RunConfig) *TradingFacts {
	if raw.Facility == nil && raw.Trading == nil {
		return nil
	}

	facts := &TradingFacts{ChecklistItems: []ChecklistItem{}}
	add := func(category, title, description string, priority trading.Priority) {
		facts.ChecklistItems = append(facts.ChecklistItems, ChecklistItem{
			Category:    category,
			Title:       title,
			Description: description,
			Priority:    priority,
		})
	}

	if raw.Confidence < cfg.ConfidenceThreshold {
		add("documentation", "Verify extracted terms against the executed agreement",
			fmt.Sprintf("Extraction confidence %.2f is below the review threshold %.2f", raw.Confidence, cfg.ConfidenceThreshold),
			trading.PriorityHigh)
	}

	if f := raw.Facility; f != nil {
		profile := &TradingProfile{
			Name:            facilityName(f),
			Borrower:        f.Borrower,
			Transferability: "unknown",
		}
		if t := raw.Trading; t != nil {
			if t.Transferability != "" {
				profile.Transferability = t.Transferability
			}
			profile.AssignmentConsentRequired = t.AssignmentConsentRequired
			profile.MinimumTransferAmount = t.MinimumTransferAmount
		}
		facts.Facility = profile

		add("documentation", "Obtain executed facility agreement and amendments", "", trading.PriorityHigh)
		if f.Borrower != "" {
			add("kyc", "Complete KYC on "+f.Borrower, "", trading.PriorityMedium)
		}
	}

	if t := raw.Trading; t != nil {
		if t.AssignmentConsentRequired {
			add(categoryTransfer, "Obtain borrower consent to assignment", "", trading.PriorityHigh)
		}
		if strings.EqualFold(t.Transferability, "restricted") {
			add(categoryTransfer, "Review transfer restrictions", "", trading.PriorityHigh)
		}
		if t.MinimumTransferAmount != nil {
			add(categoryTransfer, "Confirm minimum transfer amount",
				"Minimum transfer amount "+formatAmount(t.MinimumTransferAmount), trading.PriorityMedium)
		}
		if t.DisqualifiedLenderList {
			add(categoryTransfer, "Screen buyer against the disqualified lender list", "", trading.PriorityHigh)
		}
	}

	for _, cov := range raw.Covenants {
		priority := trading.PriorityLow
		if strings.EqualFold(cov.CovenantType, "financial") {
			priority = trading.PriorityMedium
		}
		add(categoryCovenants, "Confirm compliance with "+cov.Name, cov.Threshold, priority)
	}

	if esgFacts != nil && esgFacts.HasMarginAdjustment {
		add(categoryESG, "Review sustainability-linked margin provisions",
			"Maximum adjustment "+formatBps(esgFacts.MaxAdjustmentBps), trading.PriorityLow)
	}

	return facts
}

func kpiSummary(kpi extraction.KPI) string {
	if len(kpi.Targets) == 0 {
		return kpi.Category
	}
	last := slices.MaxFunc(kpi.Targets, func(a, b extraction.Target) int { return a.Year - b.Year })
	value := strconv.FormatFloat(last.Value, 'f', -1, 64)
	if kpi.Unit != "" {
		value += " " + kpi.Unit
	}
	return fmt.Sprintf("%s by %d", value, last.Year)
}

func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func formatBps(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + " bps"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func slug(s string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			underscore = false
		case !underscore && b.Len() > 0:
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
