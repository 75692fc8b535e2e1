package api

import (
	"github.com/JaimeStill/cascade/internal/automation"
	"github.com/JaimeStill/cascade/internal/compliance"
	"github.com/JaimeStill/cascade/internal/config"
	"github.com/JaimeStill/cascade/internal/deals"
	"github.com/JaimeStill/cascade/internal/documents"
	"github.com/JaimeStill/cascade/internal/esg"
	"github.com/JaimeStill/cascade/internal/trading"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents  documents.System
	Compliance compliance.System
	Deals      deals.System
	Trading    trading.System
	ESG        esg.System
	Automation automation.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, cfg *config.Config) *Domain {
	db := runtime.Database.Connection()

	docsSystem := documents.New(db, runtime.Storage, runtime.Logger, runtime.Pagination)
	complianceSystem := compliance.New(db, runtime.Logger, runtime.Pagination)
	dealsSystem := deals.New(db, runtime.Logger, runtime.Pagination)
	tradingSystem := trading.New(db, runtime.Logger, runtime.Pagination)
	esgSystem := esg.New(db, runtime.Logger, runtime.Pagination)

	orch := automation.NewOrchestrator(automation.OrchestratorConfig{
		Documents:  docsSystem,
		Extractor:  runtime.Extractor,
		Progress:   automation.NewMemoryStore(cfg.Automation.ProgressTTLDuration()),
		Classifier: automation.NewPolicyClassifier(automation.DefaultPolicy()),
		Results:    automation.NewResultStore(db),
		Modules: automation.DefaultModules(
			automation.NewComplianceProcessor(complianceSystem),
			automation.NewDealsProcessor(dealsSystem),
			automation.NewTradingProcessor(tradingSystem),
			automation.NewESGProcessor(esgSystem),
		),
		Defaults: automation.Defaults{
			ConfidenceThreshold:     cfg.Automation.Threshold(),
			AutoConfirmLowRiskItems: cfg.Automation.AutoConfirm(),
		},
		Logger: runtime.Logger,
	})

	return &Domain{
		Documents:  docsSystem,
		Compliance: complianceSystem,
		Deals:      dealsSystem,
		Trading:    tradingSystem,
		ESG:        esgSystem,
		Automation: automation.New(orch, cfg.Automation.BatchLimit, runtime.Logger),
	}
}
