package automation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cascade/internal/documents"
	"github.com/JaimeStill/cascade/internal/extraction"
)

// Progress checkpoints of the extraction stage.
const (
	percentLoading    = 5
	percentExtracting = 10
	percentExtracted  = 30
	percentComplete   = 100
)

// DocumentSource resolves the document a run operates on.
type DocumentSource interface {
	Find(ctx context.Context, id uuid.UUID) (*documents.Document, error)
}

// Module is one step of the fan-out. Modules run in slice order; a module is
// skipped when it is disabled or its sub-package is absent.
type Module struct {
	Stage   Stage
	Phase   Phase
	Step    string
	Start   int
	Done    int
	Enabled func(RunConfig) bool
	Present func(*Cascade) bool
	// Run stores the module result on res even when it returns an error.
	Run func(ctx context.Context, c *Cascade, cfg RunConfig, res *Result) error
}

// DefaultModules orders the four domain processors with their checkpoints.
func DefaultModules(
	comp *ComplianceProcessor,
	deal *DealsProcessor,
	trade *TradingProcessor,
	sust *ESGProcessor,
) []Module {
	return []Module{
		{
			Stage:   StageCompliance,
			Phase:   PhaseProcessingCompliance,
			Step:    "Creating compliance records",
			Start:   40,
			Done:    50,
			Enabled: func(cfg RunConfig) bool { return cfg.EnableCompliance },
			Present: func(c *Cascade) bool { return c.Compliance != nil },
			Run: func(ctx context.Context, c *Cascade, cfg RunConfig, res *Result) error {
				r, err := comp.Process(ctx, c, cfg)
				res.Compliance = &r
				return err
			},
		},
		{
			Stage:   StageDeals,
			Phase:   PhaseProcessingDeals,
			Step:    "Creating deal terms",
			Start:   60,
			Done:    70,
			Enabled: func(cfg RunConfig) bool { return cfg.EnableDeals },
			Present: func(c *Cascade) bool { return c.Deals != nil },
			Run: func(ctx context.Context, c *Cascade, cfg RunConfig, res *Result) error {
				r, err := deal.Process(ctx, c, cfg)
				res.Deals = &r
				return err
			},
		},
		{
			Stage:   StageTrading,
			Phase:   PhaseProcessingTrading,
			Step:    "Creating trading checklist",
			Start:   80,
			Done:    85,
			Enabled: func(cfg RunConfig) bool { return cfg.EnableTrading },
			Present: func(c *Cascade) bool { return c.Trading != nil },
			Run: func(ctx context.Context, c *Cascade, cfg RunConfig, res *Result) error {
				r, err := trade.Process(ctx, c, cfg)
				res.Trading = &r
				return err
			},
		},
		{
			Stage:   StageESG,
			Phase:   PhaseProcessingESG,
			Step:    "Creating ESG records",
			Start:   90,
			Done:    95,
			Enabled: func(cfg RunConfig) bool { return cfg.EnableESG },
			Present: func(c *Cascade) bool { return c.ESG != nil },
			Run: func(ctx context.Context, c *Cascade, cfg RunConfig, res *Result) error {
				r, err := sust.Process(ctx, c, cfg)
				res.ESG = &r
				return err
			},
		},
	}
}

// Orchestrator executes automation runs. Runs for different documents may
// proceed concurrently; a document has at most one active run.
type Orchestrator struct {
	documents  DocumentSource
	extractor  extraction.Extractor
	progress   ProgressStore
	classifier Classifier
	results    ResultStore
	modules    []Module
	defaults   Defaults
	logger     *slog.Logger

	mu     sync.Mutex
	active map[uuid.UUID]struct{}
}

type OrchestratorConfig struct {
	Documents  DocumentSource
	Extractor  extraction.Extractor
	Progress   ProgressStore
	Classifier Classifier
	Results    ResultStore
	Modules    []Module
	Defaults   Defaults
	Logger     *slog.Logger
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	return &Orchestrator{
		documents:  cfg.Documents,
		extractor:  cfg.Extractor,
		progress:   cfg.Progress,
		classifier: cfg.Classifier,
		results:    cfg.Results,
		modules:    cfg.Modules,
		defaults:   cfg.Defaults,
		logger:     cfg.Logger.With("component", "orchestrator"),
		active:     make(map[uuid.UUID]struct{}),
	}
}

// Run automates one document. The returned error is set only when the run
// could not start; every started run yields a Result, including failed runs.
// A started run ignores cancellation of ctx.
func (o *Orchestrator) Run(ctx context.Context, documentID uuid.UUID, overrides Overrides) (*Result, error) {
	if err := overrides.Validate(); err != nil {
		return nil, err
	}

	doc, err := o.documents.Find(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("find document %s: %w", documentID, err)
	}
	if !doc.ExtractionReady() {
		return nil, fmt.Errorf("document %s: %w", documentID, ErrDocumentNotReady)
	}

	if !o.acquire(documentID) {
		return nil, fmt.Errorf("document %s: %w", documentID, ErrRunInProgress)
	}
	defer o.release(documentID)

	ctx = context.WithoutCancel(ctx)
	cfg := NewRunConfig(doc.ID, doc.OrganizationID, o.defaults, overrides)
	return o.execute(ctx, doc, cfg), nil
}

func (o *Orchestrator) execute(ctx context.Context, doc *documents.Document, cfg RunConfig) *Result {
	start := time.Now()
	id := doc.ID
	log := o.logger.With("document_id", id)

	res := &Result{
		DocumentID: id,
		Errors:     []AutomationError{},
	}

	o.progress.Init(id)
	o.progress.Update(id, Progress{PercentComplete: percentLoading, CurrentStep: "Loading document text"})
	o.progress.Update(id, Progress{PercentComplete: percentExtracting, CurrentStep: "Extracting document terms"})

	raw, err := o.extractor.Extract(ctx, doc.RawText)
	if err != nil {
		res.Errors = append(res.Errors, o.classifier.Classify(StageExtraction, err))
		res.AutomationStatus = ComputeStatus(res.Errors)
		res.ProcessingTimeMs = time.Since(start).Milliseconds()
		res.CompletedAt = time.Now().UTC()
		o.progress.Update(id, Progress{
			Phase:       PhaseFailed,
			CurrentStep: "Extraction failed",
			Outcome:     StatusFailed,
		})
		log.Error("extraction failed", "error", err)
		return res
	}

	res.ExtractionResult = raw
	cascade := BuildCascade(raw, cfg)
	res.Cascade = cascade

	steps := 1
	processed := []Stage{}
	o.progress.Update(id, Progress{
		PercentComplete: percentExtracted,
		CurrentStep:     "Extraction complete",
		StepsCompleted:  steps,
	})

	for _, m := range o.modules {
		if !m.Enabled(cfg) || !m.Present(cascade) {
			continue
		}

		o.progress.Update(id, Progress{Phase: m.Phase, PercentComplete: m.Start, CurrentStep: m.Step})

		err := m.Run(ctx, cascade, cfg, res)
		steps++
		processed = append(processed, m.Stage)
		o.progress.Update(id, Progress{
			PercentComplete:  m.Done,
			StepsCompleted:   steps,
			ModulesProcessed: processed,
		})

		if err != nil {
			ae := o.classifier.Classify(m.Stage, err)
			res.Errors = append(res.Errors, ae)
			log.Warn("module failed", "module", m.Stage, "recoverable", ae.Recoverable, "error", err)
			if !ae.Recoverable {
				break
			}
		}
	}

	res.AutomationStatus = ComputeStatus(res.Errors)
	res.ProcessingTimeMs = time.Since(start).Milliseconds()
	res.CompletedAt = time.Now().UTC()

	if err := o.results.Save(ctx, res); err != nil {
		res.Errors = append(res.Errors, o.classifier.Classify(StageFinalization, err))
		res.AutomationStatus = ComputeStatus(res.Errors)
		o.progress.Update(id, Progress{
			Phase:       terminalPhase(res.AutomationStatus),
			CurrentStep: "Saving result failed",
			Outcome:     res.AutomationStatus,
		})
		log.Error("save lifecycle result failed", "error", err)
		return res
	}

	final := Progress{
		Phase:       terminalPhase(res.AutomationStatus),
		CurrentStep: "Automation complete",
		Outcome:     res.AutomationStatus,
	}
	if final.Phase == PhaseCompleted {
		final.PercentComplete = percentComplete
	}
	o.progress.Update(id, final)

	log.Info(
		"automation finished",
		"status", res.AutomationStatus,
		"errors", len(res.Errors),
		"modules", len(processed),
		"duration_ms", res.ProcessingTimeMs,
	)
	return res
}

func terminalPhase(s Status) Phase {
	if s == StatusFailed {
		return PhaseFailed
	}
	return PhaseCompleted
}

func (o *Orchestrator) acquire(id uuid.UUID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.active[id]; ok {
		return false
	}
	o.active[id] = struct{}{}
	return true
}

func (o *Orchestrator) release(id uuid.UUID) {
	o.mu.Lock()
	delete(o.active, id)
	o.mu.Unlock()
}
