package automation_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/cascade/internal/automation"
	"github.com/JaimeStill/cascade/internal/compliance"
	"github.com/JaimeStill/cascade/internal/deals"
	"github.com/JaimeStill/cascade/internal/documents"
	"github.com/JaimeStill/cascade/internal/esg"
	"github.com/JaimeStill/cascade/internal/extraction"
	"github.com/JaimeStill/cascade/internal/trading"
)

var errWrite = errors.New("write failed")

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

// recorder counts writes per operation and fails the operation named in
// fail once its count reaches failAt (1-based).
type recorder struct {
	mu     sync.Mutex
	calls  map[string]int
	fail   string
	failAt int
}

func (r *recorder) record(op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = make(map[string]int)
	}
	r.calls[op]++
	if op == r.fail && r.calls[op] >= max(r.failAt, 1) {
		return errWrite
	}
	return nil
}

func (r *recorder) count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[op]
}

func (r *recorder) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		n += c
	}
	return n
}

type fakeCompliance struct {
	recorder
	cmu       sync.Mutex
	covenants []compliance.CreateCovenantCommand
}

func (f *fakeCompliance) CreateFacility(_ context.Context, cmd compliance.CreateFacilityCommand) (*compliance.Facility, error) {
	if err := f.record("facility"); err != nil {
		return nil, err
	}
	if cmd.Name == "" {
		return nil, compliance.ErrInvalidInput
	}
	return &compliance.Facility{ID: uuid.New(), Name: cmd.Name}, nil
}

func (f *fakeCompliance) CreateCovenant(_ context.Context, cmd compliance.CreateCovenantCommand) (*compliance.Covenant, error) {
	if err := f.record("covenant"); err != nil {
		return nil, err
	}
	f.cmu.Lock()
	f.covenants = append(f.covenants, cmd)
	f.cmu.Unlock()
	return &compliance.Covenant{ID: uuid.New(), Name: cmd.Name, Status: cmd.Status}, nil
}

func (f *fakeCompliance) CreateObligation(_ context.Context, cmd compliance.CreateObligationCommand) (*compliance.Obligation, error) {
	if err := f.record("obligation"); err != nil {
		return nil, err
	}
	return &compliance.Obligation{ID: uuid.New(), Title: cmd.Title, Status: cmd.Status}, nil
}

type fakeDeals struct{ recorder }

func (f *fakeDeals) CreateCategory(_ context.Context, cmd deals.CreateCategoryCommand) (*deals.Category, error) {
	if err := f.record("category"); err != nil {
		return nil, err
	}
	return &deals.Category{ID: uuid.New(), Name: cmd.Name}, nil
}

func (f *fakeDeals) CreateTerm(_ context.Context, cmd deals.CreateTermCommand) (*deals.Term, error) {
	if err := f.record("term"); err != nil {
		return nil, err
	}
	return &deals.Term{ID: uuid.New(), TermKey: cmd.TermKey}, nil
}

type fakeTrading struct{ recorder }

func (f *fakeTrading) CreateFacility(_ context.Context, cmd trading.CreateFacilityCommand) (*trading.Facility, error) {
	if err := f.record("facility"); err != nil {
		return nil, err
	}
	if cmd.Name == "" {
		return nil, trading.ErrInvalidInput
	}
	return &trading.Facility{ID: uuid.New(), Name: cmd.Name}, nil
}

func (f *fakeTrading) CreateChecklistItem(_ context.Context, cmd trading.CreateChecklistItemCommand) (*trading.ChecklistItem, error) {
	if err := f.record("checklist"); err != nil {
		return nil, err
	}
	return &trading.ChecklistItem{ID: uuid.New(), Title: cmd.Title}, nil
}

type fakeESG struct{ recorder }

func (f *fakeESG) CreateFacility(_ context.Context, cmd esg.CreateFacilityCommand) (*esg.Facility, error) {
	if err := f.record("facility"); err != nil {
		return nil, err
	}
	if cmd.Name == "" {
		return nil, esg.ErrInvalidInput
	}
	return &esg.Facility{ID: uuid.New(), Name: cmd.Name, LoanType: cmd.LoanType}, nil
}

func (f *fakeESG) CreateKPI(_ context.Context, cmd esg.CreateKPICommand) (*esg.KPI, error) {
	if err := f.record("kpi"); err != nil {
		return nil, err
	}
	return &esg.KPI{ID: uuid.New(), Name: cmd.Name}, nil
}

func (f *fakeESG) CreateTarget(_ context.Context, cmd esg.CreateTargetCommand) (*esg.Target, error) {
	if err := f.record("target"); err != nil {
		return nil, err
	}
	return &esg.Target{ID: uuid.New(), KPIID: cmd.KPIID}, nil
}

func (f *fakeESG) CreateProceedsCategory(_ context.Context, cmd esg.CreateProceedsCategoryCommand) (*esg.ProceedsCategory, error) {
	if err := f.record("proceeds"); err != nil {
		return nil, err
	}
	return &esg.ProceedsCategory{ID: uuid.New(), Name: cmd.Name}, nil
}

type fakeDocuments struct {
	mu   sync.Mutex
	docs map[uuid.UUID]*documents.Document
}

func (f *fakeDocuments) Find(_ context.Context, id uuid.UUID) (*documents.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return nil, documents.ErrNotFound
	}
	d := *doc
	return &d, nil
}

func (f *fakeDocuments) add(doc *documents.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docs == nil {
		f.docs = make(map[uuid.UUID]*documents.Document)
	}
	f.docs[doc.ID] = doc
}

type extractFunc func(ctx context.Context, rawText string) (*extraction.Result, error)

func (f extractFunc) Extract(ctx context.Context, rawText string) (*extraction.Result, error) {
	return f(ctx, rawText)
}

func returning(raw *extraction.Result) extractFunc {
	return func(context.Context, string) (*extraction.Result, error) { return raw, nil }
}

type fakeResults struct {
	mu      sync.Mutex
	saved   map[uuid.UUID]*automation.Result
	saveErr error
	saves   int
}

func (f *fakeResults) Save(_ context.Context, res *automation.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.saved == nil {
		f.saved = make(map[uuid.UUID]*automation.Result)
	}
	cp := *res
	f.saved[res.DocumentID] = &cp
	return nil
}

func (f *fakeResults) Find(_ context.Context, id uuid.UUID) (*automation.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.saved[id]
	if !ok {
		return nil, automation.ErrResultNotFound
	}
	return res, nil
}

func (f *fakeResults) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

// recordingProgress wraps a MemoryStore and keeps every snapshot after
// each update.
type recordingProgress struct {
	*automation.MemoryStore
	mu        sync.Mutex
	snapshots []automation.Progress
}

func newRecordingProgress() *recordingProgress {
	return &recordingProgress{MemoryStore: automation.NewMemoryStore(0)}
}

func (r *recordingProgress) Init(id uuid.UUID) {
	r.MemoryStore.Init(id)
	r.snap(id)
}

func (r *recordingProgress) Update(id uuid.UUID, patch automation.Progress) {
	r.MemoryStore.Update(id, patch)
	r.snap(id)
}

func (r *recordingProgress) snap(id uuid.UUID) {
	p, _ := r.MemoryStore.Get(id)
	r.mu.Lock()
	r.snapshots = append(r.snapshots, p)
	r.mu.Unlock()
}

type harness struct {
	docs     *fakeDocuments
	results  *fakeResults
	progress *recordingProgress
	comp     *fakeCompliance
	deal     *fakeDeals
	trade    *fakeTrading
	sust     *fakeESG
	orch     *automation.Orchestrator
}

func newHarness(t *testing.T, extractor extraction.Extractor) *harness {
	t.Helper()
	h := &harness{
		docs:     &fakeDocuments{},
		results:  &fakeResults{},
		progress: newRecordingProgress(),
		comp:     &fakeCompliance{},
		deal:     &fakeDeals{},
		trade:    &fakeTrading{},
		sust:     &fakeESG{},
	}
	h.orch = automation.NewOrchestrator(automation.OrchestratorConfig{
		Documents:  h.docs,
		Extractor:  extractor,
		Progress:   h.progress,
		Classifier: automation.NewPolicyClassifier(automation.DefaultPolicy()),
		Results:    h.results,
		Modules: automation.DefaultModules(
			automation.NewComplianceProcessor(h.comp),
			automation.NewDealsProcessor(h.deal),
			automation.NewTradingProcessor(h.trade),
			automation.NewESGProcessor(h.sust),
		),
		Defaults: automation.Defaults{ConfidenceThreshold: 0.8},
		Logger:   discard(),
	})
	return h
}

func (h *harness) readyDocument() *documents.Document {
	doc := &documents.Document{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		Filename:       "facility.pdf",
		Status:         documents.StatusReady,
		RawText:        "SENIOR FACILITIES AGREEMENT",
	}
	h.docs.add(doc)
	return doc
}

func (h *harness) writes() int {
	return h.comp.total() + h.deal.total() + h.trade.total() + h.sust.total()
}

// fullExtraction yields content for every module.
func fullExtraction() *extraction.Result {
	return &extraction.Result{
		DocumentType: "facility_agreement",
		Confidence:   0.92,
		Facility: &extraction.FacilityTerms{
			Name:             "Acme Term Loan B",
			Borrower:         "Acme Holdings",
			Currency:         "USD",
			CommitmentAmount: ptr(250000000.0),
			MarginBps:        ptr(325.0),
			Confidence:       0.95,
		},
		Covenants: []extraction.Covenant{
			{Name: "Leverage Ratio", CovenantType: "financial", Threshold: "<= 4.50x", Confidence: 0.95},
			{Name: "Interest Cover", CovenantType: "financial", Threshold: ">= 3.00x", Confidence: 0.65},
		},
		Obligations: []extraction.Obligation{
			{Title: "Quarterly financials", ObligationType: "reporting", Confidence: 0.9},
		},
		ESG: &extraction.ESGFacts{
			KPIs: []extraction.KPI{
				{
					Name:       "Scope 1 emissions",
					Unit:       "tCO2e",
					Confidence: 0.85,
					Targets: []extraction.Target{
						{Year: 2026, Value: 900},
						{Year: 2028, Value: 700},
					},
				},
			},
			MarginAdjustment: &extraction.MarginAdjustment{MaxAdjustmentBps: 5},
		},
		Trading: &extraction.TradingFacts{
			Transferability:           "restricted",
			AssignmentConsentRequired: true,
			Confidence:                0.9,
		},
	}
}
