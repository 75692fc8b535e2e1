package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// System defines the caller-facing automation operations.
type System interface {
	Handler() *Handler

	// Start runs automation for one document and blocks until it finishes.
	Start(ctx context.Context, documentID uuid.UUID, overrides Overrides) (*Result, error)
	// StartBatch runs documents concurrently, bounded by the batch limit.
	// Results are returned in request order.
	StartBatch(ctx context.Context, documentIDs []uuid.UUID, overrides Overrides) ([]BatchResult, error)
	Status(ctx context.Context, documentID uuid.UUID) (*StatusResponse, error)
	Result(ctx context.Context, documentID uuid.UUID) (*Result, error)
}

type system struct {
	orch       *Orchestrator
	batchLimit int
	logger     *slog.Logger
}

// New creates the automation System over orch.
func New(orch *Orchestrator, batchLimit int, logger *slog.Logger) System {
	if batchLimit < 1 {
		batchLimit = 1
	}
	return &system{
		orch:       orch,
		batchLimit: batchLimit,
		logger:     logger.With("system", "automation"),
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *system) Start(ctx context.Context, documentID uuid.UUID, overrides Overrides) (*Result, error) {
	return s.orch.Run(ctx, documentID, overrides)
}

func (s *system) StartBatch(ctx context.Context, documentIDs []uuid.UUID, overrides Overrides) ([]BatchResult, error) {
	if len(documentIDs) == 0 {
		return nil, ErrEmptyBatch
	}
	if err := overrides.Validate(); err != nil {
		return nil, err
	}

	results := make([]BatchResult, len(documentIDs))
	var g errgroup.Group
	g.SetLimit(s.batchLimit)

	for i, id := range documentIDs {
		g.Go(func() error {
			res, err := s.orch.Run(ctx, id, overrides)
			results[i] = BatchResult{DocumentID: id, Result: res}
			if err != nil {
				results[i].Error = err.Error()
				s.logger.Warn("batch run rejected", "document_id", id, "error", err)
			}
			return nil
		})
	}
	g.Wait()

	return results, nil
}

// Status reports in-memory progress when present, then the persisted result,
// then not_started.
func (s *system) Status(ctx context.Context, documentID uuid.UUID) (*StatusResponse, error) {
	resp := &StatusResponse{
		DocumentID:       documentID,
		ModulesProcessed: []Stage{},
	}

	if p, ok := s.orch.progress.Get(documentID); ok {
		resp.Phase = p.Phase
		resp.PercentComplete = p.PercentComplete
		resp.CurrentStep = p.CurrentStep
		resp.StepsCompleted = p.StepsCompleted
		resp.ModulesProcessed = p.ModulesProcessed

		switch {
		case !p.Phase.Terminal():
			resp.Status = StateInProgress
		case p.Outcome != "":
			resp.Status = RunState(p.Outcome)
		default:
			resp.Status = StateFailed
		}

		if p.Phase == PhaseCompleted {
			res, err := s.orch.results.Find(ctx, documentID)
			switch {
			case err == nil:
				resp.Result = res
			case !errors.Is(err, ErrResultNotFound):
				s.logger.Warn("load lifecycle result failed", "document_id", documentID, "error", err)
			}
		}
		return resp, nil
	}

	res, err := s.orch.results.Find(ctx, documentID)
	if err == nil {
		resp.Status = RunState(res.AutomationStatus)
		resp.Phase = terminalPhase(res.AutomationStatus)
		resp.PercentComplete = percentComplete
		resp.ModulesProcessed = modulesOf(res)
		resp.Result = res
		return resp, nil
	}
	if !errors.Is(err, ErrResultNotFound) {
		return nil, fmt.Errorf("load lifecycle result: %w", err)
	}

	if _, err := s.orch.documents.Find(ctx, documentID); err != nil {
		return nil, err
	}
	resp.Status = StateNotStarted
	return resp, nil
}

func (s *system) Result(ctx context.Context, documentID uuid.UUID) (*Result, error) {
	return s.orch.results.Find(ctx, documentID)
}

func modulesOf(res *Result) []Stage {
	stages := []Stage{}
	if res.Compliance != nil {
		stages = append(stages, StageCompliance)
	}
	if res.Deals != nil {
		stages = append(stages, StageDeals)
	}
	if res.Trading != nil {
		stages = append(stages, StageTrading)
	}
	if res.ESG != nil {
		stages = append(stages, StageESG)
	}
	return stages
}
