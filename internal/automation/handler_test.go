package automation_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/cascade/internal/automation"
	"github.com/JaimeStill/cascade/internal/documents"
	"github.com/JaimeStill/cascade/pkg/routes"
)

type mockSystem struct {
	startFn  func(ctx context.Context, id uuid.UUID, o automation.Overrides) (*automation.Result, error)
	batchFn  func(ctx context.Context, ids []uuid.UUID, o automation.Overrides) ([]automation.BatchResult, error)
	statusFn func(ctx context.Context, id uuid.UUID) (*automation.StatusResponse, error)
	resultFn func(ctx context.Context, id uuid.UUID) (*automation.Result, error)
}

func (m *mockSystem) Handler() *automation.Handler {
	return automation.NewHandler(m, discard())
}

func (m *mockSystem) Start(ctx context.Context, id uuid.UUID, o automation.Overrides) (*automation.Result, error) {
	return m.startFn(ctx, id, o)
}

func (m *mockSystem) StartBatch(ctx context.Context, ids []uuid.UUID, o automation.Overrides) ([]automation.BatchResult, error) {
	return m.batchFn(ctx, ids, o)
}

func (m *mockSystem) Status(ctx context.Context, id uuid.UUID) (*automation.StatusResponse, error) {
	return m.statusFn(ctx, id)
}

func (m *mockSystem) Result(ctx context.Context, id uuid.UUID) (*automation.Result, error) {
	return m.resultFn(ctx, id)
}

func serve(sys *mockSystem, method, target, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestHandlerStart(t *testing.T) {
	docID := uuid.New()

	tests := []struct {
		name   string
		target string
		body   string
		err    error
		want   int
	}{
		{"success", "/automation/" + docID.String(), `{"enable_esg": false}`, nil, http.StatusOK},
		{"empty body", "/automation/" + docID.String(), "", nil, http.StatusOK},
		{"in progress", "/automation/" + docID.String(), "", automation.ErrRunInProgress, http.StatusConflict},
		{"not ready", "/automation/" + docID.String(), "", automation.ErrDocumentNotReady, http.StatusUnprocessableEntity},
		{"missing document", "/automation/" + docID.String(), "", documents.ErrNotFound, http.StatusNotFound},
		{"invalid id", "/automation/not-a-uuid", "", nil, http.StatusBadRequest},
		{"malformed body", "/automation/" + docID.String(), "{", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured automation.Overrides
			sys := &mockSystem{
				startFn: func(_ context.Context, id uuid.UUID, o automation.Overrides) (*automation.Result, error) {
					captured = o
					if tt.err != nil {
						return nil, tt.err
					}
					return &automation.Result{DocumentID: id, AutomationStatus: automation.StatusCompleted}, nil
				},
			}

			rec := serve(sys, "POST", tt.target, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			if tt.name == "success" && (captured.EnableESG == nil || *captured.EnableESG) {
				t.Errorf("overrides not decoded: %+v", captured)
			}
		})
	}
}

func TestHandlerBatch(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	var got []uuid.UUID

	sys := &mockSystem{
		batchFn: func(_ context.Context, in []uuid.UUID, _ automation.Overrides) ([]automation.BatchResult, error) {
			got = in
			out := make([]automation.BatchResult, len(in))
			for i, id := range in {
				out[i] = automation.BatchResult{DocumentID: id}
			}
			return out, nil
		},
	}

	body, _ := json.Marshal(automation.BatchRequest{DocumentIDs: ids})
	rec := serve(sys, "POST", "/automation/batch", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if len(got) != 2 || got[0] != ids[0] {
		t.Errorf("ids = %v, want %v", got, ids)
	}

	var results []automation.BatchResult
	if err := json.NewDecoder(rec.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("results: got %d, want 2", len(results))
	}
}

func TestHandlerBatchEmpty(t *testing.T) {
	sys := &mockSystem{
		batchFn: func(context.Context, []uuid.UUID, automation.Overrides) ([]automation.BatchResult, error) {
			return nil, automation.ErrEmptyBatch
		},
	}

	rec := serve(sys, "POST", "/automation/batch", `{"document_ids": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerStatus(t *testing.T) {
	docID := uuid.New()
	sys := &mockSystem{
		statusFn: func(_ context.Context, id uuid.UUID) (*automation.StatusResponse, error) {
			return &automation.StatusResponse{
				DocumentID:      id,
				Status:          automation.StateInProgress,
				Phase:           automation.PhaseProcessingDeals,
				PercentComplete: 60,
			}, nil
		},
	}

	rec := serve(sys, "GET", "/automation/"+docID.String()+"/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got automation.StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Phase != automation.PhaseProcessingDeals || got.PercentComplete != 60 {
		t.Errorf("got %+v", got)
	}
}

func TestHandlerResult(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"found", nil, http.StatusOK},
		{"not found", automation.ErrResultNotFound, http.StatusNotFound},
		{"store failure", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockSystem{
				resultFn: func(_ context.Context, id uuid.UUID) (*automation.Result, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &automation.Result{DocumentID: id}, nil
				},
			}

			rec := serve(sys, "GET", "/automation/"+uuid.NewString()+"/result", "")
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
