package automation

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/cascade/pkg/repository"
)

// ResultStore persists one lifecycle result per document.
type ResultStore interface {
	// Save replaces any stored result for the document and marks the
	// document automated.
	Save(ctx context.Context, result *Result) error
	Find(ctx context.Context, documentID uuid.UUID) (*Result, error)
}

type pgResults struct {
	db *sql.DB
}

// NewResultStore returns a ResultStore backed by the lifecycle_results table.
func NewResultStore(db *sql.DB) ResultStore {
	return &pgResults{db: db}
}

func (s *pgResults) Save(ctx context.Context, result *Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal lifecycle result: %w", err)
	}

	upsertQ := `
		INSERT INTO lifecycle_results(document_id, automation_status, processing_time_ms, result)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (document_id) DO UPDATE SET
			automation_status = EXCLUDED.automation_status,
			processing_time_ms = EXCLUDED.processing_time_ms,
			result = EXCLUDED.result,
			updated_at = NOW()`

	_, err = repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(ctx, upsertQ,
			result.DocumentID, result.AutomationStatus, result.ProcessingTimeMs, payload,
		); err != nil {
			return struct{}{}, fmt.Errorf("upsert lifecycle result: %w", err)
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE documents SET processing_status = 'automated', updated_at = NOW() WHERE id = $1",
			result.DocumentID,
		); err != nil {
			return struct{}{}, fmt.Errorf("update document status: %w", err)
		}

		return struct{}{}, nil
	})
	return err
}

func (s *pgResults) Find(ctx context.Context, documentID uuid.UUID) (*Result, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT result FROM lifecycle_results WHERE document_id = $1",
		documentID,
	).Scan(&payload)
	if err != nil {
		return nil, repository.MapError(err, ErrResultNotFound, ErrResultNotFound)
	}

	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decode lifecycle result: %w", err)
	}
	return &result, nil
}
