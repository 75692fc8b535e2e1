package documents

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/cascade/pkg/pagination"
	"github.com/JaimeStill/cascade/pkg/query"
	"github.com/JaimeStill/cascade/pkg/repository"
	"github.com/JaimeStill/cascade/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the document System backed by Postgres and blob storage.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename")
	filters.Apply(qb)

	result, err := repository.QueryPage(ctx, r.db, qb, page, r.pagination, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	for i := range result.Data {
		result.Data[i].RawText = ""
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	if cmd.OrganizationID == uuid.Nil {
		return nil, ErrInvalidOrg
	}

	id := uuid.New()
	key := storageKey(cmd.OrganizationID, id, cmd.Filename)

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	status := StatusPending
	if strings.TrimSpace(cmd.RawText) != "" {
		status = StatusReady
	}

	q := `
		INSERT INTO documents(
			id, organization_id, filename, content_type, size_bytes,
			page_count, storage_key, processing_status, raw_text
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		` + returning

	args := []any{
		id,
		cmd.OrganizationID,
		cmd.Filename,
		cmd.ContentType,
		int64(len(cmd.Data)),
		cmd.PageCount,
		key,
		status,
		cmd.RawText,
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, args, scanDocument)
	})
	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created",
		"id", d.ID,
		"organization_id", d.OrganizationID,
		"filename", d.Filename,
		"status", d.Status,
	)
	return &d, nil
}

func (r *repo) SetText(ctx context.Context, id uuid.UUID, text string) (*Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	q := `
		UPDATE documents
		SET raw_text = $1, processing_status = $2, updated_at = NOW()
		WHERE id = $3
		` + returning

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, []any{text, StatusReady, id}, scanDocument)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document text set", "id", id, "length", len(text))
	return &d, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM documents WHERE id = $1", id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, doc.StorageKey); delErr != nil {
		r.logger.Warn("blob delete failed after db delete", "key", doc.StorageKey, "error", delErr)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

func storageKey(orgID, id uuid.UUID, filename string) string {
	name := filepath.Base(filename)
	if name == "." || name == "/" || name == "" {
		name = "document"
	}
	return fmt.Sprintf("%s/%s/%s", orgID, id, url.PathEscape(name))
}
