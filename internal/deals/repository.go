package deals

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/cascade/pkg/pagination"
	"github.com/JaimeStill/cascade/pkg/query"
	"github.com/JaimeStill/cascade/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "deals"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) CreateCategory(ctx context.Context, cmd CreateCategoryCommand) (*Category, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: category name required", ErrInvalidInput)
	}

	q := `
		INSERT INTO deal_categories(id, organization_id, document_id, name, display_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, organization_id, document_id, name, display_order, created_at`

	args := []any{uuid.New(), cmd.OrganizationID, cmd.DocumentID, cmd.Name, cmd.DisplayOrder}

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCategory)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) CreateTerm(ctx context.Context, cmd CreateTermCommand) (*Term, error) {
	if cmd.TermKey == "" {
		return nil, fmt.Errorf("%w: term key required", ErrInvalidInput)
	}

	q := `
		INSERT INTO deal_terms(id, organization_id, document_id, category_id, term_key, label, value, confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, organization_id, document_id, category_id, term_key, label, value, confidence, created_at`

	args := []any{
		uuid.New(), cmd.OrganizationID, cmd.DocumentID, cmd.CategoryID,
		cmd.TermKey, cmd.Label, cmd.Value, cmd.Confidence,
	}

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTerm)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &t, nil
}

func (r *repo) ListTerms(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Term], error) {
	qb := query.
		NewBuilder(termProjection, defaultSort).
		WhereSearch(page.Search, "Label", "Value")
	filters.Apply(qb)

	result, err := repository.QueryPage(ctx, r.db, qb, page, r.pagination, scanTerm)
	if err != nil {
		return nil, fmt.Errorf("list deal terms: %w", err)
	}
	return result, nil
}
