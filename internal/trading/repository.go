package trading

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
		logger:     logger.With("system", "trading"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) CreateFacility(ctx context.Context, cmd CreateFacilityCommand) (*Facility, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: facility name required", ErrInvalidInput)
	}

	q := `
		INSERT INTO trading_facilities(
			id, organization_id, document_id, name, borrower,
			transferability, assignment_consent_required, minimum_transfer_amount
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, organization_id, document_id, name, borrower,
			transferability, assignment_consent_required, minimum_transfer_amount, created_at`

	args := []any{
		uuid.New(), cmd.OrganizationID, cmd.DocumentID, cmd.Name, cmd.Borrower,
		cmd.Transferability, cmd.AssignmentConsentRequired, cmd.MinimumTransferAmount,
	}

	f, err := repository.QueryOne(ctx, r.db, q, args, scanFacility)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("trading facility created", "id", f.ID, "document_id", f.DocumentID)
	return &f, nil
}

func (r *repo) CreateChecklistItem(ctx context.Context, cmd CreateChecklistItemCommand) (*ChecklistItem, error) {
	if cmd.Title == "" {
		return nil, fmt.Errorf("%w: checklist title required", ErrInvalidInput)
	}
	priority := cmd.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	q := `
		INSERT INTO trading_checklist_items(
			id, organization_id, document_id, facility_id, category, title, description, priority
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, organization_id, document_id, facility_id, category, title,
			description, priority, completed, created_at`

	args := []any{
		uuid.New(), cmd.OrganizationID, cmd.DocumentID, cmd.FacilityID,
		cmd.Category, cmd.Title, cmd.Description, priority,
	}

	i, err := repository.QueryOne(ctx, r.db, q, args, scanChecklistItem)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &i, nil
}

func (r *repo) ListChecklist(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[ChecklistItem], error) {
	qb := query.
		NewBuilder(checklistProjection, defaultSort).
		WhereSearch(page.Search, "Title", "Description")
	filters.Apply(qb)

	result, err := repository.QueryPage(ctx, r.db, qb, page, r.pagination, scanChecklistItem)
	if err != nil {
		return nil, fmt.Errorf("list checklist: %w", err)
	}
	return result, nil
}
