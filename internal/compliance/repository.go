package compliance

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

// New creates the compliance System backed by Postgres.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "compliance"),
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
		INSERT INTO compliance_facilities(
			id, organization_id, document_id, name, borrower,
			facility_type, currency, commitment_amount, maturity_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, organization_id, document_id, name, borrower,
			facility_type, currency, commitment_amount, maturity_date, created_at`

	args := []any{
		uuid.New(), cmd.OrganizationID, cmd.DocumentID, cmd.Name, cmd.Borrower,
		cmd.FacilityType, cmd.Currency, cmd.CommitmentAmount, cmd.MaturityDate,
	}

	f, err := repository.QueryOne(ctx, r.db, q, args, scanFacility)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("facility created", "id", f.ID, "document_id", f.DocumentID)
	return &f, nil
}

func (r *repo) CreateCovenant(ctx context.Context, cmd CreateCovenantCommand) (*Covenant, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: covenant name required", ErrInvalidInput)
	}

	q := `
		INSERT INTO covenants(
			id, organization_id, document_id, facility_id, name, covenant_type,
			threshold, test_frequency, description, confidence, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, organization_id, document_id, facility_id, name, covenant_type,
			threshold, test_frequency, description, confidence, status, created_at`

	args := []any{
		uuid.New(), cmd.OrganizationID, cmd.DocumentID, cmd.FacilityID, cmd.Name, cmd.CovenantType,
		cmd.Threshold, cmd.TestFrequency, cmd.Description, cmd.Confidence, itemStatus(cmd.Status),
	}

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCovenant)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) CreateObligation(ctx context.Context, cmd CreateObligationCommand) (*Obligation, error) {
	if cmd.Title == "" {
		return nil, fmt.Errorf("%w: obligation title required", ErrInvalidInput)
	}

	q := `
		INSERT INTO obligations(
			id, organization_id, document_id, facility_id, title, obligation_type,
			frequency, due_description, responsible_party, confidence, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, organization_id, document_id, facility_id, title, obligation_type,
			frequency, due_description, responsible_party, confidence, status, created_at`

	args := []any{
		uuid.New(), cmd.OrganizationID, cmd.DocumentID, cmd.FacilityID, cmd.Title, cmd.ObligationType,
		cmd.Frequency, cmd.DueDescription, cmd.ResponsibleParty, cmd.Confidence, itemStatus(cmd.Status),
	}

	o, err := repository.QueryOne(ctx, r.db, q, args, scanObligation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &o, nil
}

func (r *repo) ListCovenants(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Covenant], error) {
	qb := query.
		NewBuilder(covenantProjection, defaultSort).
		WhereSearch(page.Search, "Name", "Description")
	filters.apply(qb, "CovenantType")

	result, err := repository.QueryPage(ctx, r.db, qb, page, r.pagination, scanCovenant)
	if err != nil {
		return nil, fmt.Errorf("list covenants: %w", err)
	}
	return result, nil
}

func (r *repo) ListObligations(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Obligation], error) {
	qb := query.
		NewBuilder(obligationProjection, defaultSort).
		WhereSearch(page.Search, "Title", "ResponsibleParty")
	filters.apply(qb, "ObligationType")

	result, err := repository.QueryPage(ctx, r.db, qb, page, r.pagination, scanObligation)
	if err != nil {
		return nil, fmt.Errorf("list obligations: %w", err)
	}
	return result, nil
}

func itemStatus(s ItemStatus) ItemStatus {
	if s == "" {
		return StatusDraft
	}
	return s
}
