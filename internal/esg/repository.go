package esg

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
		logger:     logger.With("system", "esg"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) CreateFacility(ctx context.Context, cmd CreateFacilityCommand) (*Facility, error) {
	switch cmd.LoanType {
	case LoanSustainabilityLinked, LoanGreen, LoanESGLinkedHybrid:
	default:
		return nil, fmt.Errorf("%w: unknown loan type %q", ErrInvalidInput, cmd.LoanType)
	}

	q := `
		INSERT INTO esg_facilities(
			id, organization_id, document_id, name, loan_type,
			has_margin_adjustment, max_adjustment_bps
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, organization_id, document_id, name, loan_type,
			has_margin_adjustment, max_adjustment_bps, created_at`

	args := []any{
		uuid.New(), cmd.OrganizationID, cmd.DocumentID, cmd.Name, cmd.LoanType,
		cmd.HasMarginAdjustment, cmd.MaxAdjustmentBps,
	}

	f, err := repository.QueryOne(ctx, r.db, q, args, scanFacility)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("esg facility created", "id", f.ID, "loan_type", f.LoanType)
	return &f, nil
}

func (r *repo) CreateKPI(ctx context.Context, cmd CreateKPICommand) (*KPI, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: kpi name required", ErrInvalidInput)
	}

	q := `
		INSERT INTO esg_kpis(
			id, organization_id, document_id, facility_id, name, category,
			unit, baseline_value, baseline_year, confidence
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, organization_id, document_id, facility_id, name, category,
			unit, baseline_value, baseline_year, confidence, created_at`

	args := []any{
		uuid.New(), cmd.OrganizationID, cmd.DocumentID, cmd.FacilityID, cmd.Name, cmd.Category,
		cmd.Unit, cmd.BaselineValue, cmd.BaselineYear, cmd.Confidence,
	}

	k, err := repository.QueryOne(ctx, r.db, q, args, scanKPI)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &k, nil
}

func (r *repo) CreateTarget(ctx context.Context, cmd CreateTargetCommand) (*Target, error) {
	if cmd.TargetYear <= 0 {
		return nil, fmt.Errorf("%w: target year required", ErrInvalidInput)
	}

	q := `
		INSERT INTO esg_targets(id, kpi_id, target_year, target_value, margin_impact_bps)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, kpi_id, target_year, target_value, margin_impact_bps, created_at`

	args := []any{uuid.New(), cmd.KPIID, cmd.TargetYear, cmd.TargetValue, cmd.MarginImpactBps}

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTarget)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &t, nil
}

func (r *repo) CreateProceedsCategory(ctx context.Context, cmd CreateProceedsCategoryCommand) (*ProceedsCategory, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: proceeds category name required", ErrInvalidInput)
	}

	q := `
		INSERT INTO esg_proceeds_categories(id, facility_id, name, allocation_percent)
		VALUES ($1, $2, $3, $4)
		RETURNING id, facility_id, name, allocation_percent, created_at`

	args := []any{uuid.New(), cmd.FacilityID, cmd.Name, cmd.AllocationPercent}

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProceedsCategory)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) ListKPIs(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[KPI], error) {
	qb := query.
		NewBuilder(kpiProjection, defaultSort).
		WhereSearch(page.Search, "Name", "Category")
	filters.Apply(qb)

	result, err := repository.QueryPage(ctx, r.db, qb, page, r.pagination, scanKPI)
	if err != nil {
		return nil, fmt.Errorf("list kpis: %w", err)
	}
	return result, nil
}
