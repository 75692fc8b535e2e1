package esg

import (
	"context"

	"github.com/JaimeStill/cascade/pkg/pagination"
)

// System defines the ESG domain operations.
type System interface {
	Handler() *Handler

	CreateFacility(ctx context.Context, cmd CreateFacilityCommand) (*Facility, error)
	CreateKPI(ctx context.Context, cmd CreateKPICommand) (*KPI, error)
	CreateTarget(ctx context.Context, cmd CreateTargetCommand) (*Target, error)
	CreateProceedsCategory(ctx context.Context, cmd CreateProceedsCategoryCommand) (*ProceedsCategory, error)
	ListKPIs(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[KPI], error)
}
