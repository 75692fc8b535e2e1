package compliance

import (
	"context"

	"github.com/JaimeStill/cascade/pkg/pagination"
)

// System defines the compliance domain operations.
type System interface {
	Handler() *Handler

	CreateFacility(ctx context.Context, cmd CreateFacilityCommand) (*Facility, error)
	CreateCovenant(ctx context.Context, cmd CreateCovenantCommand) (*Covenant, error)
	CreateObligation(ctx context.Context, cmd CreateObligationCommand) (*Obligation, error)

	ListCovenants(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Covenant], error)
	ListObligations(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Obligation], error)
}
