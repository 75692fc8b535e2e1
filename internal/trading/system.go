package trading

import (
	"context"

	"github.com/JaimeStill/cascade/pkg/pagination"
)

// System defines the trading domain operations.
type System interface {
	Handler() *Handler

	CreateFacility(ctx context.Context, cmd CreateFacilityCommand) (*Facility, error)
	CreateChecklistItem(ctx context.Context, cmd CreateChecklistItemCommand) (*ChecklistItem, error)
	ListChecklist(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[ChecklistItem], error)
}
