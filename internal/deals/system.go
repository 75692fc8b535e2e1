package deals

import (
	"context"

	"github.com/JaimeStill/cascade/pkg/pagination"
)

// System defines the deal-room domain operations.
type System interface {
	Handler() *Handler

	CreateCategory(ctx context.Context, cmd CreateCategoryCommand) (*Category, error)
	CreateTerm(ctx context.Context, cmd CreateTermCommand) (*Term, error)
	ListTerms(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Term], error)
}
