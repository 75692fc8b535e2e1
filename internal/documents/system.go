package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/cascade/pkg/pagination"
)

// System defines the document domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	// SetText replaces the document's raw text and marks it ready.
	SetText(ctx context.Context, id uuid.UUID, text string) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
