package product_return

import (
	"context"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
)

// Repository defines data access for returns.
type Repository interface {
	Create(ctx context.Context, r *Return) error
	GetByID(ctx context.Context, returnID id.ID) (*Return, error)
	GetForUpdate(ctx context.Context, returnID id.ID) (*Return, error)
	MarkReversed(ctx context.Context, r *Return) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Return], error)
}

// ListFilter narrows return listings.
type ListFilter struct {
	ItemID          *id.ID
	IncludeReversed bool
	domain.Page
}
