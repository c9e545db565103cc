package item

import (
	"context"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
)

// Repository stores catalog data. Implementations never write current_stock
// outside of Create, which inserts zero.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, itemID id.ID) (*Item, error)

	// Update writes catalog fields with optimistic locking on Version.
	Update(ctx context.Context, item *Item) error

	SetActive(ctx context.Context, itemID id.ID, active bool) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Item], error)

	// ListActive returns every active item ordered by name.
	ListActive(ctx context.Context) ([]*Item, error)
}

// ListFilter narrows catalog listings.
type ListFilter struct {
	Search          string
	Type            Type
	IncludeInactive bool
	LowStockOnly    bool
	domain.Page
}
