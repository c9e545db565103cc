package transfer

import (
	"context"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
)

// Repository defines data access for stock transfers.
type Repository interface {
	Create(ctx context.Context, t *Transfer) error
	GetByID(ctx context.Context, transferID id.ID) (*Transfer, error)

	// GetForUpdate locks the transfer row until the unit of work ends.
	GetForUpdate(ctx context.Context, transferID id.ID) (*Transfer, error)

	// UpdateStatus persists a transition. It must only succeed when the stored
	// status still equals from; otherwise it returns CONCURRENT_MODIFICATION.
	UpdateStatus(ctx context.Context, t *Transfer, from Status) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Transfer], error)
}

// ListFilter narrows transfer listings.
type ListFilter struct {
	ItemID   *id.ID
	Status   Status
	Location string
	domain.Page
}
