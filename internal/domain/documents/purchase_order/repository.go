package purchase_order

import (
	"context"
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
)

// Repository defines data access for purchase orders.
type Repository interface {
	// Create inserts the header and all lines.
	Create(ctx context.Context, po *PurchaseOrder) error

	// GetByID loads the header with lines.
	GetByID(ctx context.Context, poID id.ID) (*PurchaseOrder, error)

	// GetForUpdate loads the order and locks its header row until the
	// unit of work ends.
	GetForUpdate(ctx context.Context, poID id.ID) (*PurchaseOrder, error)

	UpdateLineReceived(ctx context.Context, lineID id.ID, received types.Quantity) error

	// UpdateStatus writes status and received_at.
	UpdateStatus(ctx context.Context, po *PurchaseOrder) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error)
}

// ListFilter narrows purchase order listings. Lines are not loaded.
type ListFilter struct {
	Status   Status
	Supplier string
	From     *time.Time
	To       *time.Time
	domain.Page
}
