package order

import (
	"context"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
)

// Repository defines data access for orders.
type Repository interface {
	// Create inserts the order header and its lines.
	Create(ctx context.Context, o *Order) error

	// AddPayment inserts the payment of an order.
	AddPayment(ctx context.Context, p *Payment) error

	GetByID(ctx context.Context, orderID id.ID) (*Order, error)
	GetForUpdate(ctx context.Context, orderID id.ID) (*Order, error)
	UpdateStatus(ctx context.Context, o *Order) error
}
