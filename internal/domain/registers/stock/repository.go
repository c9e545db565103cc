package stock

import (
	"context"
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
)

// Repository is the storage contract of the stock register.
//
// The item row holds the materialized value; stock_mutations holds the ledger.
// All writes are expected to run inside a unit of work.
type Repository interface {
	// ApplyDelta adds delta to current_stock in a single conditional statement.
	// When the guard (result >= 0 unless allowNegative) rejects the change,
	// applied is false and level carries the unchanged row.
	// Unknown items yield an apperror NotFound.
	ApplyDelta(ctx context.Context, itemID id.ID, delta types.Quantity, allowNegative bool) (level *Level, applied bool, err error)

	// GetLevel reads the materialized stock without locking.
	GetLevel(ctx context.Context, itemID id.ID) (*Level, error)

	// GetLevelForUpdate reads and row-locks the item until the unit of work ends.
	GetLevelForUpdate(ctx context.Context, itemID id.ID) (*Level, error)

	// OverwriteLevel replaces current_stock. Only projection repair uses it.
	OverwriteLevel(ctx context.Context, itemID id.ID, qty types.Quantity) error

	// InsertMutation appends one ledger entry. There is no update or delete.
	InsertMutation(ctx context.Context, m *Mutation) error

	// ListMutations returns ledger entries newest first.
	ListMutations(ctx context.Context, filter HistoryFilter) (domain.ListResult[*Mutation], error)

	// SumMutations returns the ledger sum for one item.
	SumMutations(ctx context.Context, itemID id.ID) (types.Quantity, error)

	// ListDrift returns every item whose materialized value differs from its ledger sum.
	ListDrift(ctx context.Context) ([]Verification, error)
}

// HistoryFilter narrows ledger history queries.
type HistoryFilter struct {
	ItemID        id.ID
	Actions       []Action
	ReferenceType string
	ReferenceID   string
	From          *time.Time
	To            *time.Time
	domain.Page
}

// EventPublisher receives domain events raised by postings.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Event is a notification raised by the stock register.
type Event struct {
	Type    string
	ItemID  id.ID
	Payload map[string]any
}

const EventLowStock = "stock.low"
