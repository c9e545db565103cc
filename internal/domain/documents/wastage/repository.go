package wastage

import (
	"context"
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
)

// Repository defines data access for wastage records.
type Repository interface {
	Create(ctx context.Context, r *Record) error
	GetByID(ctx context.Context, recordID id.ID) (*Record, error)
	GetForUpdate(ctx context.Context, recordID id.ID) (*Record, error)
	MarkReversed(ctx context.Context, r *Record) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Record], error)
}

// ListFilter narrows wastage listings.
type ListFilter struct {
	ItemID          *id.ID
	From            *time.Time
	To              *time.Time
	IncludeReversed bool
	domain.Page
}
