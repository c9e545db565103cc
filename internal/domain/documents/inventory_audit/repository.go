package inventory_audit

import (
	"context"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
)

// Repository defines data access for audits.
type Repository interface {
	// Create inserts the header and its snapshot lines.
	Create(ctx context.Context, a *Audit) error

	GetByID(ctx context.Context, auditID id.ID) (*Audit, error)

	// GetForUpdate loads the audit and locks its header row.
	GetForUpdate(ctx context.Context, auditID id.ID) (*Audit, error)

	// FindInProgress returns the open audit, or nil when there is none.
	FindInProgress(ctx context.Context) (*Audit, error)

	UpdateLineCount(ctx context.Context, line *Line) error
	UpdateStatus(ctx context.Context, a *Audit) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Audit], error)
}

// ListFilter narrows audit listings. Lines are not loaded.
type ListFilter struct {
	Status Status
	domain.Page
}
