// Package inventory_audit provides the physical stock-take: snapshot system
// quantities at start, collect counts, and commit variances at completion.
package inventory_audit

import (
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
)

// Status represents the lifecycle of an audit.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Audit is a stock-take header with its lines.
type Audit struct {
	ID          id.ID      `db:"id" json:"id"`
	AuditDate   time.Time  `db:"audit_date" json:"auditDate"`
	Status      Status     `db:"status" json:"status"`
	Notes       string     `db:"notes" json:"notes,omitempty"`
	StartedBy   string     `db:"started_by" json:"startedBy"`
	CompletedBy *string    `db:"completed_by" json:"completedBy,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`

	Lines []*Line `db:"-" json:"lines"`
}

// Line is one item of the stock-take. SystemQuantity is fixed when the
// audit starts.
type Line struct {
	ID               id.ID           `db:"id" json:"id"`
	AuditID          id.ID           `db:"audit_id" json:"auditId"`
	ItemID           id.ID           `db:"item_id" json:"itemId"`
	ItemName         string          `db:"item_name" json:"itemName"`
	SystemQuantity   types.Quantity  `db:"system_quantity" json:"systemQuantity"`
	PhysicalQuantity *types.Quantity `db:"physical_quantity" json:"physicalQuantity,omitempty"`
	CountedBy        *string         `db:"counted_by" json:"countedBy,omitempty"`
	CountedAt        *time.Time      `db:"counted_at" json:"countedAt,omitempty"`
}

// Counted reports whether a physical quantity was recorded.
func (l *Line) Counted() bool { return l.PhysicalQuantity != nil }

// Variance is physical minus system; zero for uncounted lines.
func (l *Line) Variance() types.Quantity {
	if l.PhysicalQuantity == nil {
		return 0
	}
	return *l.PhysicalQuantity - l.SystemQuantity
}

// SetCount records a physical count. Last write wins.
func (l *Line) SetCount(physical types.Quantity, countedBy string, now time.Time) error {
	if physical.IsNegative() {
		return apperror.NewValidation("physical quantity must not be negative").
			WithDetail("lineId", l.ID.String())
	}
	l.PhysicalQuantity = &physical
	l.CountedBy = &countedBy
	l.CountedAt = &now
	return nil
}

// RequireInProgress guards every operation that needs an open audit.
func (a *Audit) RequireInProgress(operation string) error {
	if a.Status != StatusInProgress {
		return apperror.NewInvalidState("inventory audit", string(a.Status), operation)
	}
	return nil
}

// Complete closes the audit.
func (a *Audit) Complete(actorID string, now time.Time) error {
	if err := a.RequireInProgress("complete"); err != nil {
		return err
	}
	a.Status = StatusCompleted
	a.CompletedBy = &actorID
	a.CompletedAt = &now
	a.UpdatedAt = now
	return nil
}

// Cancel abandons the audit.
func (a *Audit) Cancel(now time.Time) error {
	if err := a.RequireInProgress("cancel"); err != nil {
		return err
	}
	a.Status = StatusCancelled
	a.UpdatedAt = now
	return nil
}

// LineByID finds a line.
func (a *Audit) LineByID(lineID id.ID) (*Line, bool) {
	for _, l := range a.Lines {
		if l.ID == lineID {
			return l, true
		}
	}
	return nil, false
}

// VarianceLine is one variant line of a completed audit.
type VarianceLine struct {
	LineID   id.ID          `json:"lineId"`
	ItemID   id.ID          `json:"itemId"`
	ItemName string         `json:"itemName"`
	System   types.Quantity `json:"systemQuantity"`
	Physical types.Quantity `json:"physicalQuantity"`
	Variance types.Quantity `json:"variance"`

	// Applied is the change actually written to stock; it differs from
	// Variance only when stock moved while the audit was open.
	Applied types.Quantity `json:"appliedDelta"`
}

// VarianceReport is returned by completion.
type VarianceReport struct {
	AuditID       id.ID          `json:"auditId"`
	Lines         []VarianceLine `json:"lines"`
	Uncounted     int            `json:"uncountedLines"`
	TotalVariance types.Quantity `json:"totalVariance"`
}
