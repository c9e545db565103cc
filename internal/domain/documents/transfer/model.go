// Package transfer coordinates two-phase stock moves between locations:
// deduct on creation, then confirm or reverse exactly once.
package transfer

import (
	"strings"
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
)

// Status represents the lifecycle of a transfer.
type Status string

const (
	StatusPending   Status = "pending"
	StatusInTransit Status = "in_transit"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInTransit, StatusReceived, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusReceived || s == StatusCancelled
}

// Transfer moves a quantity of one item from one location tag to another.
type Transfer struct {
	ID                  id.ID          `db:"id" json:"id"`
	ItemID              id.ID          `db:"item_id" json:"itemId"`
	FromLocation        string         `db:"from_location" json:"fromLocation"`
	ToLocation          string         `db:"to_location" json:"toLocation"`
	QuantityTransferred types.Quantity `db:"quantity_transferred" json:"quantityTransferred"`
	Status              Status         `db:"status" json:"status"`
	Notes               string         `db:"notes" json:"notes,omitempty"`
	CreatedBy           string         `db:"created_by" json:"createdBy"`
	ReceivedBy          *string        `db:"received_by" json:"receivedBy,omitempty"`
	ReceivedAt          *time.Time     `db:"received_at" json:"receivedAt,omitempty"`
	CancelledBy         *string        `db:"cancelled_by" json:"cancelledBy,omitempty"`
	CancelledAt         *time.Time     `db:"cancelled_at" json:"cancelledAt,omitempty"`
	CreatedAt           time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updatedAt"`
}

// Validate checks a new transfer.
func (t *Transfer) Validate() error {
	if id.IsNil(t.ItemID) {
		return apperror.NewValidation("item is required").WithDetail("field", "itemId")
	}
	if !t.QuantityTransferred.IsPositive() {
		return apperror.NewValidation("transfer quantity must be positive").WithDetail("field", "quantity")
	}
	from, to := strings.TrimSpace(t.FromLocation), strings.TrimSpace(t.ToLocation)
	if from == "" || to == "" {
		return apperror.NewValidation("source and destination locations are required")
	}
	if strings.EqualFold(from, to) {
		return apperror.NewValidation("source and destination must differ").
			WithDetail("location", from)
	}
	return nil
}

// Dispatch marks a pending transfer as on its way.
func (t *Transfer) Dispatch(now time.Time) error {
	if t.Status != StatusPending {
		return apperror.NewInvalidState("stock transfer", string(t.Status), "dispatch")
	}
	t.Status = StatusInTransit
	t.UpdatedAt = now
	return nil
}

// Receive confirms arrival at the destination.
func (t *Transfer) Receive(actorID string, now time.Time) error {
	if t.Status.Terminal() {
		return apperror.NewInvalidState("stock transfer", string(t.Status), "receive")
	}
	t.Status = StatusReceived
	t.ReceivedBy = &actorID
	t.ReceivedAt = &now
	t.UpdatedAt = now
	return nil
}

// Cancel marks the transfer cancelled. The caller restores the stock.
func (t *Transfer) Cancel(actorID string, now time.Time) error {
	if t.Status.Terminal() {
		return apperror.NewInvalidState("stock transfer", string(t.Status), "cancel")
	}
	t.Status = StatusCancelled
	t.CancelledBy = &actorID
	t.CancelledAt = &now
	t.UpdatedAt = now
	return nil
}
