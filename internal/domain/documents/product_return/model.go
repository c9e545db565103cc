// Package product_return records goods handed back by guests or staff.
package product_return

import (
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
)

// Return is one recorded return. Deleting it means reversing it.
type Return struct {
	ID         id.ID          `db:"id" json:"id"`
	ItemID     id.ID          `db:"item_id" json:"itemId"`
	Quantity   types.Quantity `db:"quantity" json:"quantity"`
	OrderID    *id.ID         `db:"order_id" json:"orderId,omitempty"`
	Reason     string         `db:"reason" json:"reason,omitempty"`
	LoggedBy   string         `db:"logged_by" json:"loggedBy"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
	ReversedBy *string        `db:"reversed_by" json:"reversedBy,omitempty"`
	ReversedAt *time.Time     `db:"reversed_at" json:"reversedAt,omitempty"`
}

// Reversed reports whether the return was already undone.
func (r *Return) Reversed() bool { return r.ReversedAt != nil }

// MarkReversed flags the return as undone.
func (r *Return) MarkReversed(actorID string, now time.Time) error {
	if r.Reversed() {
		return apperror.NewInvalidState("product return", "reversed", "reverse")
	}
	r.ReversedBy = &actorID
	r.ReversedAt = &now
	return nil
}
