// Package wastage records spoilage and breakage write-offs.
package wastage

import (
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
)

// Record is one write-off. Deleting it means reversing it; the row stays.
type Record struct {
	ID         id.ID          `db:"id" json:"id"`
	ItemID     id.ID          `db:"item_id" json:"itemId"`
	Quantity   types.Quantity `db:"quantity" json:"quantity"`
	Reason     string         `db:"reason" json:"reason"`
	LoggedBy   string         `db:"logged_by" json:"loggedBy"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
	ReversedBy *string        `db:"reversed_by" json:"reversedBy,omitempty"`
	ReversedAt *time.Time     `db:"reversed_at" json:"reversedAt,omitempty"`
}

// Reversed reports whether the write-off was already undone.
func (r *Record) Reversed() bool { return r.ReversedAt != nil }

// MarkReversed flags the record as undone.
func (r *Record) MarkReversed(actorID string, now time.Time) error {
	if r.Reversed() {
		return apperror.NewInvalidState("wastage record", "reversed", "reverse")
	}
	r.ReversedBy = &actorID
	r.ReversedAt = &now
	return nil
}
