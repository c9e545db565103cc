// Package purchase_order provides purchase orders and the receiving reconciler
// that turns cumulative receipts into bounded, idempotent stock increments.
package purchase_order

import (
	"strings"
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
)

// Status represents the lifecycle of a purchase order.
type Status string

const (
	StatusPending           Status = "pending"
	StatusPartiallyReceived Status = "partially_received"
	StatusReceived          Status = "received"
	StatusCancelled         Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPartiallyReceived, StatusReceived, StatusCancelled:
		return true
	}
	return false
}

// PurchaseOrder is an order header with its lines.
type PurchaseOrder struct {
	ID           id.ID      `db:"id" json:"id"`
	Supplier     string     `db:"supplier" json:"supplier"`
	OrderDate    time.Time  `db:"order_date" json:"orderDate"`
	ExpectedDate *time.Time `db:"expected_date" json:"expectedDate,omitempty"`
	Status       Status     `db:"status" json:"status"`
	Notes        string     `db:"notes" json:"notes,omitempty"`
	CreatedBy    string     `db:"created_by" json:"createdBy"`
	ReceivedAt   *time.Time `db:"received_at" json:"receivedAt,omitempty"`
	Version      int        `db:"version" json:"version"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`

	Lines []*Line `db:"-" json:"lines"`
}

// Line is one ordered item. QuantityReceived only grows.
type Line struct {
	ID               id.ID          `db:"id" json:"id"`
	PurchaseOrderID  id.ID          `db:"purchase_order_id" json:"purchaseOrderId"`
	LineNo           int            `db:"line_no" json:"lineNo"`
	ItemID           id.ID          `db:"item_id" json:"itemId"`
	QuantityOrdered  types.Quantity `db:"quantity_ordered" json:"quantityOrdered"`
	QuantityReceived types.Quantity `db:"quantity_received" json:"quantityReceived"`
	UnitCost         types.Money    `db:"unit_cost" json:"unitCost"`
}

// Reconcile clamps a requested cumulative total to [0, ordered] and returns
// the clamped total and the increment over what was already received.
// When nothing was ordered (legacy rows) the request itself is the bound.
func (l *Line) Reconcile(requestedTotal types.Quantity) (clamped, delta types.Quantity) {
	upper := l.QuantityOrdered
	if upper <= 0 {
		upper = requestedTotal
	}
	clamped = requestedTotal.Clamp(0, upper)
	return clamped, clamped - l.QuantityReceived
}

// Complete reports whether the line received everything ordered.
func (l *Line) Complete() bool {
	return l.QuantityReceived >= l.QuantityOrdered
}

// Validate checks the header and lines of a new order.
func (po *PurchaseOrder) Validate() error {
	if strings.TrimSpace(po.Supplier) == "" {
		return apperror.NewValidation("supplier is required").WithDetail("field", "supplier")
	}
	if po.OrderDate.IsZero() {
		return apperror.NewValidation("order date is required").WithDetail("field", "orderDate")
	}
	if len(po.Lines) == 0 {
		return apperror.NewValidation("purchase order must have at least one line")
	}
	for _, l := range po.Lines {
		if id.IsNil(l.ItemID) {
			return apperror.NewValidation("line item is required").WithDetail("lineNo", l.LineNo)
		}
		if !l.QuantityOrdered.IsPositive() {
			return apperror.NewValidation("ordered quantity must be positive").WithDetail("lineNo", l.LineNo)
		}
		if l.UnitCost.IsNegative() {
			return apperror.NewValidation("unit cost must not be negative").WithDetail("lineNo", l.LineNo)
		}
	}
	return nil
}

// CanReceive reports whether receipts may be booked against the order.
// A fully received order still accepts replays; they reconcile to no-ops.
func (po *PurchaseOrder) CanReceive() error {
	if po.Status == StatusCancelled {
		return apperror.NewInvalidState("purchase order", string(po.Status), "receive")
	}
	return nil
}

// Cancel moves the order to cancelled. Goods already received stay in stock.
func (po *PurchaseOrder) Cancel() error {
	if po.Status != StatusPending && po.Status != StatusPartiallyReceived {
		return apperror.NewInvalidState("purchase order", string(po.Status), "cancel")
	}
	po.Status = StatusCancelled
	return nil
}

// RecomputeStatus derives the status from line totals.
func (po *PurchaseOrder) RecomputeStatus(now time.Time) {
	if po.Status == StatusCancelled || len(po.Lines) == 0 {
		return
	}

	anyReceived, allComplete := false, true
	for _, l := range po.Lines {
		if l.QuantityReceived.IsPositive() {
			anyReceived = true
		}
		if !l.Complete() {
			allComplete = false
		}
	}

	switch {
	case !anyReceived:
		po.Status = StatusPending
	case allComplete:
		if po.Status != StatusReceived {
			po.ReceivedAt = &now
		}
		po.Status = StatusReceived
	default:
		po.Status = StatusPartiallyReceived
	}
}

// LineByID finds a line.
func (po *PurchaseOrder) LineByID(lineID id.ID) (*Line, bool) {
	for _, l := range po.Lines {
		if l.ID == lineID {
			return l, true
		}
	}
	return nil, false
}
