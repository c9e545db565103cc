// Package order is the minimal order write path that bar sales ride on:
// the order, its lines, an optional payment and the stock deduction commit
// together or not at all.
package order

import (
	"strings"
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
)

// Status represents the lifecycle of an order.
type Status string

const (
	StatusOpen   Status = "open"
	StatusVoided Status = "voided"
)

// Order is a guest order.
type Order struct {
	ID        id.ID       `db:"id" json:"id"`
	TableRef  string      `db:"table_ref" json:"tableRef,omitempty"`
	Status    Status      `db:"status" json:"status"`
	Total     types.Money `db:"total" json:"total"`
	CreatedBy string      `db:"created_by" json:"createdBy"`
	VoidedBy  *string     `db:"voided_by" json:"voidedBy,omitempty"`
	VoidedAt  *time.Time  `db:"voided_at" json:"voidedAt,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedAt"`

	Lines   []*Line  `db:"-" json:"lines"`
	Payment *Payment `db:"-" json:"payment,omitempty"`
}

// Line is one ordered product. ItemID is nil for lines without an
// inventory item (food plated from recipes, service charges).
type Line struct {
	ID            id.ID          `db:"id" json:"id"`
	OrderID       id.ID          `db:"order_id" json:"orderId"`
	LineNo        int            `db:"line_no" json:"lineNo"`
	ItemID        *id.ID         `db:"item_id" json:"itemId,omitempty"`
	Description   string         `db:"description" json:"description"`
	Quantity      types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice     types.Money    `db:"unit_price" json:"unitPrice"`
	LineTotal     types.Money    `db:"line_total" json:"lineTotal"`
	StockDeducted bool           `db:"stock_deducted" json:"stockDeducted"`
}

// Payment settles an order.
type Payment struct {
	ID        id.ID       `db:"id" json:"id"`
	OrderID   id.ID       `db:"order_id" json:"orderId"`
	Method    string      `db:"method" json:"method"`
	Amount    types.Money `db:"amount" json:"amount"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// Validate checks a new order.
func (o *Order) Validate() error {
	if len(o.Lines) == 0 {
		return apperror.NewValidation("order must have at least one line")
	}
	for _, l := range o.Lines {
		if !l.Quantity.IsPositive() {
			return apperror.NewValidation("line quantity must be positive").WithDetail("lineNo", l.LineNo)
		}
		if l.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price must not be negative").WithDetail("lineNo", l.LineNo)
		}
		if l.ItemID == nil && strings.TrimSpace(l.Description) == "" {
			return apperror.NewValidation("line needs an item or a description").WithDetail("lineNo", l.LineNo)
		}
	}
	if o.Payment != nil {
		if strings.TrimSpace(o.Payment.Method) == "" {
			return apperror.NewValidation("payment method is required").WithDetail("field", "payment.method")
		}
		if o.Payment.Amount.IsNegative() {
			return apperror.NewValidation("payment amount must not be negative").WithDetail("field", "payment.amount")
		}
	}
	return nil
}

// RecalculateTotal sums line totals.
func (o *Order) RecalculateTotal() {
	total := types.ZeroMoney()
	for _, l := range o.Lines {
		l.LineTotal = types.LineTotal(l.UnitPrice, l.Quantity)
		total = total.Add(l.LineTotal)
	}
	o.Total = total
}

// Void moves an open order to voided.
func (o *Order) Void(actorID string, now time.Time) error {
	if o.Status != StatusOpen {
		return apperror.NewInvalidState("order", string(o.Status), "void")
	}
	o.Status = StatusVoided
	o.VoidedBy = &actorID
	o.VoidedAt = &now
	o.UpdatedAt = now
	return nil
}
