package dto

import (
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/purchase_order"
)

// --- Request DTOs ---

type PurchaseOrderLineRequest struct {
	ItemID          string         `json:"itemId" binding:"required,uuid"`
	QuantityOrdered types.Quantity `json:"quantityOrdered"`
	UnitCost        types.Money    `json:"unitCost"`
}

type CreatePurchaseOrderRequest struct {
	Supplier     string                     `json:"supplier" binding:"required,max=200"`
	OrderDate    *time.Time                 `json:"orderDate"`
	ExpectedDate *time.Time                 `json:"expectedDate"`
	Notes        string                     `json:"notes" binding:"max=1000"`
	Lines        []PurchaseOrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

func (r *CreatePurchaseOrderRequest) ToInput(actorID string) (purchase_order.CreateInput, error) {
	in := purchase_order.CreateInput{
		Supplier:     r.Supplier,
		OrderDate:    time.Now().UTC(),
		ExpectedDate: r.ExpectedDate,
		Notes:        r.Notes,
		ActorID:      actorID,
	}
	if r.OrderDate != nil {
		in.OrderDate = *r.OrderDate
	}
	for _, l := range r.Lines {
		itemID, err := id.ParseField("itemId", l.ItemID)
		if err != nil {
			return in, err
		}
		in.Lines = append(in.Lines, purchase_order.CreateLine{
			ItemID:          itemID,
			QuantityOrdered: l.QuantityOrdered,
			UnitCost:        l.UnitCost,
		})
	}
	return in, nil
}

// ReceiptRequest carries the cumulative received quantity of one line, the
// way a receiving clerk fills in the PO sheet.
type ReceiptRequest struct {
	LineID           string         `json:"lineId" binding:"required,uuid"`
	QuantityReceived types.Quantity `json:"quantityReceived"`
}

type ReceivePurchaseOrderRequest struct {
	Lines []ReceiptRequest `json:"lines" binding:"required,min=1,dive"`
}

func (r *ReceivePurchaseOrderRequest) ToReceipts() ([]purchase_order.Receipt, error) {
	out := make([]purchase_order.Receipt, 0, len(r.Lines))
	for _, l := range r.Lines {
		lineID, err := id.ParseField("lineId", l.LineID)
		if err != nil {
			return nil, err
		}
		out = append(out, purchase_order.Receipt{LineID: lineID, QuantityReceivedTotal: l.QuantityReceived})
	}
	return out, nil
}

// PurchaseOrderListQuery filters GET /purchase-orders by order date.
type PurchaseOrderListQuery struct {
	PageQuery
	PeriodQuery
	Status   string `form:"status" binding:"omitempty,oneof=pending partially_received received cancelled"`
	Supplier string `form:"supplier"`
}

func (q *PurchaseOrderListQuery) ToFilter() purchase_order.ListFilter {
	return purchase_order.ListFilter{
		Status:   purchase_order.Status(q.Status),
		Supplier: q.Supplier,
		From:     q.From,
		To:       q.To,
		Page:     q.Page(),
	}
}
