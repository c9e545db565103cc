package dto

import (
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/product_return"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/wastage"
)

// --- Wastage ---

type RecordWastageRequest struct {
	ItemID   string         `json:"itemId" binding:"required,uuid"`
	Quantity types.Quantity `json:"quantity"`
	Reason   string         `json:"reason" binding:"required,max=500"`
}

type WastageListQuery struct {
	PageQuery
	PeriodQuery
	ItemID          *string `form:"itemId" binding:"omitempty,uuid"`
	IncludeReversed bool    `form:"includeReversed"`
}

func (q *WastageListQuery) ToFilter() (wastage.ListFilter, error) {
	itemID, err := OptionalID("itemId", q.ItemID)
	if err != nil {
		return wastage.ListFilter{}, err
	}
	return wastage.ListFilter{
		ItemID:          itemID,
		From:            q.From,
		To:              q.To,
		IncludeReversed: q.IncludeReversed,
		Page:            q.Page(),
	}, nil
}

// --- Returns ---

type RecordReturnRequest struct {
	ItemID   string         `json:"itemId" binding:"required,uuid"`
	Quantity types.Quantity `json:"quantity"`
	OrderID  *string        `json:"orderId" binding:"omitempty,uuid"`
	Reason   string         `json:"reason" binding:"max=500"`
}

func (r *RecordReturnRequest) ToInput(actorID string) (product_return.RecordInput, error) {
	itemID, err := id.ParseField("itemId", r.ItemID)
	if err != nil {
		return product_return.RecordInput{}, err
	}
	orderID, err := OptionalID("orderId", r.OrderID)
	if err != nil {
		return product_return.RecordInput{}, err
	}
	return product_return.RecordInput{
		ItemID:   itemID,
		Quantity: r.Quantity,
		OrderID:  orderID,
		Reason:   r.Reason,
		ActorID:  actorID,
	}, nil
}

type ReturnListQuery struct {
	PageQuery
	ItemID          *string `form:"itemId" binding:"omitempty,uuid"`
	IncludeReversed bool    `form:"includeReversed"`
}

func (q *ReturnListQuery) ToFilter() (product_return.ListFilter, error) {
	itemID, err := OptionalID("itemId", q.ItemID)
	if err != nil {
		return product_return.ListFilter{}, err
	}
	return product_return.ListFilter{ItemID: itemID, IncludeReversed: q.IncludeReversed, Page: q.Page()}, nil
}
