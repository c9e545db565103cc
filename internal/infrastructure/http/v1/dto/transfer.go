package dto

import (
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/transfer"
)

type CreateTransferRequest struct {
	ItemID       string         `json:"itemId" binding:"required,uuid"`
	FromLocation string         `json:"fromLocation" binding:"required,max=100"`
	ToLocation   string         `json:"toLocation" binding:"required,max=100"`
	Quantity     types.Quantity `json:"quantity"`
	Notes        string         `json:"notes" binding:"max=500"`
}

func (r *CreateTransferRequest) ToInput(actorID string) (transfer.CreateInput, error) {
	itemID, err := id.ParseField("itemId", r.ItemID)
	if err != nil {
		return transfer.CreateInput{}, err
	}
	return transfer.CreateInput{
		ItemID:       itemID,
		FromLocation: r.FromLocation,
		ToLocation:   r.ToLocation,
		Quantity:     r.Quantity,
		Notes:        r.Notes,
		ActorID:      actorID,
	}, nil
}

type TransferListQuery struct {
	PageQuery
	ItemID   *string `form:"itemId" binding:"omitempty,uuid"`
	Status   string  `form:"status" binding:"omitempty,oneof=pending in_transit received cancelled"`
	Location string  `form:"location"`
}

func (q *TransferListQuery) ToFilter() (transfer.ListFilter, error) {
	itemID, err := OptionalID("itemId", q.ItemID)
	if err != nil {
		return transfer.ListFilter{}, err
	}
	return transfer.ListFilter{
		ItemID:   itemID,
		Status:   transfer.Status(q.Status),
		Location: q.Location,
		Page:     q.Page(),
	}, nil
}
