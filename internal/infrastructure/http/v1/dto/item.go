package dto

import (
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/catalogs/item"
)

// --- Request DTOs ---

// CreateItemRequest creates an item; openingStock becomes an opening_balance entry.
type CreateItemRequest struct {
	Name         string         `json:"name" binding:"required,max=200"`
	Unit         string         `json:"unit" binding:"required,max=32"`
	Type         string         `json:"type" binding:"required,itemtype"`
	MinimumStock types.Quantity `json:"minimumStock"`
	CostPerUnit  types.Money    `json:"costPerUnit"`
	BuyingPrice  types.Money    `json:"buyingPrice"`
	Supplier     string         `json:"supplier" binding:"max=200"`
	Location     string         `json:"location" binding:"max=100"`
	OpeningStock types.Quantity `json:"openingStock"`
}

func (r *CreateItemRequest) ToInput(actorID string) item.CreateInput {
	return item.CreateInput{
		Name:         r.Name,
		Unit:         r.Unit,
		Type:         item.Type(r.Type),
		MinimumStock: r.MinimumStock,
		CostPerUnit:  r.CostPerUnit,
		BuyingPrice:  r.BuyingPrice,
		Supplier:     r.Supplier,
		Location:     r.Location,
		OpeningStock: r.OpeningStock,
		ActorID:      actorID,
	}
}

// UpdateItemRequest changes catalog fields. currentStock is not accepted here.
type UpdateItemRequest struct {
	Name         *string         `json:"name" binding:"omitempty,max=200"`
	Unit         *string         `json:"unit" binding:"omitempty,max=32"`
	Type         *string         `json:"type" binding:"omitempty,itemtype"`
	MinimumStock *types.Quantity `json:"minimumStock"`
	CostPerUnit  *types.Money    `json:"costPerUnit"`
	BuyingPrice  *types.Money    `json:"buyingPrice"`
	Supplier     *string         `json:"supplier" binding:"omitempty,max=200"`
	Location     *string         `json:"location" binding:"omitempty,max=100"`
	Version      int             `json:"version" binding:"required,min=1"`
}

func (r *UpdateItemRequest) ToInput() item.UpdateInput {
	in := item.UpdateInput{
		Name:         r.Name,
		Unit:         r.Unit,
		MinimumStock: r.MinimumStock,
		CostPerUnit:  r.CostPerUnit,
		BuyingPrice:  r.BuyingPrice,
		Supplier:     r.Supplier,
		Location:     r.Location,
		Version:      r.Version,
	}
	if r.Type != nil {
		t := item.Type(*r.Type)
		in.Type = &t
	}
	return in
}

// ItemListQuery filters GET /items.
type ItemListQuery struct {
	PageQuery
	Search          string `form:"search"`
	Type            string `form:"type" binding:"omitempty,itemtype"`
	IncludeInactive bool   `form:"includeInactive"`
	LowStock        bool   `form:"lowStock"`
}

func (q *ItemListQuery) ToFilter() item.ListFilter {
	return item.ListFilter{
		Search:          q.Search,
		Type:            item.Type(q.Type),
		IncludeInactive: q.IncludeInactive,
		LowStockOnly:    q.LowStock,
		Page:            q.Page(),
	}
}
