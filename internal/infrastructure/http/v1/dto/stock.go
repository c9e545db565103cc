package dto

import (
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
)

// --- Request DTOs ---

// AdjustStockRequest is a signed manual correction.
type AdjustStockRequest struct {
	Delta         types.Quantity `json:"delta"`
	Action        string         `json:"action" binding:"omitempty,stockaction"`
	ReferenceType string         `json:"referenceType" binding:"max=50"`
	ReferenceID   string         `json:"referenceId" binding:"max=100"`
	Notes         string         `json:"notes" binding:"max=500"`
}

func (r *AdjustStockRequest) ToInput(itemID id.ID, actorID string) stock.AdjustInput {
	return stock.AdjustInput{
		ItemID:        itemID,
		Delta:         r.Delta,
		Action:        stock.Action(r.Action),
		ReferenceType: r.ReferenceType,
		ReferenceID:   r.ReferenceID,
		ActorID:       actorID,
		Notes:         r.Notes,
	}
}

// MutationListQuery filters GET /items/:id/mutations.
type MutationListQuery struct {
	PageQuery
	PeriodQuery
	Actions       []string `form:"action" binding:"dive,stockaction"`
	ReferenceType string   `form:"referenceType"`
	ReferenceID   string   `form:"referenceId"`
}

func (q *MutationListQuery) ToFilter(itemID id.ID) stock.HistoryFilter {
	f := stock.HistoryFilter{
		ItemID:        itemID,
		ReferenceType: q.ReferenceType,
		ReferenceID:   q.ReferenceID,
		From:          q.From,
		To:            q.To,
		Page:          q.Page(),
	}
	for _, a := range q.Actions {
		f.Actions = append(f.Actions, stock.Action(a))
	}
	return f
}

// --- Response DTOs ---

// StockResultResponse is the outcome of one posting.
type StockResultResponse struct {
	Mutation      *stock.Mutation `json:"mutation"`
	PreviousStock types.Quantity  `json:"previousStock"`
	CurrentStock  types.Quantity  `json:"currentStock"`
	MinimumStock  types.Quantity  `json:"minimumStock"`
	LowStock      bool            `json:"lowStock"`
}

// FromStockResult converts entity to response DTO.
func FromStockResult(r *stock.Result) StockResultResponse {
	return StockResultResponse{
		Mutation:      r.Mutation,
		PreviousStock: r.Previous,
		CurrentStock:  r.Level.CurrentStock,
		MinimumStock:  r.Level.MinimumStock,
		LowStock:      r.Level.CurrentStock <= r.Level.MinimumStock,
	}
}

// VerificationResponse reports one projection check.
type VerificationResponse struct {
	stock.Verification
	Drift      types.Quantity `json:"drift"`
	Consistent bool           `json:"consistent"`
}

func FromVerification(v stock.Verification) VerificationResponse {
	return VerificationResponse{Verification: v, Drift: v.Drift(), Consistent: v.Consistent()}
}
