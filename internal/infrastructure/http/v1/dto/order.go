package dto

import (
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/order"
)

type OrderLineRequest struct {
	ItemID      *string        `json:"itemId" binding:"omitempty,uuid"`
	Description string         `json:"description" binding:"max=200"`
	Quantity    types.Quantity `json:"quantity"`
	UnitPrice   types.Money    `json:"unitPrice"`
}

type OrderPaymentRequest struct {
	Method string      `json:"method" binding:"required,max=30"`
	Amount types.Money `json:"amount"`
}

// CreateOrderRequest is a POS ticket; bar and minibar lines deduct stock.
type CreateOrderRequest struct {
	TableRef string               `json:"tableRef" binding:"max=50"`
	Lines    []OrderLineRequest   `json:"lines" binding:"required,min=1,dive"`
	Payment  *OrderPaymentRequest `json:"payment"`
}

func (r *CreateOrderRequest) ToInput(actorID string) (order.CreateInput, error) {
	in := order.CreateInput{TableRef: r.TableRef, ActorID: actorID}
	for _, l := range r.Lines {
		itemID, err := OptionalID("itemId", l.ItemID)
		if err != nil {
			return in, err
		}
		in.Lines = append(in.Lines, order.LineInput{
			ItemID:      itemID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	if r.Payment != nil {
		in.Payment = &order.PaymentInput{Method: r.Payment.Method, Amount: r.Payment.Amount}
	}
	return in, nil
}
