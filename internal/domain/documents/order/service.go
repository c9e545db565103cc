package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	appctx "github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/context"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/tx"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/catalogs/item"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
	"github.com/MagetoJ/XYZ-Hotel-sub000/pkg/logger"
)

// StockPoster is the slice of the stock register sales need.
type StockPoster interface {
	Post(ctx context.Context, p stock.Posting) (*stock.Result, error)
}

// ItemLookup resolves inventory items referenced by order lines.
type ItemLookup interface {
	GetByID(ctx context.Context, itemID id.ID) (*item.Item, error)
}

// Service creates and voids orders.
type Service struct {
	repo      Repository
	items     ItemLookup
	stock     StockPoster
	txManager tx.Manager
}

// NewService creates a new order service.
func NewService(repo Repository, items ItemLookup, stock StockPoster, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		items:     items,
		stock:     stock,
		txManager: txManager,
	}
}

// LineInput is one ordered product.
type LineInput struct {
	ItemID      *id.ID
	Description string
	Quantity    types.Quantity
	UnitPrice   types.Money
}

// PaymentInput settles the order at creation.
type PaymentInput struct {
	Method string
	Amount types.Money
}

// CreateInput carries a new order.
type CreateInput struct {
	TableRef string
	Lines    []LineInput
	Payment  *PaymentInput
	ActorID  string
}

// Create writes the order, its lines and payment, and deducts bar and
// minibar items with one sale entry per line. An insufficient-stock failure
// on any line rolls back the whole order.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Order, error) {
	now := time.Now().UTC()
	actor := appctx.ActorOr(ctx, in.ActorID)
	o := &Order{
		ID:        id.New(),
		TableRef:  strings.TrimSpace(in.TableRef),
		Status:    StatusOpen,
		CreatedBy: actor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, l := range in.Lines {
		o.Lines = append(o.Lines, &Line{
			ID:          id.New(),
			OrderID:     o.ID,
			LineNo:      i + 1,
			ItemID:      l.ItemID,
			Description: strings.TrimSpace(l.Description),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	if in.Payment != nil {
		o.Payment = &Payment{
			ID:        id.New(),
			OrderID:   o.ID,
			Method:    strings.TrimSpace(in.Payment.Method),
			Amount:    in.Payment.Amount,
			CreatedAt: now,
		}
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	o.RecalculateTotal()

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, l := range o.Lines {
			if l.ItemID == nil {
				continue
			}
			it, err := s.items.GetByID(ctx, *l.ItemID)
			if err != nil {
				return err
			}
			if !it.IsActive {
				return apperror.NewValidation("item is not active").WithDetail("itemId", it.ID.String())
			}
			if l.Description == "" {
				l.Description = it.Name
			}
			l.StockDeducted = it.Type.SoldOverCounter()
		}

		if err := s.repo.Create(ctx, o); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, l := range o.Lines {
			if !l.StockDeducted {
				continue
			}
			if _, err := s.stock.Post(ctx, stock.Posting{
				ItemID:        *l.ItemID,
				Action:        stock.ActionSale,
				Delta:         l.Quantity.Neg(),
				ReferenceType: stock.RefOrder,
				ReferenceID:   o.ID.String(),
				ActorID:       actor,
				Notes:         fmt.Sprintf("order line %d: %s", l.LineNo, l.Description),
			}); err != nil {
				return err
			}
		}

		if o.Payment != nil {
			if err := s.repo.AddPayment(ctx, o.Payment); err != nil {
				return fmt.Errorf("add payment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order created",
		"id", o.ID,
		"lines", len(o.Lines),
		"total", o.Total,
	)
	return o, nil
}

// GetByID retrieves an order with lines and payment.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

// Void cancels an open order and gives back exactly what each line deducted.
func (s *Service) Void(ctx context.Context, orderID id.ID, actorID string) (*Order, error) {
	actor := appctx.ActorOr(ctx, actorID)

	var o *Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.repo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := o.Void(actor, time.Now().UTC()); err != nil {
			return err
		}

		for _, l := range o.Lines {
			if !l.StockDeducted || l.ItemID == nil {
				continue
			}
			if _, err := s.stock.Post(ctx, stock.Posting{
				ItemID:        *l.ItemID,
				Action:        stock.ActionSaleReversal,
				Delta:         l.Quantity,
				ReferenceType: stock.RefOrder,
				ReferenceID:   o.ID.String(),
				ActorID:       actor,
				Notes:         fmt.Sprintf("order voided, line %d", l.LineNo),
			}); err != nil {
				return err
			}
		}
		return s.repo.UpdateStatus(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order voided", "id", orderID)
	return o, nil
}
