package product_return

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
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
	"github.com/MagetoJ/XYZ-Hotel-sub000/pkg/logger"
)

// StockPoster is the slice of the stock register returns need.
type StockPoster interface {
	Post(ctx context.Context, p stock.Posting) (*stock.Result, error)
}

// Service records and reverses returns.
type Service struct {
	repo      Repository
	stock     StockPoster
	txManager tx.Manager
}

// NewService creates a new return service.
func NewService(repo Repository, stock StockPoster, txManager tx.Manager) *Service {
	return &Service{repo: repo, stock: stock, txManager: txManager}
}

// RecordInput carries a new return.
type RecordInput struct {
	ItemID   id.ID
	Quantity types.Quantity
	OrderID  *id.ID
	Reason   string
	ActorID  string
}

// Record puts qty back into stock.
func (s *Service) Record(ctx context.Context, in RecordInput) (*stock.Mutation, error) {
	if !in.Quantity.IsPositive() {
		return nil, apperror.NewValidation("return quantity must be positive").WithDetail("field", "quantity")
	}

	ret := &Return{
		ID:        id.New(),
		ItemID:    in.ItemID,
		Quantity:  in.Quantity,
		OrderID:   in.OrderID,
		Reason:    strings.TrimSpace(in.Reason),
		LoggedBy:  appctx.ActorOr(ctx, in.ActorID),
		CreatedAt: time.Now().UTC(),
	}

	var m *stock.Mutation
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		res, err := s.stock.Post(ctx, stock.Posting{
			ItemID:        ret.ItemID,
			Action:        stock.ActionReturnIncrement,
			Delta:         ret.Quantity,
			ReferenceType: stock.RefProductReturn,
			ReferenceID:   ret.ID.String(),
			ActorID:       ret.LoggedBy,
			Notes:         ret.Reason,
		})
		if err != nil {
			return err
		}
		m = res.Mutation
		if err := s.repo.Create(ctx, ret); err != nil {
			return fmt.Errorf("create product return: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "product return recorded", "id", ret.ID, "item_id", ret.ItemID, "quantity", ret.Quantity)
	return m, nil
}

// Reverse removes exactly the stored quantity again. It fails with
// INSUFFICIENT_STOCK when the returned goods were already consumed.
func (s *Service) Reverse(ctx context.Context, returnID id.ID, actorID string) (*stock.Mutation, error) {
	actor := appctx.ActorOr(ctx, actorID)

	var m *stock.Mutation
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		ret, err := s.repo.GetForUpdate(ctx, returnID)
		if err != nil {
			return err
		}
		if err := ret.MarkReversed(actor, time.Now().UTC()); err != nil {
			return err
		}

		res, err := s.stock.Post(ctx, stock.Posting{
			ItemID:        ret.ItemID,
			Action:        stock.ActionReturnReversal,
			Delta:         ret.Quantity.Neg(),
			ReferenceType: stock.RefProductReturn,
			ReferenceID:   ret.ID.String(),
			ActorID:       actor,
			Notes:         "return reversed",
		})
		if err != nil {
			return err
		}
		m = res.Mutation
		return s.repo.MarkReversed(ctx, ret)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "product return reversed", "id", returnID)
	return m, nil
}

// GetByID retrieves a return.
func (s *Service) GetByID(ctx context.Context, returnID id.ID) (*Return, error) {
	return s.repo.GetByID(ctx, returnID)
}

// List retrieves returns.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Return], error) {
	filter.Page = filter.Page.Normalize()
	return s.repo.List(ctx, filter)
}
