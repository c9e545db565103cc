package wastage

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

// StockPoster is the slice of the stock register wastage needs.
type StockPoster interface {
	Post(ctx context.Context, p stock.Posting) (*stock.Result, error)
}

// Service records and reverses write-offs.
type Service struct {
	repo      Repository
	stock     StockPoster
	txManager tx.Manager
}

// NewService creates a new wastage service.
func NewService(repo Repository, stock StockPoster, txManager tx.Manager) *Service {
	return &Service{repo: repo, stock: stock, txManager: txManager}
}

// Record writes off qty of an item. Stock may never go negative.
func (s *Service) Record(ctx context.Context, itemID id.ID, qty types.Quantity, reason, actorID string) (*stock.Mutation, error) {
	if !qty.IsPositive() {
		return nil, apperror.NewValidation("wastage quantity must be positive").WithDetail("field", "quantity")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.NewValidation("wastage reason is required").WithDetail("field", "reason")
	}

	rec := &Record{
		ID:        id.New(),
		ItemID:    itemID,
		Quantity:  qty,
		Reason:    reason,
		LoggedBy:  appctx.ActorOr(ctx, actorID),
		CreatedAt: time.Now().UTC(),
	}

	var m *stock.Mutation
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		res, err := s.stock.Post(ctx, stock.Posting{
			ItemID:        itemID,
			Action:        stock.ActionWastage,
			Delta:         qty.Neg(),
			ReferenceType: stock.RefWastage,
			ReferenceID:   rec.ID.String(),
			ActorID:       rec.LoggedBy,
			Notes:         reason,
			AllowNegative: false,
		})
		if err != nil {
			return err
		}
		m = res.Mutation
		if err := s.repo.Create(ctx, rec); err != nil {
			return fmt.Errorf("create wastage record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "wastage recorded", "id", rec.ID, "item_id", itemID, "quantity", qty)
	return m, nil
}

// Reverse undoes a write-off by adding back exactly the stored quantity.
func (s *Service) Reverse(ctx context.Context, recordID id.ID, actorID string) (*stock.Mutation, error) {
	actor := appctx.ActorOr(ctx, actorID)

	var m *stock.Mutation
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetForUpdate(ctx, recordID)
		if err != nil {
			return err
		}
		if err := rec.MarkReversed(actor, time.Now().UTC()); err != nil {
			return err
		}

		res, err := s.stock.Post(ctx, stock.Posting{
			ItemID:        rec.ItemID,
			Action:        stock.ActionWastageReversal,
			Delta:         rec.Quantity,
			ReferenceType: stock.RefWastage,
			ReferenceID:   rec.ID.String(),
			ActorID:       actor,
			Notes:         "wastage reversed: " + rec.Reason,
		})
		if err != nil {
			return err
		}
		m = res.Mutation
		return s.repo.MarkReversed(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "wastage reversed", "id", recordID)
	return m, nil
}

// GetByID retrieves a wastage record.
func (s *Service) GetByID(ctx context.Context, recordID id.ID) (*Record, error) {
	return s.repo.GetByID(ctx, recordID)
}

// List retrieves wastage records.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Record], error) {
	filter.Page = filter.Page.Normalize()
	return s.repo.List(ctx, filter)
}
