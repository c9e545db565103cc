package item

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/tx"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
	"github.com/MagetoJ/XYZ-Hotel-sub000/pkg/logger"
)

// StockPoster is the slice of the stock register the catalog needs.
type StockPoster interface {
	Post(ctx context.Context, p stock.Posting) (*stock.Result, error)
}

// Service provides business logic for the item catalog.
type Service struct {
	repo      Repository
	stock     StockPoster
	txManager tx.Manager
}

// NewService creates a new item catalog service.
func NewService(repo Repository, stock StockPoster, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		stock:     stock,
		txManager: txManager,
	}
}

// CreateInput carries the fields of a new item. OpeningStock, when positive,
// is posted to the ledger as opening_balance.
type CreateInput struct {
	Name         string
	Unit         string
	Type         Type
	MinimumStock types.Quantity
	CostPerUnit  types.Money
	BuyingPrice  types.Money
	Supplier     string
	Location     string
	OpeningStock types.Quantity
	ActorID      string
}

// Create inserts an item at zero stock and posts the opening balance.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Item, error) {
	if in.OpeningStock.IsNegative() {
		return nil, apperror.NewValidation("opening stock must not be negative").WithDetail("field", "openingStock")
	}

	now := time.Now().UTC()
	it := &Item{
		ID:           id.New(),
		Name:         strings.TrimSpace(in.Name),
		Unit:         strings.TrimSpace(in.Unit),
		Type:         in.Type,
		MinimumStock: in.MinimumStock,
		CostPerUnit:  in.CostPerUnit,
		BuyingPrice:  in.BuyingPrice,
		Supplier:     strings.TrimSpace(in.Supplier),
		Location:     strings.TrimSpace(in.Location),
		IsActive:     true,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := it.Validate(); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, it); err != nil {
			return fmt.Errorf("create item: %w", err)
		}
		if !in.OpeningStock.IsPositive() {
			return nil
		}
		res, err := s.stock.Post(ctx, stock.Posting{
			ItemID:        it.ID,
			Action:        stock.ActionOpeningBalance,
			Delta:         in.OpeningStock,
			ReferenceType: stock.RefInventoryItem,
			ReferenceID:   it.ID.String(),
			ActorID:       in.ActorID,
			Notes:         "opening balance",
		})
		if err != nil {
			return err
		}
		it.CurrentStock = res.Level.CurrentStock
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "inventory item created",
		"id", it.ID,
		"name", it.Name,
		"type", it.Type,
		"opening_stock", in.OpeningStock,
	)
	return it, nil
}

// GetByID retrieves an item.
func (s *Service) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	return s.repo.GetByID(ctx, itemID)
}

// UpdateInput holds the catalog fields to change; nil means unchanged.
// Stock is deliberately absent.
type UpdateInput struct {
	Name         *string
	Unit         *string
	Type         *Type
	MinimumStock *types.Quantity
	CostPerUnit  *types.Money
	BuyingPrice  *types.Money
	Supplier     *string
	Location     *string
	Version      int
}

// Update changes catalog fields. A stale Version yields CONCURRENT_MODIFICATION.
func (s *Service) Update(ctx context.Context, itemID id.ID, in UpdateInput) (*Item, error) {
	var it *Item
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		it, err = s.repo.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if in.Version != 0 && in.Version != it.Version {
			return apperror.NewConcurrentModification("inventory item", itemID.String())
		}

		applyUpdate(it, in)
		if err := it.Validate(); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, it); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		it.Version++
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "inventory item updated", "id", it.ID, "version", it.Version)
	return it, nil
}

func applyUpdate(it *Item, in UpdateInput) {
	if in.Name != nil {
		it.Name = strings.TrimSpace(*in.Name)
	}
	if in.Unit != nil {
		it.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.Type != nil {
		it.Type = *in.Type
	}
	if in.MinimumStock != nil {
		it.MinimumStock = *in.MinimumStock
	}
	if in.CostPerUnit != nil {
		it.CostPerUnit = *in.CostPerUnit
	}
	if in.BuyingPrice != nil {
		it.BuyingPrice = *in.BuyingPrice
	}
	if in.Supplier != nil {
		it.Supplier = strings.TrimSpace(*in.Supplier)
	}
	if in.Location != nil {
		it.Location = strings.TrimSpace(*in.Location)
	}
}

// Deactivate soft-deletes an item. Its ledger history stays addressable.
func (s *Service) Deactivate(ctx context.Context, itemID id.ID) (*Item, error) {
	return s.setActive(ctx, itemID, false)
}

// Activate restores a deactivated item.
func (s *Service) Activate(ctx context.Context, itemID id.ID) (*Item, error) {
	return s.setActive(ctx, itemID, true)
}

func (s *Service) setActive(ctx context.Context, itemID id.ID, active bool) (*Item, error) {
	var it *Item
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.SetActive(ctx, itemID, active); err != nil {
			return err
		}
		var err error
		it, err = s.repo.GetByID(ctx, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "inventory item active flag changed", "id", itemID, "active", active)
	return it, nil
}

// List retrieves items with filtering and pagination.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Item], error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return domain.ListResult[*Item]{}, apperror.NewValidation("unknown item type").WithDetail("type", string(filter.Type))
	}
	filter.Page = filter.Page.Normalize()
	return s.repo.List(ctx, filter)
}

// LowStock lists active items at or below their reorder threshold.
func (s *Service) LowStock(ctx context.Context, page domain.Page) (domain.ListResult[*Item], error) {
	return s.List(ctx, ListFilter{LowStockOnly: true, Page: page})
}
