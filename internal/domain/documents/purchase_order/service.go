package purchase_order

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
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/catalogs/item"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
	"github.com/MagetoJ/XYZ-Hotel-sub000/pkg/logger"
)

// StockPoster is the slice of the stock register receiving needs.
type StockPoster interface {
	Post(ctx context.Context, p stock.Posting) (*stock.Result, error)
}

// ItemLookup resolves catalog items referenced by order lines.
type ItemLookup interface {
	GetByID(ctx context.Context, itemID id.ID) (*item.Item, error)
}

// Service provides purchase order operations.
type Service struct {
	repo      Repository
	items     ItemLookup
	stock     StockPoster
	txManager tx.Manager
	activity  domain.ActivityLog
}

// NewService creates a new purchase order service. activity may be nil.
func NewService(repo Repository, items ItemLookup, stock StockPoster, txManager tx.Manager, activity domain.ActivityLog) *Service {
	return &Service{
		repo:      repo,
		items:     items,
		stock:     stock,
		txManager: txManager,
		activity:  activity,
	}
}

// CreateLine is one ordered item.
type CreateLine struct {
	ItemID          id.ID
	QuantityOrdered types.Quantity
	UnitCost        types.Money
}

// CreateInput carries a new purchase order.
type CreateInput struct {
	Supplier     string
	OrderDate    time.Time
	ExpectedDate *time.Time
	Notes        string
	Lines        []CreateLine
	ActorID      string
}

// Create inserts a pending purchase order.
func (s *Service) Create(ctx context.Context, in CreateInput) (*PurchaseOrder, error) {
	now := time.Now().UTC()
	po := &PurchaseOrder{
		ID:           id.New(),
		Supplier:     strings.TrimSpace(in.Supplier),
		OrderDate:    in.OrderDate,
		ExpectedDate: in.ExpectedDate,
		Status:       StatusPending,
		Notes:        in.Notes,
		CreatedBy:    appctx.ActorOr(ctx, in.ActorID),
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if po.OrderDate.IsZero() {
		po.OrderDate = now
	}
	for i, l := range in.Lines {
		po.Lines = append(po.Lines, &Line{
			ID:              id.New(),
			PurchaseOrderID: po.ID,
			LineNo:          i + 1,
			ItemID:          l.ItemID,
			QuantityOrdered: l.QuantityOrdered,
			UnitCost:        l.UnitCost,
		})
	}
	if err := po.Validate(); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, l := range po.Lines {
			if _, err := s.items.GetByID(ctx, l.ItemID); err != nil {
				return err
			}
		}
		if err := s.repo.Create(ctx, po); err != nil {
			return fmt.Errorf("create purchase order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase order created",
		"id", po.ID,
		"supplier", po.Supplier,
		"lines", len(po.Lines),
	)
	return po, nil
}

// GetByID retrieves a purchase order with lines.
func (s *Service) GetByID(ctx context.Context, poID id.ID) (*PurchaseOrder, error) {
	return s.repo.GetByID(ctx, poID)
}

// List retrieves purchase order headers.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return domain.ListResult[*PurchaseOrder]{}, apperror.NewValidation("unknown status").WithDetail("status", string(filter.Status))
	}
	filter.Page = filter.Page.Normalize()
	return s.repo.List(ctx, filter)
}

// Receipt is the cumulative quantity received so far on one line.
type Receipt struct {
	LineID                id.ID
	QuantityReceivedTotal types.Quantity
}

// AppliedLine reports what one receipt did.
type AppliedLine struct {
	LineID   id.ID          `json:"lineId"`
	ItemID   id.ID          `json:"itemId"`
	Previous types.Quantity `json:"previousReceived"`
	Received types.Quantity `json:"quantityReceived"`
	Applied  types.Quantity `json:"appliedDelta"`
}

// ReceiveResult is the outcome of a receive call.
type ReceiveResult struct {
	PurchaseOrderID id.ID         `json:"purchaseOrderId"`
	Status          Status        `json:"status"`
	Lines           []AppliedLine `json:"lines"`
	Skipped         []id.ID       `json:"skippedLineIds,omitempty"`
}

// Receive books cumulative receipts against an order.
//
// The order row stays locked for the whole call, so concurrent receives on
// the same order serialize and each sees the other's quantity_received.
// Totals are clamped to what was ordered and only the positive increment
// reaches stock, so replaying the same request changes nothing.
func (s *Service) Receive(ctx context.Context, poID id.ID, receipts []Receipt, actorID string) (*ReceiveResult, error) {
	if len(receipts) == 0 {
		return nil, apperror.NewValidation("at least one line receipt is required")
	}

	actor := appctx.ActorOr(ctx, actorID)
	var res *ReceiveResult
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		po, err := s.repo.GetForUpdate(ctx, poID)
		if err != nil {
			return err
		}
		if err := po.CanReceive(); err != nil {
			return err
		}

		res = &ReceiveResult{PurchaseOrderID: po.ID, Lines: make([]AppliedLine, 0, len(receipts))}
		for _, r := range receipts {
			line, ok := po.LineByID(r.LineID)
			if !ok {
				res.Skipped = append(res.Skipped, r.LineID)
				continue
			}

			previous := line.QuantityReceived
			clamped, delta := line.Reconcile(r.QuantityReceivedTotal)
			applied := AppliedLine{LineID: line.ID, ItemID: line.ItemID, Previous: previous, Received: previous}

			if delta.IsPositive() {
				_, err := s.stock.Post(ctx, stock.Posting{
					ItemID:        line.ItemID,
					Action:        stock.ActionPurchaseReceived,
					Delta:         delta,
					ReferenceType: stock.RefPurchaseOrder,
					ReferenceID:   po.ID.String(),
					ActorID:       actor,
					Notes:         fmt.Sprintf("PO line %d received %s of %s", line.LineNo, clamped, line.QuantityOrdered),
				})
				if err != nil {
					return err
				}
				if err := s.repo.UpdateLineReceived(ctx, line.ID, clamped); err != nil {
					return fmt.Errorf("update line received: %w", err)
				}
				line.QuantityReceived = clamped
				applied.Received = clamped
				applied.Applied = delta
			}
			res.Lines = append(res.Lines, applied)
		}

		before := po.Status
		po.RecomputeStatus(time.Now().UTC())
		if po.Status != before {
			if err := s.repo.UpdateStatus(ctx, po); err != nil {
				return fmt.Errorf("update purchase order status: %w", err)
			}
		}
		res.Status = po.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(res.Skipped) > 0 {
		logger.Warn(ctx, "purchase order receipt referenced unknown lines",
			"id", poID,
			"skipped", len(res.Skipped),
		)
	}
	logger.Info(ctx, "purchase order received",
		"id", poID,
		"status", res.Status,
		"lines", len(res.Lines),
	)
	domain.RecordActivity(ctx, s.activity, domain.ActivityEntry{
		EntityType: stock.RefPurchaseOrder,
		EntityID:   poID,
		Action:     "receive",
		ActorID:    actor,
		Payload:    res,
	})
	return res, nil
}

// Cancel cancels an order that is not yet fully received. No stock moves.
func (s *Service) Cancel(ctx context.Context, poID id.ID, actorID string) (*PurchaseOrder, error) {
	var po *PurchaseOrder
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.repo.GetForUpdate(ctx, poID)
		if err != nil {
			return err
		}
		if err := po.Cancel(); err != nil {
			return err
		}
		return s.repo.UpdateStatus(ctx, po)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase order cancelled", "id", poID, "actor", appctx.ActorOr(ctx, actorID))
	return po, nil
}
