package transfer

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

// StockRegister is the slice of the stock register transfers need.
type StockRegister interface {
	Post(ctx context.Context, p stock.Posting) (*stock.Result, error)
	Note(ctx context.Context, p stock.Posting) (*stock.Mutation, error)
}

// Service provides stock transfer operations.
type Service struct {
	repo      Repository
	stock     StockRegister
	txManager tx.Manager
	activity  domain.ActivityLog
}

// NewService creates a new transfer service. activity may be nil.
func NewService(repo Repository, stock StockRegister, txManager tx.Manager, activity domain.ActivityLog) *Service {
	return &Service{
		repo:      repo,
		stock:     stock,
		txManager: txManager,
		activity:  activity,
	}
}

// CreateInput carries a new transfer.
type CreateInput struct {
	ItemID       id.ID
	FromLocation string
	ToLocation   string
	Quantity     types.Quantity
	Notes        string
	ActorID      string
}

// Create deducts the quantity now and opens a pending transfer.
// Insufficient stock fails the whole call and no transfer row is written.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Transfer, error) {
	now := time.Now().UTC()
	actor := appctx.ActorOr(ctx, in.ActorID)
	t := &Transfer{
		ID:                  id.New(),
		ItemID:              in.ItemID,
		FromLocation:        strings.TrimSpace(in.FromLocation),
		ToLocation:          strings.TrimSpace(in.ToLocation),
		QuantityTransferred: in.Quantity,
		Status:              StatusPending,
		Notes:               in.Notes,
		CreatedBy:           actor,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.stock.Post(ctx, stock.Posting{
			ItemID:        t.ItemID,
			Action:        stock.ActionTransferInitiated,
			Delta:         t.QuantityTransferred.Neg(),
			ReferenceType: stock.RefStockTransfer,
			ReferenceID:   t.ID.String(),
			ActorID:       actor,
			Notes:         fmt.Sprintf("transfer %s -> %s", t.FromLocation, t.ToLocation),
		}); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, t); err != nil {
			return fmt.Errorf("create transfer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock transfer created",
		"id", t.ID,
		"item_id", t.ItemID,
		"quantity", t.QuantityTransferred,
		"from", t.FromLocation,
		"to", t.ToLocation,
	)
	return t, nil
}

// GetByID retrieves a transfer.
func (s *Service) GetByID(ctx context.Context, transferID id.ID) (*Transfer, error) {
	return s.repo.GetByID(ctx, transferID)
}

// List retrieves transfers.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Transfer], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return domain.ListResult[*Transfer]{}, apperror.NewValidation("unknown status").WithDetail("status", string(filter.Status))
	}
	filter.Page = filter.Page.Normalize()
	return s.repo.List(ctx, filter)
}

// Dispatch marks a pending transfer in transit. Stock is untouched.
func (s *Service) Dispatch(ctx context.Context, transferID id.ID, actorID string) (*Transfer, error) {
	return s.transition(ctx, transferID, appctx.ActorOr(ctx, actorID), "dispatch", func(ctx context.Context, t *Transfer, now time.Time) error {
		return t.Dispatch(now)
	})
}

// Receive confirms arrival. The deduction already happened at creation, so
// only a zero-quantity transfer_completed entry is written.
func (s *Service) Receive(ctx context.Context, transferID id.ID, actorID string) (*Transfer, error) {
	actor := appctx.ActorOr(ctx, actorID)
	return s.transition(ctx, transferID, actor, "receive", func(ctx context.Context, t *Transfer, now time.Time) error {
		if err := t.Receive(actor, now); err != nil {
			return err
		}
		_, err := s.stock.Note(ctx, stock.Posting{
			ItemID:        t.ItemID,
			Action:        stock.ActionTransferCompleted,
			ReferenceType: stock.RefStockTransfer,
			ReferenceID:   t.ID.String(),
			ActorID:       actor,
			Notes:         fmt.Sprintf("received at %s", t.ToLocation),
		})
		return err
	})
}

// Cancel restores exactly the deducted quantity. The row lock and the status
// guard make a second cancel, or a cancel after receive, fail with INVALID_STATE.
func (s *Service) Cancel(ctx context.Context, transferID id.ID, actorID string) (*Transfer, error) {
	actor := appctx.ActorOr(ctx, actorID)
	return s.transition(ctx, transferID, actor, "cancel", func(ctx context.Context, t *Transfer, now time.Time) error {
		if err := t.Cancel(actor, now); err != nil {
			return err
		}
		_, err := s.stock.Post(ctx, stock.Posting{
			ItemID:        t.ItemID,
			Action:        stock.ActionTransferCancelled,
			Delta:         t.QuantityTransferred,
			ReferenceType: stock.RefStockTransfer,
			ReferenceID:   t.ID.String(),
			ActorID:       actor,
			Notes:         "transfer cancelled",
		})
		return err
	})
}

type transitionFunc func(ctx context.Context, t *Transfer, now time.Time) error

func (s *Service) transition(ctx context.Context, transferID id.ID, actor, operation string, fn transitionFunc) (*Transfer, error) {
	var t *Transfer
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		t, err = s.repo.GetForUpdate(ctx, transferID)
		if err != nil {
			return err
		}

		from := t.Status
		if err := fn(ctx, t, time.Now().UTC()); err != nil {
			return err
		}
		return s.repo.UpdateStatus(ctx, t, from)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock transfer "+operation,
		"id", t.ID,
		"item_id", t.ItemID,
		"status", t.Status,
	)
	domain.RecordActivity(ctx, s.activity, domain.ActivityEntry{
		EntityType: stock.RefStockTransfer,
		EntityID:   t.ID,
		Action:     operation,
		ActorID:    actor,
		Payload:    t,
	})
	return t, nil
}
