// Package stock is the stock register: the Stock Mutator that changes an item's
// materialized current_stock and the Ledger Recorder that appends the matching
// stock_mutations entry, always inside one unit of work.
package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	appctx "github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/context"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/tx"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
	"github.com/MagetoJ/XYZ-Hotel-sub000/pkg/logger"
)

// Service is the only way stock changes.
type Service struct {
	repo      Repository
	txManager tx.Manager

	rule   *LowStockRule
	events EventPublisher

	allowNegativeAdjust bool
	now                 func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLowStockAlerts publishes EventLowStock whenever a posting makes rule
// start matching.
func WithLowStockAlerts(rule *LowStockRule, events EventPublisher) Option {
	return func(s *Service) {
		s.rule = rule
		s.events = events
	}
}

// WithNegativeAdjustments lets manual adjustments drive stock below zero.
func WithNegativeAdjustments(allow bool) Option {
	return func(s *Service) { s.allowNegativeAdjust = allow }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new stock register service.
func NewService(repo Repository, txManager tx.Manager, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		txManager: txManager,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Post applies p.Delta to the item and appends exactly one ledger entry in the
// same unit of work. When called inside an outer transaction the posting joins
// it, so a failure here aborts the caller's whole operation.
func (s *Service) Post(ctx context.Context, p Posting) (*Result, error) {
	if err := validatePosting(p); err != nil {
		return nil, err
	}

	var res *Result
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		level, applied, err := s.repo.ApplyDelta(ctx, p.ItemID, p.Delta, p.AllowNegative)
		if err != nil {
			return fmt.Errorf("apply delta: %w", err)
		}
		if !applied {
			return apperror.NewInsufficientStock(
				p.ItemID.String(),
				p.Delta.Abs().String(),
				level.CurrentStock.String(),
			).WithDetail("action", string(p.Action))
		}

		m, err := s.record(ctx, p)
		if err != nil {
			return err
		}

		res = &Result{
			Mutation: m,
			Previous: level.CurrentStock - p.Delta,
			Level:    level,
		}
		s.checkLowStock(ctx, res.Previous, level)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug(ctx, "stock posted",
		"item_id", p.ItemID,
		"action", p.Action,
		"delta", p.Delta,
		"stock", res.Level.CurrentStock,
	)
	return res, nil
}

// Note records an informational, zero-delta ledger entry.
func (s *Service) Note(ctx context.Context, p Posting) (*Mutation, error) {
	if id.IsNil(p.ItemID) {
		return nil, apperror.NewValidation("item id is required")
	}
	if !p.Action.Valid() || !p.Action.accepts(0) {
		return nil, apperror.NewValidation("action does not allow a zero-quantity entry").
			WithDetail("action", string(p.Action))
	}
	p.Delta = 0

	var m *Mutation
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetLevel(ctx, p.ItemID); err != nil {
			return err
		}
		var err error
		m, err = s.record(ctx, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// SetTarget describes an absolute correction, used when a physical count is
// authoritative.
type SetTarget struct {
	ItemID        id.ID
	Target        types.Quantity
	Action        Action
	ReferenceType string
	ReferenceID   string
	ActorID       string
	Notes         string
}

// SetTo locks the item, derives delta = target - current and posts it.
// Nothing is recorded when the item already holds target.
func (s *Service) SetTo(ctx context.Context, t SetTarget) (*Result, error) {
	if t.Target.IsNegative() {
		return nil, apperror.NewValidation("target quantity must not be negative")
	}
	if actionDirections[t.Action] != dirAny {
		return nil, apperror.NewValidation("action cannot carry an absolute correction").
			WithDetail("action", string(t.Action))
	}

	var res *Result
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		level, err := s.repo.GetLevelForUpdate(ctx, t.ItemID)
		if err != nil {
			return err
		}

		delta := t.Target - level.CurrentStock
		if delta.IsZero() {
			res = &Result{Previous: level.CurrentStock, Level: level}
			return nil
		}

		res, err = s.Post(ctx, Posting{
			ItemID:        t.ItemID,
			Action:        t.Action,
			Delta:         delta,
			ReferenceType: t.ReferenceType,
			ReferenceID:   t.ReferenceID,
			ActorID:       t.ActorID,
			Notes:         t.Notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// AdjustInput is a direct stock adjustment requested by an operator or a
// collaborating module.
type AdjustInput struct {
	ItemID        id.ID
	Delta         types.Quantity
	Action        Action
	ReferenceType string
	ReferenceID   string
	ActorID       string
	Notes         string
}

// Adjust applies a signed delta. An empty action means manual_adjustment and
// an empty reference type means manual.
func (s *Service) Adjust(ctx context.Context, in AdjustInput) (*Result, error) {
	if in.Action == "" {
		in.Action = ActionManualAdjustment
	}
	if in.ReferenceType == "" {
		in.ReferenceType = RefManual
	}

	res, err := s.Post(ctx, Posting{
		ItemID:        in.ItemID,
		Action:        in.Action,
		Delta:         in.Delta,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		ActorID:       in.ActorID,
		Notes:         in.Notes,
		AllowNegative: s.allowNegativeAdjust,
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock adjusted",
		"item_id", in.ItemID,
		"action", in.Action,
		"delta", in.Delta,
		"stock", res.Level.CurrentStock,
	)
	return res, nil
}

// History returns ledger entries for one item, newest first.
func (s *Service) History(ctx context.Context, filter HistoryFilter) (domain.ListResult[*Mutation], error) {
	if id.IsNil(filter.ItemID) {
		return domain.ListResult[*Mutation]{}, apperror.NewValidation("item id is required")
	}
	for _, a := range filter.Actions {
		if !a.Valid() {
			return domain.ListResult[*Mutation]{}, apperror.NewValidation("unknown action").WithDetail("action", string(a))
		}
	}
	if _, err := s.repo.GetLevel(ctx, filter.ItemID); err != nil {
		return domain.ListResult[*Mutation]{}, err
	}
	filter.Page = filter.Page.Normalize()
	return s.repo.ListMutations(ctx, filter)
}

// Verify compares the materialized stock of one item with its ledger sum.
func (s *Service) Verify(ctx context.Context, itemID id.ID) (*Verification, error) {
	level, err := s.repo.GetLevel(ctx, itemID)
	if err != nil {
		return nil, err
	}
	sum, err := s.repo.SumMutations(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("sum mutations: %w", err)
	}
	return &Verification{ItemID: itemID, Materialized: level.CurrentStock, LedgerSum: sum}, nil
}

// VerifyAll returns every item whose projection drifted from the ledger.
func (s *Service) VerifyAll(ctx context.Context) ([]Verification, error) {
	drift, err := s.repo.ListDrift(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drift: %w", err)
	}
	return drift, nil
}

// Rebuild replays the ledger of one item into its materialized stock.
// The ledger is the system of record, so no entry is written.
func (s *Service) Rebuild(ctx context.Context, itemID id.ID) (*Verification, error) {
	var v *Verification
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		level, err := s.repo.GetLevelForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		sum, err := s.repo.SumMutations(ctx, itemID)
		if err != nil {
			return fmt.Errorf("sum mutations: %w", err)
		}

		v = &Verification{ItemID: itemID, Materialized: level.CurrentStock, LedgerSum: sum}
		if v.Consistent() {
			return nil
		}
		if sum.IsNegative() {
			return apperror.NewConflict("ledger sum is negative, manual review required").
				WithDetail("item_id", itemID.String()).
				WithDetail("ledger_sum", sum.String())
		}
		return s.repo.OverwriteLevel(ctx, itemID, sum)
	})
	if err != nil {
		return nil, err
	}

	if !v.Consistent() {
		logger.Warn(ctx, "stock projection rebuilt from ledger",
			"item_id", itemID,
			"materialized", v.Materialized,
			"ledger_sum", v.LedgerSum,
		)
	}
	return v, nil
}

func (s *Service) record(ctx context.Context, p Posting) (*Mutation, error) {
	m := &Mutation{
		ID:             id.New(),
		ItemID:         p.ItemID,
		Action:         p.Action,
		QuantityChange: p.Delta,
		ReferenceID:    p.ReferenceID,
		ReferenceType:  p.ReferenceType,
		LoggedBy:       appctx.ActorOr(ctx, p.ActorID),
		Notes:          p.Notes,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.InsertMutation(ctx, m); err != nil {
		return nil, fmt.Errorf("insert mutation: %w", err)
	}
	return m, nil
}

// checkLowStock publishes a low-stock event when the rule starts matching.
// Publishing runs in a savepoint and its failure never fails the posting.
func (s *Service) checkLowStock(ctx context.Context, previous types.Quantity, level *Level) {
	if s.rule == nil || s.events == nil {
		return
	}

	before := *level
	before.CurrentStock = previous
	wasLow, err := s.rule.Matches(before)
	if err != nil {
		logger.Warn(ctx, "low stock rule failed", "item_id", level.ItemID, "error", err)
		return
	}
	isLow, err := s.rule.Matches(*level)
	if err != nil {
		logger.Warn(ctx, "low stock rule failed", "item_id", level.ItemID, "error", err)
		return
	}
	if wasLow || !isLow {
		return
	}

	event := Event{
		Type:   EventLowStock,
		ItemID: level.ItemID,
		Payload: map[string]any{
			"item_id":       level.ItemID.String(),
			"name":          level.Name,
			"item_type":     level.ItemType,
			"current_stock": level.CurrentStock.String(),
			"minimum_stock": level.MinimumStock.String(),
		},
	}
	publish := func(ctx context.Context) error { return s.events.Publish(ctx, event) }

	if sp, ok := s.txManager.(tx.SavepointManager); ok {
		err = sp.RunInSavepoint(ctx, publish)
	} else {
		err = publish(ctx)
	}
	if err != nil {
		logger.Warn(ctx, "low stock event not published", "item_id", level.ItemID, "error", err)
	}
}

func validatePosting(p Posting) error {
	if id.IsNil(p.ItemID) {
		return apperror.NewValidation("item id is required")
	}
	if !p.Action.Valid() {
		return apperror.NewValidation("unknown stock action").WithDetail("action", string(p.Action))
	}
	if p.Delta.IsZero() {
		return apperror.NewValidation("quantity change must not be zero").WithDetail("action", string(p.Action))
	}
	if !p.Action.accepts(p.Delta) {
		return apperror.NewValidation("quantity sign does not match action").
			WithDetail("action", string(p.Action)).
			WithDetail("delta", p.Delta.String())
	}
	return nil
}
