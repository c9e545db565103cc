package inventory_audit

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
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/catalogs/item"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
	"github.com/MagetoJ/XYZ-Hotel-sub000/pkg/logger"
)

// StockSetter is the slice of the stock register completion needs.
type StockSetter interface {
	SetTo(ctx context.Context, t stock.SetTarget) (*stock.Result, error)
}

// ItemSource lists the items to snapshot.
type ItemSource interface {
	ListActive(ctx context.Context) ([]*item.Item, error)
}

// Service provides stock-take operations.
type Service struct {
	repo      Repository
	items     ItemSource
	stock     StockSetter
	txManager tx.Manager
	activity  domain.ActivityLog
}

// NewService creates a new audit service. activity may be nil.
func NewService(repo Repository, items ItemSource, stock StockSetter, txManager tx.Manager, activity domain.ActivityLog) *Service {
	return &Service{
		repo:      repo,
		items:     items,
		stock:     stock,
		txManager: txManager,
		activity:  activity,
	}
}

// Start opens an audit and snapshots current_stock of every active item.
// Only one audit may be in progress at a time.
func (s *Service) Start(ctx context.Context, auditDate time.Time, actorID, notes string) (*Audit, error) {
	now := time.Now().UTC()
	if auditDate.IsZero() {
		auditDate = now
	}

	a := &Audit{
		ID:        id.New(),
		AuditDate: auditDate,
		Status:    StatusInProgress,
		Notes:     notes,
		StartedBy: appctx.ActorOr(ctx, actorID),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		open, err := s.repo.FindInProgress(ctx)
		if err != nil {
			return fmt.Errorf("find open audit: %w", err)
		}
		if open != nil {
			return apperror.NewInvalidState("inventory audit", string(open.Status), "start another").
				WithDetail("openAuditId", open.ID.String())
		}

		items, err := s.items.ListActive(ctx)
		if err != nil {
			return fmt.Errorf("list active items: %w", err)
		}
		a.Lines = make([]*Line, 0, len(items))
		for _, it := range items {
			a.Lines = append(a.Lines, &Line{
				ID:             id.New(),
				AuditID:        a.ID,
				ItemID:         it.ID,
				ItemName:       it.Name,
				SystemQuantity: it.CurrentStock,
			})
		}

		if err := s.repo.Create(ctx, a); err != nil {
			return fmt.Errorf("create audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "inventory audit started", "id", a.ID, "lines", len(a.Lines))
	return a, nil
}

// GetByID retrieves an audit with lines.
func (s *Service) GetByID(ctx context.Context, auditID id.ID) (*Audit, error) {
	return s.repo.GetByID(ctx, auditID)
}

// List retrieves audit headers.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Audit], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return domain.ListResult[*Audit]{}, apperror.NewValidation("unknown status").WithDetail("status", string(filter.Status))
	}
	filter.Page = filter.Page.Normalize()
	return s.repo.List(ctx, filter)
}

// RecordCount stores the physical quantity of one line.
func (s *Service) RecordCount(ctx context.Context, auditID, lineID id.ID, physical types.Quantity, actorID string) (*Line, error) {
	if physical.IsNegative() {
		return nil, apperror.NewValidation("physical quantity must not be negative").WithDetail("lineId", lineID.String())
	}

	var line *Line
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetForUpdate(ctx, auditID)
		if err != nil {
			return err
		}
		if err := a.RequireInProgress("record count on"); err != nil {
			return err
		}

		var ok bool
		line, ok = a.LineByID(lineID)
		if !ok {
			return apperror.NewNotFound("inventory audit line", lineID.String())
		}
		if err := line.SetCount(physical, appctx.ActorOr(ctx, actorID), time.Now().UTC()); err != nil {
			return err
		}
		return s.repo.UpdateLineCount(ctx, line)
	})
	if err != nil {
		return nil, err
	}

	logger.Debug(ctx, "inventory audit count recorded",
		"audit_id", auditID,
		"line_id", lineID,
		"physical", physical,
	)
	return line, nil
}

// Complete commits every counted variance and closes the audit.
//
// The physical count is authoritative: stock is set to it, not shifted by
// the variance. The status guard makes a second call fail without effect.
func (s *Service) Complete(ctx context.Context, auditID id.ID, actorID string) (*VarianceReport, error) {
	actor := appctx.ActorOr(ctx, actorID)
	report := &VarianceReport{AuditID: auditID, Lines: []VarianceLine{}}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetForUpdate(ctx, auditID)
		if err != nil {
			return err
		}
		if err := a.Complete(actor, time.Now().UTC()); err != nil {
			return err
		}

		for _, line := range a.Lines {
			if !line.Counted() {
				report.Uncounted++
				continue
			}
			variance := line.Variance()
			if variance.IsZero() {
				continue
			}

			res, err := s.stock.SetTo(ctx, stock.SetTarget{
				ItemID:        line.ItemID,
				Target:        *line.PhysicalQuantity,
				Action:        stock.ActionAuditAdjustment,
				ReferenceType: stock.RefInventoryAudit,
				ReferenceID:   a.ID.String(),
				ActorID:       actor,
				Notes:         fmt.Sprintf("stock-take: system %s, physical %s", line.SystemQuantity, *line.PhysicalQuantity),
			})
			if err != nil {
				return fmt.Errorf("adjust %s: %w", line.ItemID, err)
			}

			vl := VarianceLine{
				LineID:   line.ID,
				ItemID:   line.ItemID,
				ItemName: line.ItemName,
				System:   line.SystemQuantity,
				Physical: *line.PhysicalQuantity,
				Variance: variance,
			}
			if res.Mutation != nil {
				vl.Applied = res.Mutation.QuantityChange
			}
			report.Lines = append(report.Lines, vl)
			report.TotalVariance += variance
		}

		return s.repo.UpdateStatus(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "inventory audit completed",
		"id", auditID,
		"variant_lines", len(report.Lines),
		"uncounted_lines", report.Uncounted,
		"total_variance", report.TotalVariance,
	)
	domain.RecordActivity(ctx, s.activity, domain.ActivityEntry{
		EntityType: stock.RefInventoryAudit,
		EntityID:   auditID,
		Action:     "complete",
		ActorID:    actor,
		Payload:    report,
	})
	return report, nil
}

// Cancel abandons an open audit. Stock is untouched.
func (s *Service) Cancel(ctx context.Context, auditID id.ID, actorID string) (*Audit, error) {
	var a *Audit
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		a, err = s.repo.GetForUpdate(ctx, auditID)
		if err != nil {
			return err
		}
		if err := a.Cancel(time.Now().UTC()); err != nil {
			return err
		}
		return s.repo.UpdateStatus(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "inventory audit cancelled", "id", auditID, "actor", appctx.ActorOr(ctx, actorID))
	return a, nil
}
