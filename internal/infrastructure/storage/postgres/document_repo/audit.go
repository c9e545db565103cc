package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
	audit "github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/inventory_audit"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres"
)

const auditLinesTable = "inventory_audit_lines"

// AuditRepo implements inventory_audit.Repository. At most one audit can be
// in progress; the partial unique index inventory_audits_one_in_progress
// enforces it and surfaces as CONFLICT.
type AuditRepo struct {
	*BaseDocumentRepo[audit.Audit]
	batch *postgres.BatchInserter
}

var _ audit.Repository = (*AuditRepo)(nil)

// NewAuditRepo creates a new inventory audit repository.
func NewAuditRepo(txm *postgres.TxManager) *AuditRepo {
	return &AuditRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[audit.Audit](txm, "inventory_audits", "inventory audit"),
		batch:            postgres.NewBatchInserter(txm),
	}
}

// Create inserts the header and streams the snapshot lines with COPY.
func (r *AuditRepo) Create(ctx context.Context, a *audit.Audit) error {
	if err := r.Insert(ctx, a); err != nil {
		if apperror.HasCode(err, apperror.CodeConflict) {
			return apperror.NewConflict("another audit is already in progress").WithCause(err)
		}
		return err
	}

	columns := []string{"id", "audit_id", "item_id", "item_name", "system_quantity"}
	rows := make([][]any, 0, len(a.Lines))
	for _, l := range a.Lines {
		rows = append(rows, []any{l.ID, l.AuditID, l.ItemID, l.ItemName, l.SystemQuantity})
	}
	if _, err := r.batch.CopyFromSlice(ctx, auditLinesTable, columns, rows); err != nil {
		return fmt.Errorf("insert audit lines: %w", err)
	}
	return nil
}

// GetByID loads the audit with its lines.
func (r *AuditRepo) GetByID(ctx context.Context, auditID id.ID) (*audit.Audit, error) {
	return r.load(ctx, auditID, false)
}

// GetForUpdate loads the audit and locks its header row.
func (r *AuditRepo) GetForUpdate(ctx context.Context, auditID id.ID) (*audit.Audit, error) {
	return r.load(ctx, auditID, true)
}

func (r *AuditRepo) load(ctx context.Context, auditID id.ID, forUpdate bool) (*audit.Audit, error) {
	a, err := r.Get(ctx, auditID, forUpdate)
	if err != nil {
		return nil, err
	}
	a.Lines, err = selectLines[audit.Line](ctx, r.querier(ctx), auditLinesTable, "audit_id", auditID, "item_name", "id")
	if err != nil {
		return nil, err
	}
	return a, nil
}

// FindInProgress returns the open audit header, or nil when there is none.
func (r *AuditRepo) FindInProgress(ctx context.Context) (*audit.Audit, error) {
	sql, args, err := r.Select().
		Where(squirrel.Eq{"status": string(audit.StatusInProgress)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var a audit.Audit
	if err := pgxscan.Get(ctx, r.querier(ctx), &a, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find in-progress audit: %w", err)
	}
	return &a, nil
}

// UpdateLineCount writes only the counted fields; the snapshot is immutable.
func (r *AuditRepo) UpdateLineCount(ctx context.Context, line *audit.Line) error {
	tag, err := execSqlizer(ctx, r.querier(ctx), postgres.Builder().
		Update(auditLinesTable).
		Set("physical_quantity", line.PhysicalQuantity).
		Set("counted_by", line.CountedBy).
		Set("counted_at", line.CountedAt).
		Where(squirrel.Eq{"id": line.ID, "audit_id": line.AuditID}))
	if err != nil {
		return postgres.MapError(err, "update", "inventory audit line")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("inventory audit line", line.ID.String())
	}
	return nil
}

// UpdateStatus writes status and completion fields.
func (r *AuditRepo) UpdateStatus(ctx context.Context, a *audit.Audit) error {
	return r.UpdateWhere(ctx, a.ID, r.Update().
		Set("status", string(a.Status)).
		Set("completed_by", a.CompletedBy).
		Set("completed_at", a.CompletedAt).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": a.ID}))
}

// List returns audit headers newest first.
func (r *AuditRepo) List(ctx context.Context, filter audit.ListFilter) (domain.ListResult[*audit.Audit], error) {
	q := r.Select()
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	return r.Page(ctx, q, filter.Page, "created_at DESC", "id DESC")
}
