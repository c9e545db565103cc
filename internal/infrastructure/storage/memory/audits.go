package memory

import (
	"context"
	"sort"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/inventory_audit"
)

// AuditRepo implements inventory_audit.Repository.
type AuditRepo struct{ s *Store }

func (row auditRow) materialize(withLines bool) *inventory_audit.Audit {
	a := row.header
	a.Lines = nil
	if withLines {
		a.Lines = make([]*inventory_audit.Line, 0, len(row.lines))
		for _, l := range row.lines {
			l := l
			a.Lines = append(a.Lines, &l)
		}
	}
	return &a
}

func (r *AuditRepo) Create(ctx context.Context, a *inventory_audit.Audit) error {
	return r.s.write(ctx, func(d *data) error {
		if a.Status == inventory_audit.StatusInProgress {
			for _, row := range d.audits {
				if row.header.Status == inventory_audit.StatusInProgress {
					return apperror.NewConflict("another inventory audit is in progress").
						WithDetail("openAuditId", row.header.ID.String())
				}
			}
		}
		row := auditRow{header: *a}
		row.header.Lines = nil
		for _, l := range a.Lines {
			row.lines = append(row.lines, *l)
		}
		d.audits[a.ID] = row
		return nil
	})
}

func (r *AuditRepo) GetByID(ctx context.Context, auditID id.ID) (*inventory_audit.Audit, error) {
	var out *inventory_audit.Audit
	err := r.s.read(ctx, func(d *data) error {
		row, ok := d.audits[auditID]
		if !ok {
			return apperror.NewNotFound("inventory audit", auditID.String())
		}
		out = row.materialize(true)
		return nil
	})
	return out, err
}

func (r *AuditRepo) GetForUpdate(ctx context.Context, auditID id.ID) (*inventory_audit.Audit, error) {
	return r.GetByID(ctx, auditID)
}

func (r *AuditRepo) FindInProgress(ctx context.Context) (*inventory_audit.Audit, error) {
	var out *inventory_audit.Audit
	err := r.s.read(ctx, func(d *data) error {
		for _, row := range d.audits {
			if row.header.Status == inventory_audit.StatusInProgress {
				out = row.materialize(false)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *AuditRepo) UpdateLineCount(ctx context.Context, line *inventory_audit.Line) error {
	return r.s.write(ctx, func(d *data) error {
		row, ok := d.audits[line.AuditID]
		if !ok {
			return apperror.NewNotFound("inventory audit", line.AuditID.String())
		}
		for i := range row.lines {
			if row.lines[i].ID != line.ID {
				continue
			}
			// The snapshot column never changes after start.
			row.lines[i].PhysicalQuantity = line.PhysicalQuantity
			row.lines[i].CountedBy = line.CountedBy
			row.lines[i].CountedAt = line.CountedAt
			d.audits[line.AuditID] = row
			return nil
		}
		return apperror.NewNotFound("inventory audit line", line.ID.String())
	})
}

func (r *AuditRepo) UpdateStatus(ctx context.Context, a *inventory_audit.Audit) error {
	return r.s.write(ctx, func(d *data) error {
		row, ok := d.audits[a.ID]
		if !ok {
			return apperror.NewNotFound("inventory audit", a.ID.String())
		}
		row.header.Status = a.Status
		row.header.CompletedBy = a.CompletedBy
		row.header.CompletedAt = a.CompletedAt
		row.header.UpdatedAt = a.UpdatedAt
		d.audits[a.ID] = row
		return nil
	})
}

func (r *AuditRepo) List(ctx context.Context, filter inventory_audit.ListFilter) (domain.ListResult[*inventory_audit.Audit], error) {
	var res domain.ListResult[*inventory_audit.Audit]
	err := r.s.read(ctx, func(d *data) error {
		var all []*inventory_audit.Audit
		for _, row := range d.audits {
			if filter.Status != "" && row.header.Status != filter.Status {
				continue
			}
			all = append(all, row.materialize(false))
		}
		sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
		res = domain.Slice(all, filter.Page)
		return nil
	})
	return res, err
}
