package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/purchase_order"
)

// PurchaseOrderRepo implements purchase_order.Repository.
type PurchaseOrderRepo struct{ s *Store }

func (row poRow) materialize(withLines bool) *purchase_order.PurchaseOrder {
	po := row.header
	po.Lines = nil
	if withLines {
		po.Lines = make([]*purchase_order.Line, 0, len(row.lines))
		for _, l := range row.lines {
			l := l
			po.Lines = append(po.Lines, &l)
		}
	}
	return &po
}

func (r *PurchaseOrderRepo) Create(ctx context.Context, po *purchase_order.PurchaseOrder) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.pos[po.ID]; ok {
			return apperror.NewConflict("purchase order already exists").WithDetail("id", po.ID.String())
		}
		row := poRow{header: *po}
		row.header.Lines = nil
		for _, l := range po.Lines {
			if _, ok := d.items[l.ItemID]; !ok {
				return apperror.NewNotFound("inventory item", l.ItemID.String())
			}
			row.lines = append(row.lines, *l)
		}
		d.pos[po.ID] = row
		return nil
	})
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, poID id.ID) (*purchase_order.PurchaseOrder, error) {
	var out *purchase_order.PurchaseOrder
	err := r.s.read(ctx, func(d *data) error {
		row, ok := d.pos[poID]
		if !ok {
			return apperror.NewNotFound("purchase order", poID.String())
		}
		out = row.materialize(true)
		return nil
	})
	return out, err
}

func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, poID id.ID) (*purchase_order.PurchaseOrder, error) {
	return r.GetByID(ctx, poID)
}

func (r *PurchaseOrderRepo) UpdateLineReceived(ctx context.Context, lineID id.ID, received types.Quantity) error {
	return r.s.write(ctx, func(d *data) error {
		for poID, row := range d.pos {
			for i := range row.lines {
				if row.lines[i].ID != lineID {
					continue
				}
				lines := append([]purchase_order.Line(nil), row.lines...)
				lines[i].QuantityReceived = received
				row.lines = lines
				row.header.UpdatedAt = time.Now().UTC()
				d.pos[poID] = row
				return nil
			}
		}
		return apperror.NewNotFound("purchase order line", lineID.String())
	})
}

func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, po *purchase_order.PurchaseOrder) error {
	return r.s.write(ctx, func(d *data) error {
		row, ok := d.pos[po.ID]
		if !ok {
			return apperror.NewNotFound("purchase order", po.ID.String())
		}
		row.header.Status = po.Status
		row.header.ReceivedAt = po.ReceivedAt
		row.header.Version++
		row.header.UpdatedAt = time.Now().UTC()
		d.pos[po.ID] = row
		return nil
	})
}

func (r *PurchaseOrderRepo) List(ctx context.Context, filter purchase_order.ListFilter) (domain.ListResult[*purchase_order.PurchaseOrder], error) {
	var res domain.ListResult[*purchase_order.PurchaseOrder]
	supplier := strings.ToLower(strings.TrimSpace(filter.Supplier))
	err := r.s.read(ctx, func(d *data) error {
		var all []*purchase_order.PurchaseOrder
		for _, row := range d.pos {
			h := row.header
			if filter.Status != "" && h.Status != filter.Status {
				continue
			}
			if supplier != "" && !strings.Contains(strings.ToLower(h.Supplier), supplier) {
				continue
			}
			if filter.From != nil && h.OrderDate.Before(*filter.From) {
				continue
			}
			if filter.To != nil && !h.OrderDate.Before(*filter.To) {
				continue
			}
			all = append(all, row.materialize(false))
		}
		sort.Slice(all, func(i, j int) bool { return all[i].OrderDate.After(all[j].OrderDate) })
		res = domain.Slice(all, filter.Page)
		return nil
	})
	return res, err
}
