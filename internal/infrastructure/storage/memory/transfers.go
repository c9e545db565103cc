package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/transfer"
)

// TransferRepo implements transfer.Repository.
type TransferRepo struct{ s *Store }

func (r *TransferRepo) Create(ctx context.Context, t *transfer.Transfer) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.items[t.ItemID]; !ok {
			return apperror.NewNotFound("inventory item", t.ItemID.String())
		}
		if _, ok := d.transfers[t.ID]; ok {
			return apperror.NewConflict("stock transfer already exists").WithDetail("id", t.ID.String())
		}
		d.transfers[t.ID] = *t
		return nil
	})
}

func (r *TransferRepo) GetByID(ctx context.Context, transferID id.ID) (*transfer.Transfer, error) {
	var out *transfer.Transfer
	err := r.s.read(ctx, func(d *data) error {
		t, ok := d.transfers[transferID]
		if !ok {
			return apperror.NewNotFound("stock transfer", transferID.String())
		}
		out = &t
		return nil
	})
	return out, err
}

func (r *TransferRepo) GetForUpdate(ctx context.Context, transferID id.ID) (*transfer.Transfer, error) {
	return r.GetByID(ctx, transferID)
}

func (r *TransferRepo) UpdateStatus(ctx context.Context, t *transfer.Transfer, from transfer.Status) error {
	return r.s.write(ctx, func(d *data) error {
		stored, ok := d.transfers[t.ID]
		if !ok {
			return apperror.NewNotFound("stock transfer", t.ID.String())
		}
		if stored.Status != from {
			return apperror.NewConcurrentModification("stock transfer", t.ID.String())
		}
		d.transfers[t.ID] = *t
		return nil
	})
}

func (r *TransferRepo) List(ctx context.Context, filter transfer.ListFilter) (domain.ListResult[*transfer.Transfer], error) {
	var res domain.ListResult[*transfer.Transfer]
	err := r.s.read(ctx, func(d *data) error {
		var all []*transfer.Transfer
		for _, t := range d.transfers {
			if filter.ItemID != nil && t.ItemID != *filter.ItemID {
				continue
			}
			if filter.Status != "" && t.Status != filter.Status {
				continue
			}
			if filter.Location != "" &&
				!strings.EqualFold(t.FromLocation, filter.Location) &&
				!strings.EqualFold(t.ToLocation, filter.Location) {
				continue
			}
			t := t
			all = append(all, &t)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
		res = domain.Slice(all, filter.Page)
		return nil
	})
	return res, err
}
