package memory

import (
	"context"
	"sort"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/product_return"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/wastage"
)

// WastageRepo implements wastage.Repository.
type WastageRepo struct{ s *Store }

func (r *WastageRepo) Create(ctx context.Context, rec *wastage.Record) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.items[rec.ItemID]; !ok {
			return apperror.NewNotFound("inventory item", rec.ItemID.String())
		}
		d.wastage[rec.ID] = *rec
		return nil
	})
}

func (r *WastageRepo) GetByID(ctx context.Context, recordID id.ID) (*wastage.Record, error) {
	var out *wastage.Record
	err := r.s.read(ctx, func(d *data) error {
		rec, ok := d.wastage[recordID]
		if !ok {
			return apperror.NewNotFound("wastage record", recordID.String())
		}
		out = &rec
		return nil
	})
	return out, err
}

func (r *WastageRepo) GetForUpdate(ctx context.Context, recordID id.ID) (*wastage.Record, error) {
	return r.GetByID(ctx, recordID)
}

func (r *WastageRepo) MarkReversed(ctx context.Context, rec *wastage.Record) error {
	return r.s.write(ctx, func(d *data) error {
		stored, ok := d.wastage[rec.ID]
		if !ok {
			return apperror.NewNotFound("wastage record", rec.ID.String())
		}
		if stored.Reversed() {
			return apperror.NewConcurrentModification("wastage record", rec.ID.String())
		}
		stored.ReversedBy = rec.ReversedBy
		stored.ReversedAt = rec.ReversedAt
		d.wastage[rec.ID] = stored
		return nil
	})
}

func (r *WastageRepo) List(ctx context.Context, filter wastage.ListFilter) (domain.ListResult[*wastage.Record], error) {
	var res domain.ListResult[*wastage.Record]
	err := r.s.read(ctx, func(d *data) error {
		var all []*wastage.Record
		for _, rec := range d.wastage {
			if filter.ItemID != nil && rec.ItemID != *filter.ItemID {
				continue
			}
			if !filter.IncludeReversed && rec.Reversed() {
				continue
			}
			if filter.From != nil && rec.CreatedAt.Before(*filter.From) {
				continue
			}
			if filter.To != nil && !rec.CreatedAt.Before(*filter.To) {
				continue
			}
			rec := rec
			all = append(all, &rec)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
		res = domain.Slice(all, filter.Page)
		return nil
	})
	return res, err
}

// ReturnRepo implements product_return.Repository.
type ReturnRepo struct{ s *Store }

func (r *ReturnRepo) Create(ctx context.Context, ret *product_return.Return) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.items[ret.ItemID]; !ok {
			return apperror.NewNotFound("inventory item", ret.ItemID.String())
		}
		d.returns[ret.ID] = *ret
		return nil
	})
}

func (r *ReturnRepo) GetByID(ctx context.Context, returnID id.ID) (*product_return.Return, error) {
	var out *product_return.Return
	err := r.s.read(ctx, func(d *data) error {
		ret, ok := d.returns[returnID]
		if !ok {
			return apperror.NewNotFound("product return", returnID.String())
		}
		out = &ret
		return nil
	})
	return out, err
}

func (r *ReturnRepo) GetForUpdate(ctx context.Context, returnID id.ID) (*product_return.Return, error) {
	return r.GetByID(ctx, returnID)
}

func (r *ReturnRepo) MarkReversed(ctx context.Context, ret *product_return.Return) error {
	return r.s.write(ctx, func(d *data) error {
		stored, ok := d.returns[ret.ID]
		if !ok {
			return apperror.NewNotFound("product return", ret.ID.String())
		}
		if stored.Reversed() {
			return apperror.NewConcurrentModification("product return", ret.ID.String())
		}
		stored.ReversedBy = ret.ReversedBy
		stored.ReversedAt = ret.ReversedAt
		d.returns[ret.ID] = stored
		return nil
	})
}

func (r *ReturnRepo) List(ctx context.Context, filter product_return.ListFilter) (domain.ListResult[*product_return.Return], error) {
	var res domain.ListResult[*product_return.Return]
	err := r.s.read(ctx, func(d *data) error {
		var all []*product_return.Return
		for _, ret := range d.returns {
			if filter.ItemID != nil && ret.ItemID != *filter.ItemID {
				continue
			}
			if !filter.IncludeReversed && ret.Reversed() {
				continue
			}
			ret := ret
			all = append(all, &ret)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
		res = domain.Slice(all, filter.Page)
		return nil
	})
	return res, err
}
