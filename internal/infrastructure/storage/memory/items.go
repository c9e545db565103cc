package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/catalogs/item"
)

// ItemRepo implements item.Repository.
type ItemRepo struct{ s *Store }

func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.items[it.ID]; ok {
			return apperror.NewConflict("inventory item already exists").WithDetail("id", it.ID.String())
		}
		row := *it
		row.CurrentStock = 0
		if row.Version == 0 {
			row.Version = 1
		}
		d.items[it.ID] = row
		return nil
	})
}

func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	var out *item.Item
	err := r.s.read(ctx, func(d *data) error {
		row, ok := d.items[itemID]
		if !ok {
			return apperror.NewNotFound("inventory item", itemID.String())
		}
		out = &row
		return nil
	})
	return out, err
}

func (r *ItemRepo) Update(ctx context.Context, it *item.Item) error {
	return r.s.write(ctx, func(d *data) error {
		row, ok := d.items[it.ID]
		if !ok {
			return apperror.NewNotFound("inventory item", it.ID.String())
		}
		if row.Version != it.Version {
			return apperror.NewConcurrentModification("inventory item", it.ID.String())
		}
		next := *it
		next.CurrentStock = row.CurrentStock
		next.IsActive = row.IsActive
		next.CreatedAt = row.CreatedAt
		next.Version = row.Version + 1
		next.UpdatedAt = time.Now().UTC()
		d.items[it.ID] = next
		return nil
	})
}

func (r *ItemRepo) SetActive(ctx context.Context, itemID id.ID, active bool) error {
	return r.s.write(ctx, func(d *data) error {
		row, ok := d.items[itemID]
		if !ok {
			return apperror.NewNotFound("inventory item", itemID.String())
		}
		row.IsActive = active
		row.UpdatedAt = time.Now().UTC()
		d.items[itemID] = row
		return nil
	})
}

func (r *ItemRepo) List(ctx context.Context, filter item.ListFilter) (domain.ListResult[*item.Item], error) {
	var res domain.ListResult[*item.Item]
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	err := r.s.read(ctx, func(d *data) error {
		var all []*item.Item
		for _, row := range d.items {
			if !filter.IncludeInactive && !row.IsActive {
				continue
			}
			if filter.Type != "" && row.Type != filter.Type {
				continue
			}
			if filter.LowStockOnly && !row.IsLow() {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(row.Name), search) {
				continue
			}
			row := row
			all = append(all, &row)
		}
		sortItems(all)
		res = domain.Slice(all, filter.Page)
		return nil
	})
	return res, err
}

func (r *ItemRepo) ListActive(ctx context.Context) ([]*item.Item, error) {
	var out []*item.Item
	err := r.s.read(ctx, func(d *data) error {
		for _, row := range d.items {
			if row.IsActive {
				row := row
				out = append(out, &row)
			}
		}
		sortItems(out)
		return nil
	})
	return out, err
}

func sortItems(items []*item.Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID.String() < items[j].ID.String()
	})
}
