package memory

import (
	"context"
	"sort"
	"time"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/catalogs/item"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
)

// StockRepo implements stock.Repository.
type StockRepo struct{ s *Store }

func levelOf(row item.Item) *stock.Level {
	return &stock.Level{
		ItemID:       row.ID,
		Name:         row.Name,
		ItemType:     string(row.Type),
		CurrentStock: row.CurrentStock,
		MinimumStock: row.MinimumStock,
	}
}

func (r *StockRepo) ApplyDelta(ctx context.Context, itemID id.ID, delta types.Quantity, allowNegative bool) (*stock.Level, bool, error) {
	var (
		level   *stock.Level
		applied bool
	)
	err := r.s.write(ctx, func(d *data) error {
		row, ok := d.items[itemID]
		if !ok {
			return apperror.NewNotFound("inventory item", itemID.String())
		}
		if row.CurrentStock+delta < 0 && !allowNegative {
			level = levelOf(row)
			return nil
		}
		row.CurrentStock += delta
		row.UpdatedAt = time.Now().UTC()
		d.items[itemID] = row
		level, applied = levelOf(row), true
		return nil
	})
	return level, applied, err
}

func (r *StockRepo) GetLevel(ctx context.Context, itemID id.ID) (*stock.Level, error) {
	var level *stock.Level
	err := r.s.read(ctx, func(d *data) error {
		row, ok := d.items[itemID]
		if !ok {
			return apperror.NewNotFound("inventory item", itemID.String())
		}
		level = levelOf(row)
		return nil
	})
	return level, err
}

// GetLevelForUpdate is GetLevel; the store lock already serializes writers.
func (r *StockRepo) GetLevelForUpdate(ctx context.Context, itemID id.ID) (*stock.Level, error) {
	return r.GetLevel(ctx, itemID)
}

func (r *StockRepo) OverwriteLevel(ctx context.Context, itemID id.ID, qty types.Quantity) error {
	return r.s.write(ctx, func(d *data) error {
		row, ok := d.items[itemID]
		if !ok {
			return apperror.NewNotFound("inventory item", itemID.String())
		}
		row.CurrentStock = qty
		row.UpdatedAt = time.Now().UTC()
		d.items[itemID] = row
		return nil
	})
}

func (r *StockRepo) InsertMutation(ctx context.Context, m *stock.Mutation) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.items[m.ItemID]; !ok {
			return apperror.NewNotFound("inventory item", m.ItemID.String())
		}
		d.mutations = append(d.mutations, *m)
		return nil
	})
}

func (r *StockRepo) ListMutations(ctx context.Context, filter stock.HistoryFilter) (domain.ListResult[*stock.Mutation], error) {
	var res domain.ListResult[*stock.Mutation]
	err := r.s.read(ctx, func(d *data) error {
		var all []*stock.Mutation
		for i := len(d.mutations) - 1; i >= 0; i-- {
			m := d.mutations[i]
			if !matchesHistory(m, filter) {
				continue
			}
			all = append(all, &m)
		}
		sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
		res = domain.Slice(all, filter.Page)
		return nil
	})
	return res, err
}

func matchesHistory(m stock.Mutation, f stock.HistoryFilter) bool {
	if m.ItemID != f.ItemID {
		return false
	}
	if len(f.Actions) > 0 {
		found := false
		for _, a := range f.Actions {
			if m.Action == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.ReferenceType != "" && m.ReferenceType != f.ReferenceType {
		return false
	}
	if f.ReferenceID != "" && m.ReferenceID != f.ReferenceID {
		return false
	}
	if f.From != nil && m.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !m.CreatedAt.Before(*f.To) {
		return false
	}
	return true
}

func (r *StockRepo) SumMutations(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	var sum types.Quantity
	err := r.s.read(ctx, func(d *data) error {
		for _, m := range d.mutations {
			if m.ItemID == itemID {
				sum += m.QuantityChange
			}
		}
		return nil
	})
	return sum, err
}

func (r *StockRepo) ListDrift(ctx context.Context) ([]stock.Verification, error) {
	var out []stock.Verification
	err := r.s.read(ctx, func(d *data) error {
		sums := make(map[id.ID]types.Quantity, len(d.items))
		for _, m := range d.mutations {
			sums[m.ItemID] += m.QuantityChange
		}
		for itemID, row := range d.items {
			v := stock.Verification{ItemID: itemID, Materialized: row.CurrentStock, LedgerSum: sums[itemID]}
			if !v.Consistent() {
				out = append(out, v)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ItemID.String() < out[j].ItemID.String() })
		return nil
	})
	return out, err
}

// Corrupt overwrites current_stock with no ledger entry, simulating a
// projection that drifted. Tests only.
func (r *StockRepo) Corrupt(itemID id.ID, qty types.Quantity) {
	_ = r.OverwriteLevel(context.Background(), itemID, qty)
}

// Mutations returns a copy of the whole ledger in insertion order.
func (r *StockRepo) Mutations() []stock.Mutation {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]stock.Mutation(nil), r.s.d.mutations...)
}
