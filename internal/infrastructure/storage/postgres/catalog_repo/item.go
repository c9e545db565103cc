// Package catalog_repo provides the PostgreSQL item catalog repository.
package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/catalogs/item"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres"
)

const itemsTable = "inventory_items"

// optionalColumns were added after the first deployments. Older databases may
// lack them; reads substitute the default and writes skip the column.
var optionalColumns = map[string]string{
	"buying_price": "0::numeric",
	"supplier":     "''::text",
	"item_type":    "'" + string(item.TypeKitchen) + "'::text",
	"location":     "''::text",
}

// ItemColumns is the set of item columns present in the connected schema.
type ItemColumns map[string]bool

// Has reports whether col exists.
func (c ItemColumns) Has(col string) bool { return c[col] }

// ItemRepo implements item.Repository.
type ItemRepo struct {
	txm        *postgres.TxManager
	columns    ItemColumns
	selectCols []string
	writeCols  []string
}

var _ item.Repository = (*ItemRepo)(nil)

// NewItemRepo inspects the inventory_items schema once and builds the column
// lists the repository reads and writes.
func NewItemRepo(ctx context.Context, txm *postgres.TxManager) (*ItemRepo, error) {
	var present []string
	err := pgxscan.Select(ctx, txm.GetQuerier(ctx), &present, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
	`, itemsTable)
	if err != nil {
		return nil, fmt.Errorf("inspect %s columns: %w", itemsTable, err)
	}
	if len(present) == 0 {
		return nil, fmt.Errorf("table %s not found", itemsTable)
	}

	cols := make(ItemColumns, len(present))
	for _, c := range present {
		cols[c] = true
	}
	return newItemRepo(txm, cols), nil
}

func newItemRepo(txm *postgres.TxManager, cols ItemColumns) *ItemRepo {
	r := &ItemRepo{txm: txm, columns: cols}
	for _, col := range postgres.ExtractDBColumns[item.Item]() {
		if def, optional := optionalColumns[col]; optional && !cols.Has(col) {
			r.selectCols = append(r.selectCols, def+" AS "+col)
			continue
		}
		r.selectCols = append(r.selectCols, col)
		r.writeCols = append(r.writeCols, col)
	}
	return r
}

// Columns exposes the detected schema shape.
func (r *ItemRepo) Columns() ItemColumns { return r.columns }

func (r *ItemRepo) baseSelect() squirrel.SelectBuilder {
	return postgres.Builder().Select(r.selectCols...).From(itemsTable)
}

// Create inserts the item. current_stock always starts at zero; the opening
// balance arrives through the ledger.
func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	data := postgres.Pick(postgres.StructToMap(it), r.writeCols)
	data["current_stock"] = 0

	sql, args, err := postgres.Builder().Insert(itemsTable).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "insert", "inventory item")
	}
	it.CurrentStock = 0
	return nil
}

// GetByID retrieves an item.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"id": itemID}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var it item.Item
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &it, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("inventory item", itemID.String())
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// Update writes catalog fields with optimistic locking on version.
func (r *ItemRepo) Update(ctx context.Context, it *item.Item) error {
	data := postgres.Pick(postgres.StructToMap(it), r.writeCols,
		"id", "current_stock", "is_active", "version", "created_at", "updated_at")

	sql, args, err := postgres.Builder().
		Update(itemsTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": it.ID, "version": it.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "update", "inventory item")
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, it.ID); err != nil {
			return err
		}
		return apperror.NewConcurrentModification("inventory item", it.ID.String())
	}
	return nil
}

// SetActive flips the soft-delete flag.
func (r *ItemRepo) SetActive(ctx context.Context, itemID id.ID, active bool) error {
	sql, args, err := postgres.Builder().
		Update(itemsTable).
		Set("is_active", active).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "update", "inventory item")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("inventory item", itemID.String())
	}
	return nil
}

// List retrieves items with filtering and pagination.
func (r *ItemRepo) List(ctx context.Context, filter item.ListFilter) (domain.ListResult[*item.Item], error) {
	q := r.baseSelect()

	if !filter.IncludeInactive {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	if filter.Type != "" {
		if !r.columns.Has("item_type") {
			// Legacy rows all carry the default type.
			if filter.Type != item.TypeKitchen {
				q = q.Where("FALSE")
			}
		} else {
			q = q.Where(squirrel.Eq{"item_type": string(filter.Type)})
		}
	}
	if filter.LowStockOnly {
		q = q.Where("current_stock <= minimum_stock")
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}

	return postgres.SelectPage[*item.Item](ctx, r.txm.GetQuerier(ctx), q, filter.Page, "name", "id")
}

// ListActive returns every active item ordered by name.
func (r *ItemRepo) ListActive(ctx context.Context) ([]*item.Item, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*item.Item
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list active items: %w", err)
	}
	return items, nil
}
