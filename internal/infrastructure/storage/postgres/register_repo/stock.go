// Package register_repo provides the PostgreSQL stock register repository.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres/catalog_repo"
)

const (
	itemsTable     = "inventory_items"
	mutationsTable = "stock_mutations"
)

// StockRepo implements stock.Repository over inventory_items.current_stock
// (materialized value) and stock_mutations (ledger).
type StockRepo struct {
	txm          postgres.QuerierSource
	levelCols    string
	mutationCols []string
}

var _ stock.Repository = (*StockRepo)(nil)

// NewStockRepo creates a new stock register repository. cols is the detected
// item schema; legacy databases without item_type report the default type.
func NewStockRepo(txm postgres.QuerierSource, cols catalog_repo.ItemColumns) *StockRepo {
	itemType := "item_type"
	if !cols.Has("item_type") {
		itemType = "'kitchen'::text AS item_type"
	}
	return &StockRepo{
		txm:          txm,
		levelCols:    "id, name, " + itemType + ", current_stock, minimum_stock",
		mutationCols: postgres.ExtractDBColumns[stock.Mutation](),
	}
}

// ApplyDelta adds delta in one conditional statement. Concurrent callers
// serialize on the row lock the UPDATE takes, and each re-evaluates the guard
// against the committed value.
func (r *StockRepo) ApplyDelta(ctx context.Context, itemID id.ID, delta types.Quantity, allowNegative bool) (*stock.Level, bool, error) {
	sql := `
		UPDATE ` + itemsTable + `
		SET current_stock = current_stock + $2, updated_at = NOW()
		WHERE id = $1 AND ($3::boolean OR current_stock + $2 >= 0)
		RETURNING ` + r.levelCols

	var level stock.Level
	err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &level, sql, itemID, delta, allowNegative)
	if err == nil {
		return &level, true, nil
	}
	if !pgxscan.NotFound(err) {
		return nil, false, postgres.MapError(err, "apply delta to", "inventory item")
	}

	// Either the item is unknown or the guard rejected the change.
	current, err := r.GetLevel(ctx, itemID)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

// GetLevel reads the materialized stock without locking.
func (r *StockRepo) GetLevel(ctx context.Context, itemID id.ID) (*stock.Level, error) {
	return r.getLevel(ctx, itemID, "")
}

// GetLevelForUpdate reads and row-locks the item.
func (r *StockRepo) GetLevelForUpdate(ctx context.Context, itemID id.ID) (*stock.Level, error) {
	return r.getLevel(ctx, itemID, " FOR UPDATE")
}

func (r *StockRepo) getLevel(ctx context.Context, itemID id.ID, suffix string) (*stock.Level, error) {
	sql := "SELECT " + r.levelCols + " FROM " + itemsTable + " WHERE id = $1" + suffix

	var level stock.Level
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &level, sql, itemID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("inventory item", itemID.String())
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return &level, nil
}

// OverwriteLevel replaces current_stock. Only projection repair calls it.
func (r *StockRepo) OverwriteLevel(ctx context.Context, itemID id.ID, qty types.Quantity) error {
	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, `
		UPDATE `+itemsTable+`
		SET current_stock = $2, updated_at = NOW()
		WHERE id = $1
	`, itemID, qty)
	if err != nil {
		return postgres.MapError(err, "overwrite", "inventory item")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("inventory item", itemID.String())
	}
	return nil
}

// InsertMutation appends one ledger entry.
func (r *StockRepo) InsertMutation(ctx context.Context, m *stock.Mutation) error {
	data := postgres.Pick(postgres.StructToMap(m), r.mutationCols)
	sql, args, err := postgres.Builder().Insert(mutationsTable).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "insert", "stock mutation")
	}
	return nil
}

// ListMutations returns ledger entries newest first.
func (r *StockRepo) ListMutations(ctx context.Context, filter stock.HistoryFilter) (domain.ListResult[*stock.Mutation], error) {
	q := postgres.Builder().Select(r.mutationCols...).From(mutationsTable)

	if !id.IsNil(filter.ItemID) {
		q = q.Where(squirrel.Eq{"item_id": filter.ItemID})
	}
	if len(filter.Actions) > 0 {
		actions := make([]string, len(filter.Actions))
		for i, a := range filter.Actions {
			actions[i] = string(a)
		}
		q = q.Where(squirrel.Eq{"action": actions})
	}
	if filter.ReferenceType != "" {
		q = q.Where(squirrel.Eq{"reference_type": filter.ReferenceType})
	}
	if filter.ReferenceID != "" {
		q = q.Where(squirrel.Eq{"reference_id": filter.ReferenceID})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"created_at": *filter.To})
	}

	// UUIDv7 ids break ties between entries of the same instant.
	return postgres.SelectPage[*stock.Mutation](ctx, r.txm.GetQuerier(ctx), q, filter.Page, "created_at DESC", "id DESC")
}

// SumMutations returns the ledger sum for one item.
func (r *StockRepo) SumMutations(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	var sum types.Quantity
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity_change), 0)
		FROM `+mutationsTable+`
		WHERE item_id = $1
	`, itemID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum mutations: %w", err)
	}
	return sum, nil
}

// ListDrift returns every item whose materialized value differs from its ledger sum.
func (r *StockRepo) ListDrift(ctx context.Context) ([]stock.Verification, error) {
	var drift []stock.Verification
	err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &drift, `
		SELECT i.id AS item_id,
		       i.current_stock AS materialized,
		       COALESCE(s.total, 0) AS ledger_sum
		FROM `+itemsTable+` i
		LEFT JOIN (
			SELECT item_id, SUM(quantity_change) AS total
			FROM `+mutationsTable+`
			GROUP BY item_id
		) s ON s.item_id = i.id
		WHERE i.current_stock <> COALESCE(s.total, 0)
		ORDER BY i.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list drift: %w", err)
	}
	return drift, nil
}
