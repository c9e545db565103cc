package register_repo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres/pgtest"
)

var levelColumns = []string{"id", "name", "item_type", "current_stock", "minimum_stock"}

func fullSchema() catalog_repo.ItemColumns {
	return catalog_repo.ItemColumns{"item_type": true}
}

func levelRow(itemID id.ID, current types.Quantity) pgtest.Result {
	return pgtest.Row(levelColumns, itemID, "Flour", "kitchen", current, types.NewQuantity(2))
}

func TestApplyDelta_GuardedSingleStatement(t *testing.T) {
	itemID := id.New()
	rec := pgtest.NewRecorder(levelRow(itemID, types.NewQuantity(7)))
	repo := NewStockRepo(rec, fullSchema())

	level, applied, err := repo.ApplyDelta(context.Background(), itemID, types.NewQuantity(-3), false)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, types.NewQuantity(7), level.CurrentStock)

	calls := rec.Calls()
	require.Len(t, calls, 1)
	sql := calls[0].SQL
	assert.Contains(t, sql, "UPDATE inventory_items")
	assert.Contains(t, sql, "SET current_stock = current_stock + $2")
	assert.Contains(t, sql, "WHERE id = $1 AND ($3::boolean OR current_stock + $2 >= 0)")
	assert.Contains(t, sql, "RETURNING id, name, item_type, current_stock, minimum_stock")
	assert.NotContains(t, sql, "SELECT", "the guard must not be split into read-then-write")
	assert.Equal(t, []any{itemID, types.NewQuantity(-3), false}, calls[0].Args)
}

func TestApplyDelta_AllowNegativeIsBoundNotInlined(t *testing.T) {
	itemID := id.New()
	rec := pgtest.NewRecorder(levelRow(itemID, types.NewQuantity(-1)))
	repo := NewStockRepo(rec, fullSchema())

	_, applied, err := repo.ApplyDelta(context.Background(), itemID, types.NewQuantity(-5), true)
	require.NoError(t, err)
	assert.True(t, applied)

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, true, calls[0].Args[2])
}

func TestApplyDelta_GuardRejectedRereadsCurrentLevel(t *testing.T) {
	itemID := id.New()
	rec := pgtest.NewRecorder(
		pgtest.Result{}, // guard matched no row
		levelRow(itemID, types.NewQuantity(2)),
	)
	repo := NewStockRepo(rec, fullSchema())

	level, applied, err := repo.ApplyDelta(context.Background(), itemID, types.NewQuantity(-5), false)
	require.NoError(t, err)
	assert.False(t, applied)
	require.NotNil(t, level)
	assert.Equal(t, types.NewQuantity(2), level.CurrentStock)

	calls := rec.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1].SQL, "SELECT id, name, item_type, current_stock, minimum_stock FROM inventory_items WHERE id = $1")
	assert.NotContains(t, calls[1].SQL, "FOR UPDATE")
	assert.Equal(t, []any{itemID}, calls[1].Args)
}

func TestApplyDelta_UnknownItemIsNotFound(t *testing.T) {
	itemID := id.New()
	rec := pgtest.NewRecorder(pgtest.Result{}, pgtest.Result{})
	repo := NewStockRepo(rec, fullSchema())

	level, applied, err := repo.ApplyDelta(context.Background(), itemID, types.NewQuantity(1), false)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.False(t, apperror.IsInsufficientStock(err))
	assert.False(t, applied)
	assert.Nil(t, level)
	assert.Len(t, rec.Calls(), 2)
}

func TestApplyDelta_DriverErrorSkipsReread(t *testing.T) {
	rec := pgtest.NewRecorder(pgtest.Result{Err: errors.New("connection reset")})
	repo := NewStockRepo(rec, fullSchema())

	_, applied, err := repo.ApplyDelta(context.Background(), id.New(), types.NewQuantity(1), false)
	require.Error(t, err)
	assert.False(t, applied)
	assert.False(t, apperror.IsNotFound(err))
	assert.Len(t, rec.Calls(), 1)
}

func TestGetLevelForUpdate_LocksRow(t *testing.T) {
	itemID := id.New()
	rec := pgtest.NewRecorder(levelRow(itemID, types.NewQuantity(4)), levelRow(itemID, types.NewQuantity(4)))
	repo := NewStockRepo(rec, fullSchema())

	_, err := repo.GetLevelForUpdate(context.Background(), itemID)
	require.NoError(t, err)
	_, err = repo.GetLevel(context.Background(), itemID)
	require.NoError(t, err)

	calls := rec.Calls()
	require.Len(t, calls, 2)
	assert.True(t, strings.HasSuffix(calls[0].SQL, " FOR UPDATE"), calls[0].SQL)
	assert.NotContains(t, calls[1].SQL, "FOR UPDATE")
}

func TestNewStockRepo_LegacySchemaDefaultsItemType(t *testing.T) {
	itemID := id.New()
	rec := pgtest.NewRecorder(levelRow(itemID, types.NewQuantity(1)))
	repo := NewStockRepo(rec, catalog_repo.ItemColumns{})

	_, _, err := repo.ApplyDelta(context.Background(), itemID, types.NewQuantity(1), false)
	require.NoError(t, err)
	assert.Contains(t, rec.Calls()[0].SQL, "'kitchen'::text AS item_type")
}

func TestOverwriteLevel_NoRowIsNotFound(t *testing.T) {
	itemID := id.New()
	rec := pgtest.NewRecorder() // zero command tag, no rows affected
	repo := NewStockRepo(rec, fullSchema())

	err := repo.OverwriteLevel(context.Background(), itemID, types.NewQuantity(3))
	assert.True(t, apperror.IsNotFound(err))
	require.Len(t, rec.Calls(), 1)
	assert.Equal(t, []any{itemID, types.NewQuantity(3)}, rec.Calls()[0].Args)
}
