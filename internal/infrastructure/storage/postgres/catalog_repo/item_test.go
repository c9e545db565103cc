package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/catalogs/item"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres"
)

func fullSchema() ItemColumns {
	cols := ItemColumns{}
	for _, c := range postgres.ExtractDBColumns[item.Item]() {
		cols[c] = true
	}
	return cols
}

func TestNewItemRepo_FullSchema(t *testing.T) {
	r := newItemRepo(nil, fullSchema())

	assert.Equal(t, r.selectCols, r.writeCols)
	assert.Contains(t, r.writeCols, "item_type")
	assert.Contains(t, r.writeCols, "buying_price")
}

func TestNewItemRepo_LegacySchema(t *testing.T) {
	cols := fullSchema()
	delete(cols, "item_type")
	delete(cols, "supplier")
	r := newItemRepo(nil, cols)

	assert.NotContains(t, r.writeCols, "item_type")
	assert.NotContains(t, r.writeCols, "supplier")
	assert.Contains(t, r.selectCols, "'kitchen'::text AS item_type")
	assert.Contains(t, r.selectCols, "''::text AS supplier")
	assert.Len(t, r.selectCols, len(r.writeCols)+2)

	sql, _, err := r.baseSelect().ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "'kitchen'::text AS item_type")
	assert.Contains(t, sql, "FROM inventory_items")
}

func TestItemColumns_Has(t *testing.T) {
	cols := ItemColumns{"name": true}
	assert.True(t, cols.Has("name"))
	assert.False(t, cols.Has("location"))
}
