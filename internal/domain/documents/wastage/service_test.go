package wastage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/app/apptest"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/catalogs/item"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/wastage"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
)

var q = apptest.Q

func TestRecordAndReverse(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	lettuce := env.Item(t, "Lettuce", item.TypeKitchen, "10")

	m, err := env.Wastage.Record(ctx, lettuce.ID, q("3"), "wilted", "")
	require.NoError(t, err)
	assert.Equal(t, stock.ActionWastage, m.Action)
	assert.Equal(t, q("-3"), m.QuantityChange)
	assert.Equal(t, stock.RefWastage, m.ReferenceType)
	assert.Equal(t, q("7"), env.Level(t, lettuce))

	recordID := id.MustParse(m.ReferenceID)
	rec, err := env.Wastage.GetByID(ctx, recordID)
	require.NoError(t, err)
	assert.Equal(t, "wilted", rec.Reason)
	assert.Equal(t, apptest.Actor, rec.LoggedBy)

	rev, err := env.Wastage.Reverse(ctx, recordID, "")
	require.NoError(t, err)
	assert.Equal(t, stock.ActionWastageReversal, rev.Action)
	assert.Equal(t, q("3"), rev.QuantityChange)
	assert.Equal(t, q("10"), env.Level(t, lettuce))

	_, err = env.Wastage.Reverse(ctx, recordID, "")
	assert.True(t, apperror.IsInvalidState(err))
	assert.Equal(t, q("10"), env.Level(t, lettuce))

	active, err := env.Wastage.List(ctx, wastage.ListFilter{ItemID: &lettuce.ID})
	require.NoError(t, err)
	assert.Empty(t, active.Items)
	all, err := env.Wastage.List(ctx, wastage.ListFilter{ItemID: &lettuce.ID, IncludeReversed: true})
	require.NoError(t, err)
	assert.Len(t, all.Items, 1)
	env.RequireConsistent(t)
}

func TestRecord_NeverGoesNegative(t *testing.T) {
	env := apptest.New(t)
	lettuce := env.Item(t, "Lettuce", item.TypeKitchen, "2")

	_, err := env.Wastage.Record(apptest.Ctx(), lettuce.ID, q("2.5"), "dropped", "")
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, q("2"), env.Level(t, lettuce))

	list, err := env.Wastage.List(apptest.Ctx(), wastage.ListFilter{IncludeReversed: true})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestRecord_Validation(t *testing.T) {
	env := apptest.New(t)
	lettuce := env.Item(t, "Lettuce", item.TypeKitchen, "2")

	_, err := env.Wastage.Record(apptest.Ctx(), lettuce.ID, q("0"), "x", "")
	assert.True(t, apperror.IsValidation(err))
	_, err = env.Wastage.Record(apptest.Ctx(), lettuce.ID, q("1"), "  ", "")
	assert.True(t, apperror.IsValidation(err))
}
