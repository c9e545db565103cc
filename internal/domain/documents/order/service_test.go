package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/app/apptest"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/catalogs/item"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/order"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
)

var q = apptest.Q

func TestCreate_DeductsBarItemsOnly(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	beer := env.Item(t, "Lager", item.TypeBar, "24")
	snack := env.Item(t, "Nuts", item.TypeMinibar, "5")
	flour := env.Item(t, "Flour", item.TypeKitchen, "10")

	o, err := env.Orders.Create(ctx, order.CreateInput{
		TableRef: "T4",
		Lines: []order.LineInput{
			{ItemID: &beer.ID, Quantity: q("3"), UnitPrice: types.MustMoney("4.50")},
			{ItemID: &snack.ID, Quantity: q("1"), UnitPrice: types.MustMoney("2.00")},
			{ItemID: &flour.ID, Quantity: q("1"), UnitPrice: types.MustMoney("9.00"), Description: "Pizza"},
			{Description: "Service charge", Quantity: q("1"), UnitPrice: types.MustMoney("1.25")},
		},
		Payment: &order.PaymentInput{Method: "cash", Amount: types.MustMoney("25.75")},
	})
	require.NoError(t, err)

	assert.True(t, types.MustMoney("25.75").Equal(o.Total), "total %s", o.Total)
	assert.Equal(t, "Lager", o.Lines[0].Description)
	assert.True(t, o.Lines[0].StockDeducted)
	assert.True(t, o.Lines[1].StockDeducted)
	assert.False(t, o.Lines[2].StockDeducted)

	assert.Equal(t, q("21"), env.Level(t, beer))
	assert.Equal(t, q("4"), env.Level(t, snack))
	assert.Equal(t, q("10"), env.Level(t, flour))

	got, err := env.Orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Payment)
	assert.Equal(t, "cash", got.Payment.Method)
	assert.Len(t, got.Lines, 4)
	env.RequireConsistent(t)
}

func TestCreate_InsufficientStockRollsBackWholeOrder(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	beer := env.Item(t, "Lager", item.TypeBar, "24")
	whisky := env.Item(t, "Whisky", item.TypeBar, "1")

	_, err := env.Orders.Create(ctx, order.CreateInput{
		Lines: []order.LineInput{
			{ItemID: &beer.ID, Quantity: q("2"), UnitPrice: types.MustMoney("4.50")},
			{ItemID: &whisky.ID, Quantity: q("2"), UnitPrice: types.MustMoney("12.00")},
		},
		Payment: &order.PaymentInput{Method: "card", Amount: types.MustMoney("33.00")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	assert.Equal(t, q("24"), env.Level(t, beer), "earlier line deduction is rolled back")
	assert.Equal(t, q("1"), env.Level(t, whisky))
	assert.Zero(t, env.Store.Orders.Count())
	env.RequireConsistent(t)
}

func TestCreate_RejectsInactiveItem(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	beer := env.Item(t, "Lager", item.TypeBar, "24")
	_, err := env.Items.Deactivate(ctx, beer.ID)
	require.NoError(t, err)

	_, err = env.Orders.Create(ctx, order.CreateInput{
		Lines: []order.LineInput{{ItemID: &beer.ID, Quantity: q("1")}},
	})
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, q("24"), env.Level(t, beer))
}

func TestVoid_ReversesSalesOnce(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	beer := env.Item(t, "Lager", item.TypeBar, "24")

	o, err := env.Orders.Create(ctx, order.CreateInput{
		Lines: []order.LineInput{{ItemID: &beer.ID, Quantity: q("5"), UnitPrice: types.MustMoney("4.50")}},
	})
	require.NoError(t, err)
	assert.Equal(t, q("19"), env.Level(t, beer))

	voided, err := env.Orders.Void(ctx, o.ID, "manager")
	require.NoError(t, err)
	assert.Equal(t, order.StatusVoided, voided.Status)
	assert.Equal(t, q("24"), env.Level(t, beer))

	_, err = env.Orders.Void(ctx, o.ID, "manager")
	assert.True(t, apperror.IsInvalidState(err))
	assert.Equal(t, q("24"), env.Level(t, beer))

	log, err := env.Stock.History(ctx, stock.HistoryFilter{ItemID: beer.ID, ReferenceType: stock.RefOrder})
	require.NoError(t, err)
	require.Len(t, log.Items, 2)
	assert.Equal(t, stock.ActionSaleReversal, log.Items[0].Action)
	assert.Equal(t, stock.ActionSale, log.Items[1].Action)
	env.RequireConsistent(t)
}

func TestCreate_Validation(t *testing.T) {
	env := apptest.New(t)

	_, err := env.Orders.Create(apptest.Ctx(), order.CreateInput{})
	assert.True(t, apperror.IsValidation(err))

	_, err = env.Orders.Create(apptest.Ctx(), order.CreateInput{
		Lines: []order.LineInput{{Description: "Tip", Quantity: q("0")}},
	})
	assert.True(t, apperror.IsValidation(err))
}
