package transfer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/app/apptest"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/catalogs/item"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/transfer"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
)

var q = apptest.Q

func create(t *testing.T, env *apptest.Env, it *item.Item, qty string) *transfer.Transfer {
	t.Helper()
	tr, err := env.Transfers.Create(apptest.Ctx(), transfer.CreateInput{
		ItemID:       it.ID,
		FromLocation: "Main store",
		ToLocation:   "Pool bar",
		Quantity:     q(qty),
	})
	require.NoError(t, err)
	return tr
}

func TestCreate_DeductsImmediately(t *testing.T) {
	env := apptest.New(t)
	vodka := env.Item(t, "Vodka", item.TypeBar, "12")

	tr := create(t, env, vodka, "5")
	assert.Equal(t, transfer.StatusPending, tr.Status)
	assert.Equal(t, q("7"), env.Level(t, vodka))

	log, err := env.Stock.History(apptest.Ctx(), stock.HistoryFilter{ItemID: vodka.ID, ReferenceID: tr.ID.String()})
	require.NoError(t, err)
	require.Len(t, log.Items, 1)
	assert.Equal(t, stock.ActionTransferInitiated, log.Items[0].Action)
	assert.Equal(t, q("-5"), log.Items[0].QuantityChange)
}

func TestCreate_InsufficientStockWritesNothing(t *testing.T) {
	env := apptest.New(t)
	vodka := env.Item(t, "Vodka", item.TypeBar, "2")

	_, err := env.Transfers.Create(apptest.Ctx(), transfer.CreateInput{
		ItemID: vodka.ID, FromLocation: "Main store", ToLocation: "Pool bar", Quantity: q("3"),
	})
	assert.True(t, apperror.IsInsufficientStock(err))

	list, err := env.Transfers.List(apptest.Ctx(), transfer.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Equal(t, q("2"), env.Level(t, vodka))
}

func TestCreate_Validation(t *testing.T) {
	env := apptest.New(t)
	vodka := env.Item(t, "Vodka", item.TypeBar, "2")

	tests := []struct {
		name string
		in   transfer.CreateInput
	}{
		{"zero quantity", transfer.CreateInput{ItemID: vodka.ID, FromLocation: "A", ToLocation: "B"}},
		{"same location", transfer.CreateInput{ItemID: vodka.ID, FromLocation: "Bar", ToLocation: " bar ", Quantity: q("1")}},
		{"missing destination", transfer.CreateInput{ItemID: vodka.ID, FromLocation: "Bar", Quantity: q("1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Transfers.Create(apptest.Ctx(), tt.in)
			assert.True(t, apperror.IsValidation(err), "got %v", err)
		})
	}
}

func TestReceive_NoStockChange(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	vodka := env.Item(t, "Vodka", item.TypeBar, "12")
	tr := create(t, env, vodka, "5")

	_, err := env.Transfers.Dispatch(ctx, tr.ID, "")
	require.NoError(t, err)

	got, err := env.Transfers.Receive(ctx, tr.ID, "barman")
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusReceived, got.Status)
	require.NotNil(t, got.ReceivedBy)
	assert.Equal(t, "barman", *got.ReceivedBy)
	assert.Equal(t, q("7"), env.Level(t, vodka))

	_, err = env.Transfers.Cancel(ctx, tr.ID, "")
	assert.True(t, apperror.IsInvalidState(err), "cancel after receive")
	assert.Equal(t, q("7"), env.Level(t, vodka))

	assert.Len(t, env.Store.Activity.Entries(tr.ID), 2)
	env.RequireConsistent(t)
}

func TestCancel_RestoresExactlyOnce(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	vodka := env.Item(t, "Vodka", item.TypeBar, "12")
	tr := create(t, env, vodka, "5")

	got, err := env.Transfers.Cancel(ctx, tr.ID, "")
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusCancelled, got.Status)
	assert.Equal(t, q("12"), env.Level(t, vodka))

	_, err = env.Transfers.Cancel(ctx, tr.ID, "")
	assert.True(t, apperror.IsInvalidState(err))
	_, err = env.Transfers.Receive(ctx, tr.ID, "")
	assert.True(t, apperror.IsInvalidState(err))
	_, err = env.Transfers.Dispatch(ctx, tr.ID, "")
	assert.True(t, apperror.IsInvalidState(err))

	assert.Equal(t, q("12"), env.Level(t, vodka))
	log, err := env.Stock.History(ctx, stock.HistoryFilter{ItemID: vodka.ID, ReferenceType: stock.RefStockTransfer})
	require.NoError(t, err)
	assert.Len(t, log.Items, 2)
	env.RequireConsistent(t)
}

func TestList_FiltersByLocation(t *testing.T) {
	env := apptest.New(t)
	vodka := env.Item(t, "Vodka", item.TypeBar, "12")
	create(t, env, vodka, "1")
	_, err := env.Transfers.Create(apptest.Ctx(), transfer.CreateInput{
		ItemID: vodka.ID, FromLocation: "Main store", ToLocation: "Kitchen", Quantity: q("1"),
	})
	require.NoError(t, err)

	res, err := env.Transfers.List(apptest.Ctx(), transfer.ListFilter{Location: "pool bar"})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	_, err = env.Transfers.List(apptest.Ctx(), transfer.ListFilter{Status: "lost"})
	assert.True(t, apperror.IsValidation(err))
}
