package purchase_order_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/app/apptest"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/catalogs/item"
	po "github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/purchase_order"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
)

var q = apptest.Q

func newOrder(t *testing.T, env *apptest.Env, lines ...po.CreateLine) *po.PurchaseOrder {
	t.Helper()
	order, err := env.PurchaseOrders.Create(apptest.Ctx(), po.CreateInput{
		Supplier: "Fresh Farms",
		Lines:    lines,
	})
	require.NoError(t, err)
	return order
}

func TestReceive_PartialThenComplete(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	flour := env.Item(t, "Flour", item.TypeKitchen, "5")
	order := newOrder(t, env, po.CreateLine{ItemID: flour.ID, QuantityOrdered: q("10"), UnitCost: types.MustMoney("1.20")})
	line := order.Lines[0]
	assert.Equal(t, po.StatusPending, order.Status)

	res, err := env.PurchaseOrders.Receive(ctx, order.ID, []po.Receipt{{LineID: line.ID, QuantityReceivedTotal: q("4")}}, "")
	require.NoError(t, err)
	assert.Equal(t, po.StatusPartiallyReceived, res.Status)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, q("4"), res.Lines[0].Applied)
	assert.Equal(t, q("9"), env.Level(t, flour))

	res, err = env.PurchaseOrders.Receive(ctx, order.ID, []po.Receipt{{LineID: line.ID, QuantityReceivedTotal: q("10")}}, "")
	require.NoError(t, err)
	assert.Equal(t, po.StatusReceived, res.Status)
	assert.Equal(t, q("4"), res.Lines[0].Previous)
	assert.Equal(t, q("6"), res.Lines[0].Applied)
	assert.Equal(t, q("15"), env.Level(t, flour))

	got, err := env.PurchaseOrders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.ReceivedAt)
	assert.Equal(t, q("10"), got.Lines[0].QuantityReceived)
	env.RequireConsistent(t)
}

func TestReceive_ReplayIsIdempotent(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	milk := env.Item(t, "Milk", item.TypeKitchen, "0")
	order := newOrder(t, env, po.CreateLine{ItemID: milk.ID, QuantityOrdered: q("10")})
	receipts := []po.Receipt{{LineID: order.Lines[0].ID, QuantityReceivedTotal: q("7")}}

	for i := 0; i < 3; i++ {
		_, err := env.PurchaseOrders.Receive(ctx, order.ID, receipts, "")
		require.NoError(t, err)
	}

	assert.Equal(t, q("7"), env.Level(t, milk))
	received, err := env.Stock.History(ctx, stock.HistoryFilter{
		ItemID:  milk.ID,
		Actions: []stock.Action{stock.ActionPurchaseReceived},
	})
	require.NoError(t, err)
	assert.Len(t, received.Items, 1)
}

func TestReceive_ConcurrentSameTotalCreditsOnce(t *testing.T) {
	env := apptest.New(t)
	rice := env.Item(t, "Rice", item.TypeKitchen, "2")
	order := newOrder(t, env, po.CreateLine{ItemID: rice.ID, QuantityOrdered: q("8")})
	receipts := []po.Receipt{{LineID: order.Lines[0].ID, QuantityReceivedTotal: q("8")}}

	const clerks = 10
	var (
		wg      sync.WaitGroup
		applied atomic.Int32
	)
	for i := 0; i < clerks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := env.PurchaseOrders.Receive(apptest.Ctx(), order.ID, receipts, "")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			// Replays of a received order reconcile to zero.
			if len(res.Lines) == 1 && res.Lines[0].Applied.IsPositive() {
				applied.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, applied.Load())
	assert.Equal(t, q("10"), env.Level(t, rice))

	got, err := env.PurchaseOrders.GetByID(apptest.Ctx(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, po.StatusReceived, got.Status)
	assert.Equal(t, q("8"), got.Lines[0].QuantityReceived)

	received, err := env.Stock.History(apptest.Ctx(), stock.HistoryFilter{
		ItemID:  rice.ID,
		Actions: []stock.Action{stock.ActionPurchaseReceived},
	})
	require.NoError(t, err)
	assert.Len(t, received.Items, 1)
	env.RequireConsistent(t)
}

func TestReceive_ClampsToOrderedAndIgnoresDecrease(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	eggs := env.Item(t, "Eggs", item.TypeKitchen, "0")
	order := newOrder(t, env, po.CreateLine{ItemID: eggs.ID, QuantityOrdered: q("30")})
	lineID := order.Lines[0].ID

	res, err := env.PurchaseOrders.Receive(ctx, order.ID, []po.Receipt{{LineID: lineID, QuantityReceivedTotal: q("45")}}, "")
	require.NoError(t, err)
	assert.Equal(t, q("30"), res.Lines[0].Received)
	assert.Equal(t, q("30"), env.Level(t, eggs))

	res, err = env.PurchaseOrders.Receive(ctx, order.ID, []po.Receipt{{LineID: lineID, QuantityReceivedTotal: q("12")}}, "")
	require.NoError(t, err)
	assert.True(t, res.Lines[0].Applied.IsZero())
	assert.Equal(t, q("30"), res.Lines[0].Received, "received never decreases")
	assert.Equal(t, q("30"), env.Level(t, eggs))
}

func TestReceive_SkipsUnknownLines(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	salt := env.Item(t, "Salt", item.TypeKitchen, "0")
	pepper := env.Item(t, "Pepper", item.TypeKitchen, "0")
	order := newOrder(t, env,
		po.CreateLine{ItemID: salt.ID, QuantityOrdered: q("2")},
		po.CreateLine{ItemID: pepper.ID, QuantityOrdered: q("3")},
	)
	stranger := id.New()

	res, err := env.PurchaseOrders.Receive(ctx, order.ID, []po.Receipt{
		{LineID: stranger, QuantityReceivedTotal: q("100")},
		{LineID: order.Lines[0].ID, QuantityReceivedTotal: q("2")},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, []id.ID{stranger}, res.Skipped)
	assert.Equal(t, po.StatusPartiallyReceived, res.Status)
	assert.Equal(t, q("2"), env.Level(t, salt))
	assert.True(t, env.Level(t, pepper).IsZero())
}

func TestReceive_CancelledOrderRejected(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	oil := env.Item(t, "Oil", item.TypeKitchen, "0")
	order := newOrder(t, env, po.CreateLine{ItemID: oil.ID, QuantityOrdered: q("5")})

	_, err := env.PurchaseOrders.Cancel(ctx, order.ID, "")
	require.NoError(t, err)

	_, err = env.PurchaseOrders.Receive(ctx, order.ID, []po.Receipt{{LineID: order.Lines[0].ID, QuantityReceivedTotal: q("5")}}, "")
	assert.True(t, apperror.IsInvalidState(err))
	assert.True(t, env.Level(t, oil).IsZero())

	_, err = env.PurchaseOrders.Cancel(ctx, order.ID, "")
	assert.True(t, apperror.IsInvalidState(err))
}

func TestReceive_NothingReceivedStaysPending(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	oil := env.Item(t, "Oil", item.TypeKitchen, "0")
	order := newOrder(t, env, po.CreateLine{ItemID: oil.ID, QuantityOrdered: q("5")})

	res, err := env.PurchaseOrders.Receive(ctx, order.ID, []po.Receipt{{LineID: order.Lines[0].ID, QuantityReceivedTotal: q("0")}}, "")
	require.NoError(t, err)
	assert.Equal(t, po.StatusPending, res.Status)

	_, err = env.PurchaseOrders.Receive(ctx, order.ID, nil, "")
	assert.True(t, apperror.IsValidation(err))
}

func TestCreate_Validation(t *testing.T) {
	env := apptest.New(t)
	ctx := context.Background()

	_, err := env.PurchaseOrders.Create(ctx, po.CreateInput{Supplier: "X"})
	assert.True(t, apperror.IsValidation(err))

	_, err = env.PurchaseOrders.Create(ctx, po.CreateInput{
		Supplier: "X",
		Lines:    []po.CreateLine{{ItemID: id.New(), QuantityOrdered: q("1")}},
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestLineReconcile(t *testing.T) {
	tests := []struct {
		name                   string
		ordered, received, req string
		wantClamped, wantDelta string
	}{
		{"within bound", "10", "0", "4", "4", "4"},
		{"over ordered", "10", "4", "15", "10", "6"},
		{"decrease", "10", "6", "2", "2", "-4"},
		{"negative request", "10", "0", "-3", "0", "0"},
		{"legacy zero ordered", "0", "1", "5", "5", "4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &po.Line{QuantityOrdered: q(tt.ordered), QuantityReceived: q(tt.received)}
			clamped, delta := l.Reconcile(q(tt.req))
			assert.Equal(t, q(tt.wantClamped), clamped)
			assert.Equal(t, q(tt.wantDelta), delta)
		})
	}
}
