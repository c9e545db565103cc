// Package apptest builds a fully wired in-memory service set for tests.
package apptest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/app"
	appctx "github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/context"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/catalogs/item"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/memory"
)

// Actor is the actor id carried by Ctx.
const Actor = "tester"

// Env holds a store and the services over it.
type Env struct {
	Store *memory.Store
	*app.Services
}

// New returns services over an empty store with the default low-stock rule.
func New(t testing.TB) *Env {
	t.Helper()
	return NewWithOptions(t, app.Options{LowStockRule: mustRule(t, "")})
}

// NewWithOptions is New with explicit options.
func NewWithOptions(t testing.TB, opts app.Options) *Env {
	t.Helper()
	store := memory.New()
	return &Env{Store: store, Services: app.NewServices(app.MemoryRepositories(store), opts)}
}

func mustRule(t testing.TB, expr string) *stock.LowStockRule {
	rule, err := stock.NewLowStockRule(expr)
	require.NoError(t, err)
	return rule
}

// Ctx returns a context carrying Actor.
func Ctx() context.Context {
	return appctx.WithActor(context.Background(), &appctx.ActorContext{ActorID: Actor})
}

// Q parses a decimal quantity.
func Q(s string) types.Quantity { return types.MustQuantity(s) }

// Item creates an active item with an opening balance and minimum stock 0.
func (e *Env) Item(t testing.TB, name string, typ item.Type, opening string) *item.Item {
	t.Helper()
	it, err := e.Items.Create(Ctx(), item.CreateInput{
		Name:         name,
		Unit:         "pcs",
		Type:         typ,
		OpeningStock: Q(opening),
		ActorID:      Actor,
	})
	require.NoError(t, err)
	return it
}

// Level reads the materialized stock of it.
func (e *Env) Level(t testing.TB, it *item.Item) types.Quantity {
	t.Helper()
	got, err := e.Items.GetByID(context.Background(), it.ID)
	require.NoError(t, err)
	return got.CurrentStock
}

// RequireConsistent asserts that no item drifted from its ledger.
func (e *Env) RequireConsistent(t testing.TB) {
	t.Helper()
	drift, err := e.Stock.VerifyAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, drift)
}
