package inventory_audit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/app/apptest"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/catalogs/item"
	audit "github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/inventory_audit"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
)

var q = apptest.Q

func lineFor(t *testing.T, a *audit.Audit, itemID id.ID) *audit.Line {
	t.Helper()
	for _, l := range a.Lines {
		if l.ItemID == itemID {
			return l
		}
	}
	t.Fatalf("no audit line for item %s", itemID)
	return nil
}

func TestStart_SnapshotsActiveItems(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	towels := env.Item(t, "Towels", item.TypeHousekeeping, "40")
	old := env.Item(t, "Old soap", item.TypeHousekeeping, "3")
	_, err := env.Items.Deactivate(ctx, old.ID)
	require.NoError(t, err)

	a, err := env.Audits.Start(ctx, time.Time{}, "", "monthly count")
	require.NoError(t, err)
	assert.Equal(t, audit.StatusInProgress, a.Status)
	require.Len(t, a.Lines, 1)
	assert.Equal(t, towels.ID, a.Lines[0].ItemID)
	assert.Equal(t, q("40"), a.Lines[0].SystemQuantity)
	assert.False(t, a.Lines[0].Counted())
}

func TestStart_OnlyOneInProgress(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	env.Item(t, "Towels", item.TypeHousekeeping, "40")

	first, err := env.Audits.Start(ctx, time.Now(), "", "")
	require.NoError(t, err)

	_, err = env.Audits.Start(ctx, time.Now(), "", "")
	assert.True(t, apperror.IsInvalidState(err))

	_, err = env.Audits.Cancel(ctx, first.ID, "")
	require.NoError(t, err)
	_, err = env.Audits.Start(ctx, time.Now(), "", "")
	assert.NoError(t, err, "a new audit may start once the previous one is closed")
}

func TestSnapshotIsImmutable(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	towels := env.Item(t, "Towels", item.TypeHousekeeping, "40")

	a, err := env.Audits.Start(ctx, time.Now(), "", "")
	require.NoError(t, err)

	_, err = env.Wastage.Record(ctx, towels.ID, q("2"), "torn", "")
	require.NoError(t, err)

	got, err := env.Audits.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, q("40"), lineFor(t, got, towels.ID).SystemQuantity)
	assert.Equal(t, q("38"), env.Level(t, towels))
}

func TestRecordCount(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	towels := env.Item(t, "Towels", item.TypeHousekeeping, "40")
	a, err := env.Audits.Start(ctx, time.Now(), "", "")
	require.NoError(t, err)
	line := lineFor(t, a, towels.ID)

	_, err = env.Audits.RecordCount(ctx, a.ID, line.ID, q("-1"), "")
	assert.True(t, apperror.IsValidation(err))

	_, err = env.Audits.RecordCount(ctx, a.ID, id.New(), q("1"), "")
	assert.True(t, apperror.IsNotFound(err))

	_, err = env.Audits.RecordCount(ctx, a.ID, line.ID, q("30"), "")
	require.NoError(t, err)
	got, err := env.Audits.RecordCount(ctx, a.ID, line.ID, q("37"), "counter")
	require.NoError(t, err)
	assert.Equal(t, q("37"), *got.PhysicalQuantity, "last write wins")
	assert.Equal(t, "counter", *got.CountedBy)

	stored, err := env.Audits.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, q("37"), *lineFor(t, stored, towels.ID).PhysicalQuantity)
	assert.Equal(t, q("40"), env.Level(t, towels), "counting never moves stock")
}

func TestComplete_AppliesVariancesOnce(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	towels := env.Item(t, "Towels", item.TypeHousekeeping, "40")
	soap := env.Item(t, "Soap", item.TypeHousekeeping, "10")
	shampoo := env.Item(t, "Shampoo", item.TypeHousekeeping, "6")
	env.Item(t, "Slippers", item.TypeHousekeeping, "20")

	a, err := env.Audits.Start(ctx, time.Now(), "", "")
	require.NoError(t, err)
	for it, n := range map[*item.Item]string{towels: "37", soap: "12", shampoo: "6"} {
		_, err := env.Audits.RecordCount(ctx, a.ID, lineFor(t, a, it.ID).ID, q(n), "")
		require.NoError(t, err)
	}

	report, err := env.Audits.Complete(ctx, a.ID, "")
	require.NoError(t, err)
	assert.Len(t, report.Lines, 2, "matching counts produce no adjustment")
	assert.Equal(t, 1, report.Uncounted)
	assert.Equal(t, q("-1"), report.TotalVariance)

	assert.Equal(t, q("37"), env.Level(t, towels))
	assert.Equal(t, q("12"), env.Level(t, soap))
	assert.Equal(t, q("6"), env.Level(t, shampoo))

	adjustments := func() int {
		n := 0
		for _, m := range env.Store.Stock.Mutations() {
			if m.Action == stock.ActionAuditAdjustment {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 2, adjustments())

	_, err = env.Audits.Complete(ctx, a.ID, "")
	assert.True(t, apperror.IsInvalidState(err))
	assert.Equal(t, 2, adjustments(), "second completion has no effect")

	_, err = env.Audits.RecordCount(ctx, a.ID, lineFor(t, a, towels.ID).ID, q("1"), "")
	assert.True(t, apperror.IsInvalidState(err))
	env.RequireConsistent(t)
}

func TestComplete_PhysicalCountIsAuthoritative(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	towels := env.Item(t, "Towels", item.TypeHousekeeping, "40")

	a, err := env.Audits.Start(ctx, time.Now(), "", "")
	require.NoError(t, err)
	line := lineFor(t, a, towels.ID)
	_, err = env.Audits.RecordCount(ctx, a.ID, line.ID, q("35"), "")
	require.NoError(t, err)

	// Stock moves while the count is open.
	_, err = env.Wastage.Record(ctx, towels.ID, q("2"), "stained", "")
	require.NoError(t, err)

	report, err := env.Audits.Complete(ctx, a.ID, "")
	require.NoError(t, err)
	require.Len(t, report.Lines, 1)
	assert.Equal(t, q("-5"), report.Lines[0].Variance)
	assert.Equal(t, q("-3"), report.Lines[0].Applied)
	assert.Equal(t, q("35"), env.Level(t, towels))
	env.RequireConsistent(t)
}

func TestCancel_NoStockEffect(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	towels := env.Item(t, "Towels", item.TypeHousekeeping, "40")

	a, err := env.Audits.Start(ctx, time.Now(), "", "")
	require.NoError(t, err)
	_, err = env.Audits.RecordCount(ctx, a.ID, lineFor(t, a, towels.ID).ID, q("1"), "")
	require.NoError(t, err)

	got, err := env.Audits.Cancel(ctx, a.ID, "")
	require.NoError(t, err)
	assert.Equal(t, audit.StatusCancelled, got.Status)
	assert.Equal(t, q("40"), env.Level(t, towels))

	_, err = env.Audits.Complete(ctx, a.ID, "")
	assert.True(t, apperror.IsInvalidState(err))

	list, err := env.Audits.List(ctx, audit.ListFilter{Status: audit.StatusCancelled})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}
