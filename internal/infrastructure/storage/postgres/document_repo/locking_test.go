package document_repo

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	audit "github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/inventory_audit"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/purchase_order"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/transfer"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres/pgtest"
)

// loader reads one document by id; the recorder answers with an empty set,
// so every load ends in NotFound after its header statement.
type loader func(ctx context.Context, rec *pgtest.Recorder, docID id.ID) error

func TestDocumentLoads_LockOnlyOnGetForUpdate(t *testing.T) {
	cases := []struct {
		name     string
		table    string
		locked   loader
		unlocked loader
	}{
		{
			name:  "purchase order",
			table: purchaseOrdersTable,
			locked: func(ctx context.Context, rec *pgtest.Recorder, docID id.ID) error {
				_, err := purchaseOrderRepo(rec).GetForUpdate(ctx, docID)
				return err
			},
			unlocked: func(ctx context.Context, rec *pgtest.Recorder, docID id.ID) error {
				_, err := purchaseOrderRepo(rec).GetByID(ctx, docID)
				return err
			},
		},
		{
			name:  "transfer",
			table: "stock_transfers",
			locked: func(ctx context.Context, rec *pgtest.Recorder, docID id.ID) error {
				_, err := transferRepo(rec).GetForUpdate(ctx, docID)
				return err
			},
			unlocked: func(ctx context.Context, rec *pgtest.Recorder, docID id.ID) error {
				_, err := transferRepo(rec).GetByID(ctx, docID)
				return err
			},
		},
		{
			name:  "audit",
			table: "inventory_audits",
			locked: func(ctx context.Context, rec *pgtest.Recorder, docID id.ID) error {
				_, err := auditRepo(rec).GetForUpdate(ctx, docID)
				return err
			},
			unlocked: func(ctx context.Context, rec *pgtest.Recorder, docID id.ID) error {
				_, err := auditRepo(rec).GetByID(ctx, docID)
				return err
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			docID := id.New()

			rec := pgtest.NewRecorder()
			err := tc.locked(context.Background(), rec, docID)
			assert.True(t, apperror.IsNotFound(err), "got %v", err)
			calls := rec.Calls()
			require.Len(t, calls, 1)
			assert.Contains(t, calls[0].SQL, "FROM "+tc.table+" WHERE id = $1")
			assert.True(t, strings.HasSuffix(calls[0].SQL, "FOR UPDATE"), calls[0].SQL)
			assert.Equal(t, []any{docID}, calls[0].Args)

			rec = pgtest.NewRecorder()
			err = tc.unlocked(context.Background(), rec, docID)
			assert.True(t, apperror.IsNotFound(err), "got %v", err)
			calls = rec.Calls()
			require.Len(t, calls, 1)
			assert.NotContains(t, calls[0].SQL, "FOR UPDATE")
		})
	}
}

func TestUpdateWhere_GuardMissOnExistingRowIsConcurrentModification(t *testing.T) {
	docID := id.New()
	rec := pgtest.NewRecorder(
		pgtest.Result{}, // UPDATE matched nothing
		pgtest.Row([]string{"id"}, docID),
	)
	repo := &BaseDocumentRepo[struct {
		ID id.ID `db:"id"`
	}]{txm: rec, tableName: "stock_transfers", entityName: "stock transfer", selectCols: []string{"id"}}

	err := repo.UpdateWhere(context.Background(), docID, repo.Update().
		Set("status", "completed").
		Where("id = ? AND status = ?", docID, "pending"))
	assert.True(t, apperror.IsConcurrentModification(err), "got %v", err)

	calls := rec.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[0].SQL, "UPDATE stock_transfers SET status = $1 WHERE id = $2 AND status = $3")
	assert.NotContains(t, calls[1].SQL, "FOR UPDATE")
}

func purchaseOrderRepo(rec *pgtest.Recorder) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{BaseDocumentRepo: NewBaseDocumentRepo[purchase_order.PurchaseOrder](rec, purchaseOrdersTable, "purchase order")}
}

func transferRepo(rec *pgtest.Recorder) *TransferRepo {
	return &TransferRepo{NewBaseDocumentRepo[transfer.Transfer](rec, "stock_transfers", "stock transfer")}
}

func auditRepo(rec *pgtest.Recorder) *AuditRepo {
	return &AuditRepo{BaseDocumentRepo: NewBaseDocumentRepo[audit.Audit](rec, "inventory_audits", "inventory audit")}
}
