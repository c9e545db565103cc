package document_repo

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/transfer"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres"
)

// TransferRepo implements transfer.Repository.
type TransferRepo struct {
	*BaseDocumentRepo[transfer.Transfer]
}

var _ transfer.Repository = (*TransferRepo)(nil)

// NewTransferRepo creates a new stock transfer repository.
func NewTransferRepo(txm *postgres.TxManager) *TransferRepo {
	return &TransferRepo{NewBaseDocumentRepo[transfer.Transfer](txm, "stock_transfers", "stock transfer")}
}

// Create inserts a transfer.
func (r *TransferRepo) Create(ctx context.Context, t *transfer.Transfer) error {
	return r.Insert(ctx, t)
}

// GetByID retrieves a transfer.
func (r *TransferRepo) GetByID(ctx context.Context, transferID id.ID) (*transfer.Transfer, error) {
	return r.Get(ctx, transferID, false)
}

// GetForUpdate locks the transfer row.
func (r *TransferRepo) GetForUpdate(ctx context.Context, transferID id.ID) (*transfer.Transfer, error) {
	return r.Get(ctx, transferID, true)
}

// UpdateStatus persists a transition guarded on the stored status.
func (r *TransferRepo) UpdateStatus(ctx context.Context, t *transfer.Transfer, from transfer.Status) error {
	return r.UpdateWhere(ctx, t.ID, r.Update().
		Set("status", string(t.Status)).
		Set("received_by", t.ReceivedBy).
		Set("received_at", t.ReceivedAt).
		Set("cancelled_by", t.CancelledBy).
		Set("cancelled_at", t.CancelledAt).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": t.ID, "status": string(from)}))
}

// List returns transfers newest first.
func (r *TransferRepo) List(ctx context.Context, filter transfer.ListFilter) (domain.ListResult[*transfer.Transfer], error) {
	q := r.Select()
	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *filter.ItemID})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if filter.Location != "" {
		q = q.Where(squirrel.Or{
			squirrel.Expr("LOWER(from_location) = LOWER(?)", filter.Location),
			squirrel.Expr("LOWER(to_location) = LOWER(?)", filter.Location),
		})
	}
	return r.Page(ctx, q, filter.Page, "created_at DESC", "id DESC")
}
