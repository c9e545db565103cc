package app

import (
	"context"
	"fmt"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres/document_repo"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres/register_repo"
)

// PostgresRepositories builds Repositories over txm. It inspects the
// inventory_items schema, so the database must be migrated first.
func PostgresRepositories(ctx context.Context, txm *postgres.TxManager) (Repositories, error) {
	items, err := catalog_repo.NewItemRepo(ctx, txm)
	if err != nil {
		return Repositories{}, fmt.Errorf("item repository: %w", err)
	}
	activity, err := postgres.NewActivityLog(txm)
	if err != nil {
		return Repositories{}, fmt.Errorf("activity log: %w", err)
	}

	return Repositories{
		TxManager:      txm,
		Items:          items,
		Stock:          register_repo.NewStockRepo(txm, items.Columns()),
		PurchaseOrders: document_repo.NewPurchaseOrderRepo(txm),
		Transfers:      document_repo.NewTransferRepo(txm),
		Audits:         document_repo.NewAuditRepo(txm),
		Wastage:        document_repo.NewWastageRepo(txm),
		Returns:        document_repo.NewReturnRepo(txm),
		Orders:         document_repo.NewOrderRepo(txm),
		Events:         postgres.NewOutboxPublisher(txm),
		Activity:       activity,
	}, nil
}
