package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/types"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/purchase_order"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres"
)

const (
	purchaseOrdersTable = "purchase_orders"
	poLinesTable        = "purchase_order_lines"
)

// PurchaseOrderRepo implements purchase_order.Repository.
type PurchaseOrderRepo struct {
	*BaseDocumentRepo[purchase_order.PurchaseOrder]
	batch *postgres.BatchInserter
}

var _ purchase_order.Repository = (*PurchaseOrderRepo)(nil)

// NewPurchaseOrderRepo creates a new purchase order repository.
func NewPurchaseOrderRepo(txm *postgres.TxManager) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[purchase_order.PurchaseOrder](txm, purchaseOrdersTable, "purchase order"),
		batch:            postgres.NewBatchInserter(txm),
	}
}

// Create inserts the header and all lines.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *purchase_order.PurchaseOrder) error {
	if err := r.Insert(ctx, po); err != nil {
		return err
	}

	columns := postgres.ExtractDBColumns[purchase_order.Line]()
	rows := make([][]any, 0, len(po.Lines))
	for _, l := range po.Lines {
		m := postgres.StructToMap(l)
		row := make([]any, len(columns))
		for i, col := range columns {
			row[i] = m[col]
		}
		rows = append(rows, row)
	}
	if _, err := r.batch.CopyFromSlice(ctx, poLinesTable, columns, rows); err != nil {
		return fmt.Errorf("insert purchase order lines: %w", err)
	}
	return nil
}

// GetByID loads the header with lines.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, poID id.ID) (*purchase_order.PurchaseOrder, error) {
	return r.load(ctx, poID, false)
}

// GetForUpdate loads the order and locks its header row.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, poID id.ID) (*purchase_order.PurchaseOrder, error) {
	return r.load(ctx, poID, true)
}

func (r *PurchaseOrderRepo) load(ctx context.Context, poID id.ID, forUpdate bool) (*purchase_order.PurchaseOrder, error) {
	po, err := r.Get(ctx, poID, forUpdate)
	if err != nil {
		return nil, err
	}
	po.Lines, err = selectLines[purchase_order.Line](ctx, r.querier(ctx), poLinesTable, "purchase_order_id", poID, "line_no")
	if err != nil {
		return nil, err
	}
	return po, nil
}

// UpdateLineReceived stores the cumulative received quantity of one line.
func (r *PurchaseOrderRepo) UpdateLineReceived(ctx context.Context, lineID id.ID, received types.Quantity) error {
	tag, err := execSqlizer(ctx, r.querier(ctx), postgres.Builder().
		Update(poLinesTable).
		Set("quantity_received", received).
		Where(squirrel.Eq{"id": lineID}))
	if err != nil {
		return postgres.MapError(err, "update", "purchase order line")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("purchase order line", lineID.String())
	}
	return nil
}

// UpdateStatus writes status and received_at.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, po *purchase_order.PurchaseOrder) error {
	return r.UpdateWhere(ctx, po.ID, r.Update().
		Set("status", string(po.Status)).
		Set("received_at", po.ReceivedAt).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": po.ID}))
}

// List returns headers newest order date first.
func (r *PurchaseOrderRepo) List(ctx context.Context, filter purchase_order.ListFilter) (domain.ListResult[*purchase_order.PurchaseOrder], error) {
	q := r.Select()
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if filter.Supplier != "" {
		q = q.Where(squirrel.ILike{"supplier": "%" + filter.Supplier + "%"})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"order_date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"order_date": *filter.To})
	}
	return r.Page(ctx, q, filter.Page, "order_date DESC", "id DESC")
}
