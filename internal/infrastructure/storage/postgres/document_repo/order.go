package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/order"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres"
)

const (
	orderLinesTable    = "order_lines"
	orderPaymentsTable = "order_payments"
)

// OrderRepo implements order.Repository.
type OrderRepo struct {
	*BaseDocumentRepo[order.Order]
	lineCols    []string
	paymentCols []string
}

var _ order.Repository = (*OrderRepo)(nil)

// NewOrderRepo creates a new order repository.
func NewOrderRepo(txm *postgres.TxManager) *OrderRepo {
	return &OrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[order.Order](txm, "orders", "order"),
		lineCols:         postgres.ExtractDBColumns[order.Line](),
		paymentCols:      postgres.ExtractDBColumns[order.Payment](),
	}
}

// Create inserts the header and its lines in one multi-row statement.
func (r *OrderRepo) Create(ctx context.Context, o *order.Order) error {
	if err := r.Insert(ctx, o); err != nil {
		return err
	}
	if len(o.Lines) == 0 {
		return nil
	}

	q := postgres.Builder().Insert(orderLinesTable).Columns(r.lineCols...)
	for _, l := range o.Lines {
		m := postgres.StructToMap(l)
		values := make([]any, len(r.lineCols))
		for i, col := range r.lineCols {
			values[i] = m[col]
		}
		q = q.Values(values...)
	}
	if _, err := execSqlizer(ctx, r.querier(ctx), q); err != nil {
		return postgres.MapError(err, "insert", "order line")
	}
	return nil
}

// AddPayment inserts the single payment of an order.
func (r *OrderRepo) AddPayment(ctx context.Context, p *order.Payment) error {
	data := postgres.Pick(postgres.StructToMap(p), r.paymentCols)
	_, err := execSqlizer(ctx, r.querier(ctx), postgres.Builder().Insert(orderPaymentsTable).SetMap(data))
	if err != nil {
		return postgres.MapError(err, "insert", "order payment")
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, orderID id.ID) (*order.Order, error) {
	return r.load(ctx, orderID, false)
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, orderID id.ID) (*order.Order, error) {
	return r.load(ctx, orderID, true)
}

func (r *OrderRepo) load(ctx context.Context, orderID id.ID, forUpdate bool) (*order.Order, error) {
	o, err := r.Get(ctx, orderID, forUpdate)
	if err != nil {
		return nil, err
	}
	o.Lines, err = selectLines[order.Line](ctx, r.querier(ctx), orderLinesTable, "order_id", orderID, "line_no")
	if err != nil {
		return nil, err
	}

	sql, args, err := postgres.Builder().
		Select(r.paymentCols...).
		From(orderPaymentsTable).
		Where(squirrel.Eq{"order_id": orderID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build payment query: %w", err)
	}
	var p order.Payment
	switch err := pgxscan.Get(ctx, r.querier(ctx), &p, sql, args...); {
	case err == nil:
		o.Payment = &p
	case !pgxscan.NotFound(err):
		return nil, fmt.Errorf("get order payment: %w", err)
	}
	return o, nil
}

// UpdateStatus writes status and void fields.
func (r *OrderRepo) UpdateStatus(ctx context.Context, o *order.Order) error {
	return r.UpdateWhere(ctx, o.ID, r.Update().
		Set("status", string(o.Status)).
		Set("voided_by", o.VoidedBy).
		Set("voided_at", o.VoidedAt).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": o.ID}))
}
