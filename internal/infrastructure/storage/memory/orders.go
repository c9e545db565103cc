package memory

import (
	"context"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/order"
)

// OrderRepo implements order.Repository.
type OrderRepo struct{ s *Store }

func (r *OrderRepo) Create(ctx context.Context, o *order.Order) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.orders[o.ID]; ok {
			return apperror.NewConflict("order already exists").WithDetail("id", o.ID.String())
		}
		row := orderRow{header: *o}
		row.header.Lines, row.header.Payment = nil, nil
		for _, l := range o.Lines {
			row.lines = append(row.lines, *l)
		}
		d.orders[o.ID] = row
		return nil
	})
}

func (r *OrderRepo) AddPayment(ctx context.Context, p *order.Payment) error {
	return r.s.write(ctx, func(d *data) error {
		row, ok := d.orders[p.OrderID]
		if !ok {
			return apperror.NewNotFound("order", p.OrderID.String())
		}
		if row.payment != nil {
			return apperror.NewConflict("order already has a payment").WithDetail("orderId", p.OrderID.String())
		}
		pay := *p
		row.payment = &pay
		d.orders[p.OrderID] = row
		return nil
	})
}

func (r *OrderRepo) GetByID(ctx context.Context, orderID id.ID) (*order.Order, error) {
	var out *order.Order
	err := r.s.read(ctx, func(d *data) error {
		row, ok := d.orders[orderID]
		if !ok {
			return apperror.NewNotFound("order", orderID.String())
		}
		o := row.header
		o.Lines = make([]*order.Line, 0, len(row.lines))
		for _, l := range row.lines {
			l := l
			o.Lines = append(o.Lines, &l)
		}
		if row.payment != nil {
			pay := *row.payment
			o.Payment = &pay
		}
		out = &o
		return nil
	})
	return out, err
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, orderID id.ID) (*order.Order, error) {
	return r.GetByID(ctx, orderID)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, o *order.Order) error {
	return r.s.write(ctx, func(d *data) error {
		row, ok := d.orders[o.ID]
		if !ok {
			return apperror.NewNotFound("order", o.ID.String())
		}
		row.header.Status = o.Status
		row.header.VoidedBy = o.VoidedBy
		row.header.VoidedAt = o.VoidedAt
		row.header.UpdatedAt = o.UpdatedAt
		d.orders[o.ID] = row
		return nil
	})
}

// Count returns how many orders are stored.
func (r *OrderRepo) Count() int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.d.orders)
}
