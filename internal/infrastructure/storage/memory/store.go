// Package memory is an in-process storage driver. It implements every
// repository of the inventory domain over plain maps guarded by one mutex.
//
// A unit of work holds the mutex from start to finish, which gives the
// same guarantees as row locks (at the cost of no parallelism) and makes
// rollback a matter of restoring a snapshot. It backs tests and the
// STORAGE_DRIVER=memory mode of the server.
package memory

import (
	"context"
	"sync"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/tx"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/catalogs/item"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/inventory_audit"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/order"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/product_return"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/purchase_order"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/transfer"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/wastage"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
)

var (
	_ tx.SavepointManager = (*Store)(nil)

	_ item.Repository            = (*ItemRepo)(nil)
	_ stock.Repository           = (*StockRepo)(nil)
	_ purchase_order.Repository  = (*PurchaseOrderRepo)(nil)
	_ transfer.Repository        = (*TransferRepo)(nil)
	_ inventory_audit.Repository = (*AuditRepo)(nil)
	_ wastage.Repository         = (*WastageRepo)(nil)
	_ product_return.Repository  = (*ReturnRepo)(nil)
	_ order.Repository           = (*OrderRepo)(nil)
	_ stock.EventPublisher       = (*Outbox)(nil)
)

type poRow struct {
	header purchase_order.PurchaseOrder
	lines  []purchase_order.Line
}

type auditRow struct {
	header inventory_audit.Audit
	lines  []inventory_audit.Line
}

type orderRow struct {
	header  order.Order
	lines   []order.Line
	payment *order.Payment
}

// data is everything a unit of work can change.
type data struct {
	items     map[id.ID]item.Item
	mutations []stock.Mutation
	pos       map[id.ID]poRow
	transfers map[id.ID]transfer.Transfer
	audits    map[id.ID]auditRow
	wastage   map[id.ID]wastage.Record
	returns   map[id.ID]product_return.Return
	orders    map[id.ID]orderRow
	events    []OutboxEvent
	activity  []ActivityRecord
}

func newData() *data {
	return &data{
		items:     make(map[id.ID]item.Item),
		pos:       make(map[id.ID]poRow),
		transfers: make(map[id.ID]transfer.Transfer),
		audits:    make(map[id.ID]auditRow),
		wastage:   make(map[id.ID]wastage.Record),
		returns:   make(map[id.ID]product_return.Return),
		orders:    make(map[id.ID]orderRow),
	}
}

// clone copies every collection. Rows are stored by value and replaced
// wholesale on update, so sharing their pointer fields is safe.
func (d *data) clone() *data {
	c := newData()
	for k, v := range d.items {
		c.items[k] = v
	}
	c.mutations = append([]stock.Mutation(nil), d.mutations...)
	for k, v := range d.pos {
		v.lines = append([]purchase_order.Line(nil), v.lines...)
		c.pos[k] = v
	}
	for k, v := range d.transfers {
		c.transfers[k] = v
	}
	for k, v := range d.audits {
		v.lines = append([]inventory_audit.Line(nil), v.lines...)
		c.audits[k] = v
	}
	for k, v := range d.wastage {
		c.wastage[k] = v
	}
	for k, v := range d.returns {
		c.returns[k] = v
	}
	for k, v := range d.orders {
		v.lines = append([]order.Line(nil), v.lines...)
		c.orders[k] = v
	}
	c.events = append([]OutboxEvent(nil), d.events...)
	c.activity = append([]ActivityRecord(nil), d.activity...)
	return c
}

// Store owns the data and serves as the transaction manager.
type Store struct {
	mu sync.Mutex
	d  *data

	Items          *ItemRepo
	Stock          *StockRepo
	PurchaseOrders *PurchaseOrderRepo
	Transfers      *TransferRepo
	Audits         *AuditRepo
	Wastage        *WastageRepo
	Returns        *ReturnRepo
	Orders         *OrderRepo
	Outbox         *Outbox
	Activity       *ActivityLog
}

// New creates an empty store.
func New() *Store {
	s := &Store{d: newData()}
	s.Items = &ItemRepo{s: s}
	s.Stock = &StockRepo{s: s}
	s.PurchaseOrders = &PurchaseOrderRepo{s: s}
	s.Transfers = &TransferRepo{s: s}
	s.Audits = &AuditRepo{s: s}
	s.Wastage = &WastageRepo{s: s}
	s.Returns = &ReturnRepo{s: s}
	s.Orders = &OrderRepo{s: s}
	s.Outbox = &Outbox{s: s}
	s.Activity = &ActivityLog{s: s}
	return s
}

type txKey struct{}

// inTx reports whether ctx carries a unit of work of this store.
func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// RunInTransaction runs fn holding the store lock. Writes are undone when fn
// fails. Nested calls join the outer unit of work.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.d.clone()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.d = snapshot
		return err
	}
	return nil
}

// RunInSavepoint undoes only fn's writes when it fails.
func (s *Store) RunInSavepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.inTx(ctx) {
		return s.RunInTransaction(ctx, fn)
	}
	snapshot := s.d.clone()
	if err := fn(ctx); err != nil {
		s.d = snapshot
		return err
	}
	return nil
}

// read runs fn against the data, taking the lock unless ctx already holds it.
func (s *Store) read(ctx context.Context, fn func(d *data) error) error {
	if s.inTx(ctx) {
		return fn(s.d)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.d)
}

// write is read for mutations. Outside a unit of work each call is atomic on
// its own.
func (s *Store) write(ctx context.Context, fn func(d *data) error) error {
	return s.read(ctx, fn)
}
