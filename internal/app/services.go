// Package app assembles the domain services over a storage driver.
package app

import (
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/tx"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/catalogs/item"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/inventory_audit"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/order"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/product_return"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/purchase_order"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/transfer"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/documents/wastage"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/memory"
)

// Repositories is what a storage driver provides.
type Repositories struct {
	TxManager      tx.Manager
	Items          item.Repository
	Stock          stock.Repository
	PurchaseOrders purchase_order.Repository
	Transfers      transfer.Repository
	Audits         inventory_audit.Repository
	Wastage        wastage.Repository
	Returns        product_return.Repository
	Orders         order.Repository
	Events         stock.EventPublisher
	Activity       domain.ActivityLog
}

// Options tune the stock register.
type Options struct {
	AllowNegativeAdjust bool
	LowStockRule        *stock.LowStockRule
}

// Services is the full set of domain services.
type Services struct {
	Stock          *stock.Service
	Items          *item.Service
	PurchaseOrders *purchase_order.Service
	Transfers      *transfer.Service
	Audits         *inventory_audit.Service
	Wastage        *wastage.Service
	Returns        *product_return.Service
	Orders         *order.Service
}

// NewServices wires every service over repos.
func NewServices(repos Repositories, opts Options) *Services {
	stockOpts := []stock.Option{stock.WithNegativeAdjustments(opts.AllowNegativeAdjust)}
	if opts.LowStockRule != nil && repos.Events != nil {
		stockOpts = append(stockOpts, stock.WithLowStockAlerts(opts.LowStockRule, repos.Events))
	}
	stockSvc := stock.NewService(repos.Stock, repos.TxManager, stockOpts...)
	itemSvc := item.NewService(repos.Items, stockSvc, repos.TxManager)

	return &Services{
		Stock:          stockSvc,
		Items:          itemSvc,
		PurchaseOrders: purchase_order.NewService(repos.PurchaseOrders, itemSvc, stockSvc, repos.TxManager, repos.Activity),
		Transfers:      transfer.NewService(repos.Transfers, stockSvc, repos.TxManager, repos.Activity),
		Audits:         inventory_audit.NewService(repos.Audits, repos.Items, stockSvc, repos.TxManager, repos.Activity),
		Wastage:        wastage.NewService(repos.Wastage, stockSvc, repos.TxManager),
		Returns:        product_return.NewService(repos.Returns, stockSvc, repos.TxManager),
		Orders:         order.NewService(repos.Orders, itemSvc, stockSvc, repos.TxManager),
	}
}

// MemoryRepositories exposes an in-memory store as Repositories.
func MemoryRepositories(s *memory.Store) Repositories {
	return Repositories{
		TxManager:      s,
		Items:          s.Items,
		Stock:          s.Stock,
		PurchaseOrders: s.PurchaseOrders,
		Transfers:      s.Transfers,
		Audits:         s.Audits,
		Wastage:        s.Wastage,
		Returns:        s.Returns,
		Orders:         s.Orders,
		Events:         s.Outbox,
		Activity:       s.Activity,
	}
}
