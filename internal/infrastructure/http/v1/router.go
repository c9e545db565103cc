// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/app"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/http/v1/dto"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/http/v1/handlers"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/http/v1/middleware"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres"
	"github.com/MagetoJ/XYZ-Hotel-sub000/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	Services *app.Services

	// Pool is nil for the memory driver.
	Pool *postgres.Pool

	// Redis is nil when idempotency is disabled.
	Redis *redis.Client

	// Idempotency enables X-Idempotency-Key replay on mutating routes.
	Idempotency middleware.IdempotencyStore

	Logger      *logger.Logger
	ServiceName string
	Version     string

	// Tracing installs the otelgin middleware.
	Tracing bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	dto.RegisterValidators()
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	if cfg.Tracing {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Redis, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	api := router.Group("/api/v1")
	api.Use(middleware.Actor())
	if cfg.Idempotency != nil {
		api.Use(middleware.Idempotency(cfg.Idempotency))
	}

	base := handlers.NewBaseHandler()
	registerItemRoutes(api, base, cfg.Services)
	registerDocumentRoutes(api, base, cfg.Services)
	registerAdjustmentRoutes(api, base, cfg.Services)

	return router
}

// registerItemRoutes registers the catalog and the per-item stock register endpoints.
func registerItemRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, s *app.Services) {
	itemHandler := handlers.NewItemHandler(base, s.Items)
	stockHandler := handlers.NewStockHandler(base, s.Stock)

	items := rg.Group("/items")
	items.GET("/low-stock", itemHandler.LowStock)
	RegisterCatalogRoutes(items, itemHandler)
	items.POST("/:id/deactivate", itemHandler.Deactivate)
	items.POST("/:id/activate", itemHandler.Activate)

	items.POST("/:id/adjust", stockHandler.Adjust)
	items.GET("/:id/mutations", stockHandler.Mutations)
	items.GET("/:id/verify", stockHandler.Verify)
	items.POST("/:id/rebuild", stockHandler.Rebuild)

	rg.GET("/stock/drift", stockHandler.Drift)
}

// registerDocumentRoutes registers purchase orders, transfers, audits and orders.
func registerDocumentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, s *app.Services) {
	// --- PURCHASE ORDERS ---
	{
		handler := handlers.NewPurchaseOrderHandler(base, s.PurchaseOrders)
		group := rg.Group("/purchase-orders")
		RegisterDocumentRoutes(group, handler)
		group.POST("/:id/receive", handler.Receive)
	}

	// --- TRANSFERS ---
	{
		handler := handlers.NewTransferHandler(base, s.Transfers)
		group := rg.Group("/transfers")
		RegisterDocumentRoutes(group, handler)
		group.POST("/:id/dispatch", handler.Dispatch)
		group.POST("/:id/receive", handler.Receive)
	}

	// --- AUDITS ---
	{
		handler := handlers.NewAuditHandler(base, s.Audits)
		group := rg.Group("/audits")
		group.GET("", handler.List)
		group.POST("", handler.Start)
		group.GET("/:id", handler.Get)
		group.PUT("/:id/lines/:lineId", handler.RecordCount)
		group.POST("/:id/complete", handler.Complete)
		group.POST("/:id/cancel", handler.Cancel)
	}

	// --- ORDERS ---
	{
		handler := handlers.NewOrderHandler(base, s.Orders)
		group := rg.Group("/orders")
		group.POST("", handler.Create)
		group.GET("/:id", handler.Get)
		group.POST("/:id/void", handler.Void)
	}
}

// registerAdjustmentRoutes registers wastage and returns.
func registerAdjustmentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, s *app.Services) {
	wastageHandler := handlers.NewWastageHandler(base, s.Wastage)
	wastage := rg.Group("/wastage")
	wastage.GET("", wastageHandler.List)
	wastage.POST("", wastageHandler.Record)
	wastage.GET("/:id", wastageHandler.Get)
	wastage.DELETE("/:id", wastageHandler.Reverse)

	returnHandler := handlers.NewReturnHandler(base, s.Returns)
	returns := rg.Group("/returns")
	returns.GET("", returnHandler.List)
	returns.POST("", returnHandler.Record)
	returns.GET("/:id", returnHandler.Get)
	returns.DELETE("/:id", returnHandler.Reverse)
}
