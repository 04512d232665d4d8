package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yohand-byte/sales-margin-tracker/internal/application/analytics"
	"github.com/yohand-byte/sales-margin-tracker/internal/application/auth"
	"github.com/yohand-byte/sales-margin-tracker/internal/application/catalog"
	"github.com/yohand-byte/sales-margin-tracker/internal/application/export"
	"github.com/yohand-byte/sales-margin-tracker/internal/application/sales"
	"github.com/yohand-byte/sales-margin-tracker/internal/application/snapshot"
	"github.com/yohand-byte/sales-margin-tracker/internal/application/syncer"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	SalesUC     *sales.UseCase
	CatalogUC   *catalog.UseCase
	OrdersUC    *analytics.OrdersUseCase
	DashboardUC *analytics.DashboardUseCase
	SnapshotUC  *snapshot.UseCase
	CSVUC       *export.CSVUseCase
	PDFUC       *export.PDFUseCase
	Reconciler  *syncer.Reconciler
	JWTSecret   string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Protected routes (Bearer token required)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Sale lines
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Post("/orders", saleHandler.CreateOrder)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Put("/:id", saleHandler.Update)
	salesGroup.Delete("/:id", saleHandler.Delete)

	// Catalog and derived stock
	catalogGroup := protected.Group("/catalog")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	catalogGroup.Get("/", catalogHandler.List)
	catalogGroup.Post("/", catalogHandler.Create)
	catalogGroup.Get("/stock", catalogHandler.Stock)
	catalogGroup.Put("/:ref", catalogHandler.Update)
	catalogGroup.Delete("/:ref", catalogHandler.Delete)

	// Aggregated order view
	orderHandler := NewOrderHandler(deps.OrdersUC)
	protected.Get("/orders", orderHandler.List)

	// Dashboard KPIs
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.Summary)

	// Remote synchronization
	syncGroup := protected.Group("/sync")
	syncHandler := NewSyncHandler(deps.Reconciler)
	syncGroup.Get("/status", syncHandler.Status)
	syncGroup.Post("/init", syncHandler.Init)
	syncGroup.Post("/push", syncHandler.Push)
	syncGroup.Post("/resolve", syncHandler.Resolve)
	syncGroup.Get("/comparison", syncHandler.Comparison)

	// Exports and backup
	exportGroup := protected.Group("/export")
	exportHandler := NewExportHandler(deps.CSVUC, deps.PDFUC, deps.SnapshotUC)
	exportGroup.Get("/sales.csv", exportHandler.SalesCSV)
	exportGroup.Get("/catalog.csv", exportHandler.CatalogCSV)
	exportGroup.Get("/orders/:key", exportHandler.OrderPDF)
	protected.Get("/backup", exportHandler.Backup)
	protected.Post("/backup/import", exportHandler.Import)
}
