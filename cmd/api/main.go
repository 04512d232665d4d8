package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/yohand-byte/sales-margin-tracker/internal/application/analytics"
	"github.com/yohand-byte/sales-margin-tracker/internal/application/auth"
	appcatalog "github.com/yohand-byte/sales-margin-tracker/internal/application/catalog"
	appexport "github.com/yohand-byte/sales-margin-tracker/internal/application/export"
	appsales "github.com/yohand-byte/sales-margin-tracker/internal/application/sales"
	"github.com/yohand-byte/sales-margin-tracker/internal/application/snapshot"
	"github.com/yohand-byte/sales-margin-tracker/internal/application/syncer"
	infrapdf "github.com/yohand-byte/sales-margin-tracker/internal/infrastructure/pdf"
	"github.com/yohand-byte/sales-margin-tracker/internal/infrastructure/postgres"
	"github.com/yohand-byte/sales-margin-tracker/internal/infrastructure/remote"
	httpRouter "github.com/yohand-byte/sales-margin-tracker/internal/interfaces/http"
	"github.com/yohand-byte/sales-margin-tracker/pkg/config"
	"github.com/yohand-byte/sales-margin-tracker/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("apply schema")
	}

	saleRepo := postgres.NewSaleRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	datasetRepo := postgres.NewDatasetRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	snapshotUC := snapshot.NewUseCase(txRunner, saleRepo, catalogRepo, datasetRepo, nil, log)

	// Remote sync is optional: without Redis the tracker runs standalone and
	// every sync endpoint reports "disabled".
	reconciler := syncer.NewReconciler(nil, snapshotUC, syncer.Options{Enabled: false}, log)
	if cfg.Sync.Enabled {
		remoteStore, err := remote.NewRedisSnapshotStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Sync.StoreID)
		if err != nil {
			log.Fatal().Err(err).Msg("Redis connection")
		}
		defer remoteStore.Close()
		reconciler = syncer.NewReconciler(remoteStore, snapshotUC, syncer.Options{
			Enabled:       true,
			Debounce:      cfg.Sync.Debounce,
			CheckInterval: cfg.Sync.CheckInterval,
		}, log)
		if err := reconciler.Init(ctx); err != nil {
			// Startup reconciliation failures are recoverable: local data is
			// intact and the operator can retry from /api/sync/init.
			log.Warn().Err(err).Msg("startup reconciliation failed")
		}
		reconciler.Start(ctx)
	}

	salesUC := appsales.NewUseCase(txRunner, saleRepo, catalogRepo, reconciler, log)
	catalogUC := appcatalog.NewUseCase(txRunner, catalogRepo, saleRepo, reconciler, log)
	snapshotUC = snapshot.NewUseCase(txRunner, saleRepo, catalogRepo, datasetRepo, reconciler, log)
	ordersUC := analytics.NewOrdersUseCase(saleRepo, catalogRepo)
	dashboardUC := analytics.NewDashboardUseCase(saleRepo, catalogRepo)
	csvUC := appexport.NewCSVUseCase(saleRepo, catalogRepo)
	pdfUC := appexport.NewPDFUseCase(saleRepo, catalogRepo, infrapdf.NewMarotoPDFGenerator())
	authUC := auth.NewUseCase(cfg.Auth.User, cfg.Auth.PasswordHash, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Sales Margin Tracker API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		SalesUC:     salesUC,
		CatalogUC:   catalogUC,
		OrdersUC:    ordersUC,
		DashboardUC: dashboardUC,
		SnapshotUC:  snapshotUC,
		CSVUC:       csvUC,
		PDFUC:       pdfUC,
		Reconciler:  reconciler,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
