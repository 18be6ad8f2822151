package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	catalogapp "github.com/xuanhoa/backend/internal/application/catalog"
	dashboardapp "github.com/xuanhoa/backend/internal/application/dashboard"
	manufacturingapp "github.com/xuanhoa/backend/internal/application/manufacturing"
	partnerapp "github.com/xuanhoa/backend/internal/application/partner"
	stockapp "github.com/xuanhoa/backend/internal/application/stock"
	tradingapp "github.com/xuanhoa/backend/internal/application/trading"
	"github.com/xuanhoa/backend/internal/domain/stock"
	"github.com/xuanhoa/backend/internal/infrastructure/cache"
	"github.com/xuanhoa/backend/internal/infrastructure/config"
	"github.com/xuanhoa/backend/internal/infrastructure/logger"
	"github.com/xuanhoa/backend/internal/infrastructure/persistence"
	"github.com/xuanhoa/backend/internal/interfaces/rpc"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	itemRepo := persistence.NewGormItemRepository(db.DB)
	itemGroupRepo := persistence.NewGormItemGroupRepository(db.DB)
	uomRepo := persistence.NewGormUOMRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	entryRepo := persistence.NewGormStockEntryRepository(db.DB)
	binRepo := persistence.NewGormBinRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	bomRepo := persistence.NewGormBOMRepository(db.DB)
	workOrderRepo := persistence.NewGormWorkOrderRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseInvoiceRepository(db.DB)
	salesRepo := persistence.NewGormSalesInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentEntryRepository(db.DB)
	modeRepo := persistence.NewGormModeOfPaymentRepository(db.DB)
	namingRepo := persistence.NewGormNamingSeriesRepository(db.DB)

	// Domain and application services
	posting := stock.NewPostingService(binRepo, ledgerRepo)
	resolver := stockapp.NewWarehouseResolver(warehouseRepo, settingsRepo, cfg.Defaults)
	kpiCache := cache.New(cfg.Redis, log)

	services := rpc.Services{
		StockEntries: stockapp.NewStockEntryService(entryRepo, itemRepo, namingRepo, posting, resolver, db, cfg.Defaults, log),
		StockQueries: stockapp.NewStockQueryService(binRepo, ledgerRepo, warehouseRepo),
		Items:        catalogapp.NewItemService(itemRepo, itemGroupRepo),
		ItemGroups:   catalogapp.NewItemGroupService(itemGroupRepo, itemRepo, uomRepo),
		Parties:      partnerapp.NewPartyService(supplierRepo, customerRepo),
		BOMs:         manufacturingapp.NewBOMService(bomRepo, workOrderRepo, itemRepo, namingRepo, cfg.Defaults),
		WorkOrders: manufacturingapp.NewWorkOrderService(
			workOrderRepo, bomRepo, entryRepo, binRepo, itemRepo, namingRepo, posting, resolver, db, cfg.Defaults, log),
		Invoices: tradingapp.NewInvoiceService(
			purchaseRepo, salesRepo, paymentRepo, supplierRepo, customerRepo,
			itemRepo, entryRepo, namingRepo, posting, resolver, db, cfg.Defaults, log),
		Payments:  tradingapp.NewPaymentService(paymentRepo, purchaseRepo, salesRepo, modeRepo, namingRepo, db, cfg.Defaults, log),
		Dashboard: dashboardapp.NewDashboardService(workOrderRepo, entryRepo, binRepo, kpiCache, cfg.Redis.CacheTTL, log),
	}

	server := rpc.NewServer(cfg, services, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
	log.Info("Server stopped")
}
