package main

import (
	"context"
	"flag"

	"github.com/xuanhoa/backend/internal/domain/stock"
	"github.com/xuanhoa/backend/internal/infrastructure/config"
	"github.com/xuanhoa/backend/internal/infrastructure/logger"
	"github.com/xuanhoa/backend/internal/infrastructure/persistence"
	"github.com/xuanhoa/backend/internal/infrastructure/seed"
	"go.uber.org/zap"
)

func main() {
	var dataDir string
	flag.StringVar(&dataDir, "data", "", "Path to CSV fixtures (default: seed.data_dir from config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	if dataDir == "" {
		dataDir = cfg.Seed.DataDir
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	// Seeding assumes a current schema
	if err := db.Migrate(); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}

	binRepo := persistence.NewGormBinRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	repos := seed.Repositories{
		Items:        persistence.NewGormItemRepository(db.DB),
		ItemGroups:   persistence.NewGormItemGroupRepository(db.DB),
		UOMs:         persistence.NewGormUOMRepository(db.DB),
		Warehouses:   persistence.NewGormWarehouseRepository(db.DB),
		Suppliers:    persistence.NewGormSupplierRepository(db.DB),
		Customers:    persistence.NewGormCustomerRepository(db.DB),
		BOMs:         persistence.NewGormBOMRepository(db.DB),
		WorkOrders:   persistence.NewGormWorkOrderRepository(db.DB),
		StockEntries: persistence.NewGormStockEntryRepository(db.DB),
		Naming:       persistence.NewGormNamingSeriesRepository(db.DB),
		Stages:       persistence.NewGormSeedStageRepository(db.DB),
	}
	posting := stock.NewPostingService(binRepo, ledgerRepo)

	seeder := seed.NewSeeder(repos, posting, db, cfg.Defaults, dataDir, log)
	if err := seeder.Run(context.Background()); err != nil {
		log.Fatal("Seed failed", zap.Error(err))
	}
	log.Info("Seed completed", zap.String("data_dir", dataDir))
}
