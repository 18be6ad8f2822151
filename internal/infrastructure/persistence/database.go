package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/xuanhoa/backend/internal/domain/catalog"
	"github.com/xuanhoa/backend/internal/domain/manufacturing"
	"github.com/xuanhoa/backend/internal/domain/partner"
	"github.com/xuanhoa/backend/internal/domain/shared"
	"github.com/xuanhoa/backend/internal/domain/stock"
	"github.com/xuanhoa/backend/internal/domain/trading"
	"github.com/xuanhoa/backend/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database holds the database connection and provides methods for database operations
type Database struct {
	DB *gorm.DB
}

var _ shared.TransactionManager = (*Database)(nil)

// NewDatabase creates a new database connection with the given configuration
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	return NewDatabaseWithLogger(cfg, logger.Default.LogMode(logger.Silent))
}

// NewDatabaseWithLogger creates a new database connection with a custom GORM logger
func NewDatabaseWithLogger(cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}

// txKey marks a transaction handle carried through a context
type txKey struct{}

// InTransaction runs fn inside a database transaction. The transaction
// handle rides on the context, so repository calls made with that context
// share it. Nested calls become savepoints.
func (d *Database) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return conn(ctx, d.DB).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction carried by ctx, or db scoped to ctx when no
// transaction is open. Every repository query goes through this.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// Migrate creates or updates all tables
func (d *Database) Migrate() error {
	return d.DB.AutoMigrate(
		&shared.NamingSeries{},
		&catalog.Item{},
		&catalog.ItemGroup{},
		&catalog.UOM{},
		&partner.Warehouse{},
		&partner.Supplier{},
		&partner.Customer{},
		&stock.StockEntry{},
		&stock.StockEntryItem{},
		&stock.Bin{},
		&stock.LedgerEntry{},
		&stock.StockSettings{},
		&manufacturing.BOM{},
		&manufacturing.BOMItem{},
		&manufacturing.WorkOrder{},
		&manufacturing.WorkOrderItem{},
		&trading.PurchaseInvoice{},
		&trading.SalesInvoice{},
		&trading.InvoiceItem{},
		&trading.PaymentEntry{},
		&trading.ModeOfPayment{},
		&SeedStage{},
	)
}

// searchPattern builds a case-insensitive LIKE pattern. LOWER on both sides
// keeps the query portable between postgres and sqlite.
func searchPattern(q string) string {
	return "%" + q + "%"
}

// applyOrdering applies OrderBy/OrderDir with a fallback default. The field
// must pass the column whitelist; anything else falls back.
func applyOrdering(query *gorm.DB, filter shared.Filter, allowed map[string]bool, fallback string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, "")
	if field == "" {
		return query.Order(fallback)
	}
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}
