package stock

import (
	"context"
	"time"

	"github.com/xuanhoa/backend/internal/domain/shared"
)

// StockEntryRepository provides persistence for stock entries
type StockEntryRepository interface {
	FindByName(ctx context.Context, name string) (*StockEntry, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]StockEntry, int64, error)
	CountByPurposeAndDate(ctx context.Context, purpose Purpose, date time.Time) (int64, error)
	CountByWorkOrder(ctx context.Context, workOrder string) (int64, error)
	ExistsBySourceReference(ctx context.Context, reference string) (bool, error)
	Save(ctx context.Context, entry *StockEntry) error
	Delete(ctx context.Context, name string) error
}

// BinRepository provides persistence for per-warehouse stock levels
type BinRepository interface {
	Find(ctx context.Context, itemCode, warehouse string) (*Bin, error)
	FindByItem(ctx context.Context, itemCode string) ([]Bin, error)
	FindByWarehouse(ctx context.Context, warehouse string, filter shared.Filter) ([]Bin, int64, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Bin, int64, error)
	TotalStockValue(ctx context.Context) (string, error)
	Save(ctx context.Context, bin *Bin) error
}

// LedgerRepository provides persistence for stock ledger entries
type LedgerRepository interface {
	Save(ctx context.Context, entry *LedgerEntry) error
	FindAll(ctx context.Context, filter shared.Filter) ([]LedgerEntry, int64, error)
	MarkCancelled(ctx context.Context, voucherType, voucherNo string) error
}

// SettingsRepository provides access to the stock settings singleton
type SettingsRepository interface {
	Get(ctx context.Context) (*StockSettings, error)
	Save(ctx context.Context, settings *StockSettings) error
}
