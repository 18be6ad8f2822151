package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/xuanhoa/backend/internal/domain/shared"
	"github.com/xuanhoa/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormStockEntryRepository implements stock.StockEntryRepository using GORM
type GormStockEntryRepository struct {
	db *gorm.DB
}

// NewGormStockEntryRepository creates a new GormStockEntryRepository
func NewGormStockEntryRepository(db *gorm.DB) *GormStockEntryRepository {
	return &GormStockEntryRepository{db: db}
}

// FindByName finds a stock entry by its document name, with item rows
func (r *GormStockEntryRepository) FindByName(ctx context.Context, name string) (*stock.StockEntry, error) {
	var entry stock.StockEntry
	if err := conn(ctx, r.db).
		Preload("Items").
		First(&entry, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindAll finds stock entries matching the filter with a total count
func (r *GormStockEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.StockEntry, int64, error) {
	filter.Normalize()
	query := conn(ctx, r.db).Model(&stock.StockEntry{})

	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", searchPattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "purpose":
			query = query.Where("purpose = ?", value)
		case "docstatus":
			query = query.Where("doc_status = ?", value)
		case "work_order":
			query = query.Where("work_order = ?", value)
		case "from_date":
			query = query.Where("posting_date >= ?", value)
		case "to_date":
			query = query.Where("posting_date <= ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []stock.StockEntry
	query = applyOrdering(query, filter, StockEntrySortFields, "posting_date DESC, name DESC")
	if err := query.Preload("Items").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// CountByPurposeAndDate counts entries of a purpose posted on a given day
func (r *GormStockEntryRepository) CountByPurposeAndDate(ctx context.Context, purpose stock.Purpose, date time.Time) (int64, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int64
	if err := conn(ctx, r.db).
		Model(&stock.StockEntry{}).
		Where("purpose = ? AND posting_date >= ? AND posting_date < ?", purpose, dayStart, dayEnd).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByWorkOrder counts submitted entries referencing a work order
func (r *GormStockEntryRepository) CountByWorkOrder(ctx context.Context, workOrder string) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&stock.StockEntry{}).
		Where("work_order = ? AND doc_status = ?", workOrder, shared.DocStatusSubmitted).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySourceReference checks whether an entry imported from the given
// external document number already exists
func (r *GormStockEntryRepository) ExistsBySourceReference(ctx context.Context, reference string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&stock.StockEntry{}).
		Where("source_reference = ?", reference).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a stock entry with its item rows
func (r *GormStockEntryRepository) Save(ctx context.Context, entry *stock.StockEntry) error {
	return conn(ctx, r.db).Save(entry).Error
}

// Delete removes a draft stock entry by name
func (r *GormStockEntryRepository) Delete(ctx context.Context, name string) error {
	result := conn(ctx, r.db).Delete(&stock.StockEntry{}, "name = ?", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormBinRepository implements stock.BinRepository using GORM
type GormBinRepository struct {
	db *gorm.DB
}

// NewGormBinRepository creates a new GormBinRepository
func NewGormBinRepository(db *gorm.DB) *GormBinRepository {
	return &GormBinRepository{db: db}
}

// Find finds the bin for an item-warehouse pair
func (r *GormBinRepository) Find(ctx context.Context, itemCode, warehouse string) (*stock.Bin, error) {
	var bin stock.Bin
	if err := conn(ctx, r.db).
		First(&bin, "item_code = ? AND warehouse = ?", itemCode, warehouse).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bin, nil
}

// FindByItem lists all bins for an item across warehouses
func (r *GormBinRepository) FindByItem(ctx context.Context, itemCode string) ([]stock.Bin, error) {
	var bins []stock.Bin
	if err := conn(ctx, r.db).
		Where("item_code = ?", itemCode).
		Order("warehouse ASC").
		Find(&bins).Error; err != nil {
		return nil, err
	}
	return bins, nil
}

// FindByWarehouse lists bins in a warehouse matching the filter
func (r *GormBinRepository) FindByWarehouse(ctx context.Context, warehouse string, filter shared.Filter) ([]stock.Bin, int64, error) {
	filter.Normalize()
	query := conn(ctx, r.db).Model(&stock.Bin{}).Where("warehouse = ?", warehouse)
	if filter.Search != "" {
		query = query.Where("LOWER(item_code) LIKE LOWER(?)", searchPattern(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bins []stock.Bin
	query = applyOrdering(query, filter, BinSortFields, "item_code ASC")
	if err := query.Offset(filter.Offset()).Limit(filter.PageSize).Find(&bins).Error; err != nil {
		return nil, 0, err
	}
	return bins, total, nil
}

// FindAll lists bins matching the filter
func (r *GormBinRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.Bin, int64, error) {
	filter.Normalize()
	query := conn(ctx, r.db).Model(&stock.Bin{})
	if filter.Search != "" {
		query = query.Where("LOWER(item_code) LIKE LOWER(?)", searchPattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "warehouse":
			query = query.Where("warehouse = ?", value)
		case "item_code":
			query = query.Where("item_code = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bins []stock.Bin
	query = applyOrdering(query, filter, BinSortFields, "item_code ASC, warehouse ASC")
	if err := query.Offset(filter.Offset()).Limit(filter.PageSize).Find(&bins).Error; err != nil {
		return nil, 0, err
	}
	return bins, total, nil
}

// TotalStockValue sums stock value across all bins
func (r *GormBinRepository) TotalStockValue(ctx context.Context) (string, error) {
	var total *string
	if err := conn(ctx, r.db).
		Model(&stock.Bin{}).
		Select("SUM(stock_value)").
		Scan(&total).Error; err != nil {
		return "0", err
	}
	if total == nil {
		return "0", nil
	}
	return *total, nil
}

// Save creates or updates a bin
func (r *GormBinRepository) Save(ctx context.Context, bin *stock.Bin) error {
	return conn(ctx, r.db).Save(bin).Error
}

// GormLedgerRepository implements stock.LedgerRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Save appends a ledger entry
func (r *GormLedgerRepository) Save(ctx context.Context, entry *stock.LedgerEntry) error {
	return conn(ctx, r.db).Create(entry).Error
}

// FindAll lists ledger entries matching the filter
func (r *GormLedgerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.LedgerEntry, int64, error) {
	filter.Normalize()
	query := conn(ctx, r.db).Model(&stock.LedgerEntry{})
	for key, value := range filter.Filters {
		switch key {
		case "item_code":
			query = query.Where("item_code = ?", value)
		case "warehouse":
			query = query.Where("warehouse = ?", value)
		case "voucher_no":
			query = query.Where("voucher_no = ?", value)
		case "from_date":
			query = query.Where("posting_date >= ?", value)
		case "to_date":
			query = query.Where("posting_date <= ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []stock.LedgerEntry
	query = applyOrdering(query, filter, LedgerSortFields, "posting_date DESC, created_at DESC")
	if err := query.Offset(filter.Offset()).Limit(filter.PageSize).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// MarkCancelled flags all ledger entries of a voucher as cancelled
func (r *GormLedgerRepository) MarkCancelled(ctx context.Context, voucherType, voucherNo string) error {
	return conn(ctx, r.db).
		Model(&stock.LedgerEntry{}).
		Where("voucher_type = ? AND voucher_no = ?", voucherType, voucherNo).
		Update("is_cancelled", true).Error
}

// GormSettingsRepository implements stock.SettingsRepository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the stock settings singleton, creating it when absent
func (r *GormSettingsRepository) Get(ctx context.Context) (*stock.StockSettings, error) {
	var settings stock.StockSettings
	if err := conn(ctx, r.db).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = stock.StockSettings{BaseEntity: shared.NewBaseEntity()}
			if err := conn(ctx, r.db).Create(&settings).Error; err != nil {
				return nil, err
			}
			return &settings, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Save updates the stock settings singleton
func (r *GormSettingsRepository) Save(ctx context.Context, settings *stock.StockSettings) error {
	return conn(ctx, r.db).Save(settings).Error
}

// Ensure interfaces are implemented
var (
	_ stock.StockEntryRepository = (*GormStockEntryRepository)(nil)
	_ stock.BinRepository        = (*GormBinRepository)(nil)
	_ stock.LedgerRepository     = (*GormLedgerRepository)(nil)
	_ stock.SettingsRepository   = (*GormSettingsRepository)(nil)
)
