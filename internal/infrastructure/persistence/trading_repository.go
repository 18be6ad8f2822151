package persistence

import (
	"context"
	"errors"

	"github.com/xuanhoa/backend/internal/domain/shared"
	"github.com/xuanhoa/backend/internal/domain/trading"
	"gorm.io/gorm"
)

// GormPurchaseInvoiceRepository implements trading.PurchaseInvoiceRepository using GORM
type GormPurchaseInvoiceRepository struct {
	db *gorm.DB
}

// NewGormPurchaseInvoiceRepository creates a new GormPurchaseInvoiceRepository
func NewGormPurchaseInvoiceRepository(db *gorm.DB) *GormPurchaseInvoiceRepository {
	return &GormPurchaseInvoiceRepository{db: db}
}

// FindByName finds a purchase invoice by its document name, with lines
func (r *GormPurchaseInvoiceRepository) FindByName(ctx context.Context, name string) (*trading.PurchaseInvoice, error) {
	var invoice trading.PurchaseInvoice
	if err := conn(ctx, r.db).
		Preload("Items").
		First(&invoice, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAll finds purchase invoices matching the filter with a total count
func (r *GormPurchaseInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trading.PurchaseInvoice, int64, error) {
	filter.Normalize()
	query := conn(ctx, r.db).Model(&trading.PurchaseInvoice{})

	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(supplier) LIKE LOWER(?)", p, p)
	}
	query = applyInvoiceFilters(query, filter, "supplier")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []trading.PurchaseInvoice
	query = applyOrdering(query, filter, PurchaseInvoiceSortFields, "posting_date DESC, name DESC")
	if err := query.Preload("Items").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// Save creates or updates a purchase invoice with its lines
func (r *GormPurchaseInvoiceRepository) Save(ctx context.Context, invoice *trading.PurchaseInvoice) error {
	return conn(ctx, r.db).Save(invoice).Error
}

// Delete removes a draft purchase invoice by name
func (r *GormPurchaseInvoiceRepository) Delete(ctx context.Context, name string) error {
	result := conn(ctx, r.db).Delete(&trading.PurchaseInvoice{}, "name = ?", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormSalesInvoiceRepository implements trading.SalesInvoiceRepository using GORM
type GormSalesInvoiceRepository struct {
	db *gorm.DB
}

// NewGormSalesInvoiceRepository creates a new GormSalesInvoiceRepository
func NewGormSalesInvoiceRepository(db *gorm.DB) *GormSalesInvoiceRepository {
	return &GormSalesInvoiceRepository{db: db}
}

// FindByName finds a sales invoice by its document name, with lines
func (r *GormSalesInvoiceRepository) FindByName(ctx context.Context, name string) (*trading.SalesInvoice, error) {
	var invoice trading.SalesInvoice
	if err := conn(ctx, r.db).
		Preload("Items").
		First(&invoice, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAll finds sales invoices matching the filter with a total count
func (r *GormSalesInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trading.SalesInvoice, int64, error) {
	filter.Normalize()
	query := conn(ctx, r.db).Model(&trading.SalesInvoice{})

	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(customer) LIKE LOWER(?)", p, p)
	}
	query = applyInvoiceFilters(query, filter, "customer")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []trading.SalesInvoice
	query = applyOrdering(query, filter, SalesInvoiceSortFields, "posting_date DESC, name DESC")
	if err := query.Preload("Items").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// Save creates or updates a sales invoice with its lines
func (r *GormSalesInvoiceRepository) Save(ctx context.Context, invoice *trading.SalesInvoice) error {
	return conn(ctx, r.db).Save(invoice).Error
}

// Delete removes a draft sales invoice by name
func (r *GormSalesInvoiceRepository) Delete(ctx context.Context, name string) error {
	result := conn(ctx, r.db).Delete(&trading.SalesInvoice{}, "name = ?", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyInvoiceFilters applies the filter keys shared by both invoice kinds.
// partyColumn is "supplier" or "customer".
func applyInvoiceFilters(query *gorm.DB, filter shared.Filter, partyColumn string) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "docstatus":
			query = query.Where("doc_status = ?", value)
		case "party":
			query = query.Where(partyColumn+" = ?", value)
		case "from_date":
			query = query.Where("posting_date >= ?", value)
		case "to_date":
			query = query.Where("posting_date <= ?", value)
		}
	}
	return query
}

// GormPaymentEntryRepository implements trading.PaymentEntryRepository using GORM
type GormPaymentEntryRepository struct {
	db *gorm.DB
}

// NewGormPaymentEntryRepository creates a new GormPaymentEntryRepository
func NewGormPaymentEntryRepository(db *gorm.DB) *GormPaymentEntryRepository {
	return &GormPaymentEntryRepository{db: db}
}

// FindByName finds a payment entry by its document name
func (r *GormPaymentEntryRepository) FindByName(ctx context.Context, name string) (*trading.PaymentEntry, error) {
	var entry trading.PaymentEntry
	if err := conn(ctx, r.db).First(&entry, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindAll finds payment entries matching the filter with a total count
func (r *GormPaymentEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trading.PaymentEntry, int64, error) {
	filter.Normalize()
	query := conn(ctx, r.db).Model(&trading.PaymentEntry{})

	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(party) LIKE LOWER(?)", p, p)
	}
	for key, value := range filter.Filters {
		switch key {
		case "payment_type":
			query = query.Where("payment_type = ?", value)
		case "party":
			query = query.Where("party = ?", value)
		case "docstatus":
			query = query.Where("doc_status = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []trading.PaymentEntry
	query = applyOrdering(query, filter, PaymentSortFields, "posting_date DESC, name DESC")
	if err := query.Offset(filter.Offset()).Limit(filter.PageSize).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// FindByReference lists payments settling a given invoice
func (r *GormPaymentEntryRepository) FindByReference(ctx context.Context, referenceName string) ([]trading.PaymentEntry, error) {
	var entries []trading.PaymentEntry
	if err := conn(ctx, r.db).
		Where("reference_name = ?", referenceName).
		Order("posting_date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Save creates or updates a payment entry
func (r *GormPaymentEntryRepository) Save(ctx context.Context, entry *trading.PaymentEntry) error {
	return conn(ctx, r.db).Save(entry).Error
}

// GormModeOfPaymentRepository implements trading.ModeOfPaymentRepository using GORM
type GormModeOfPaymentRepository struct {
	db *gorm.DB
}

// NewGormModeOfPaymentRepository creates a new GormModeOfPaymentRepository
func NewGormModeOfPaymentRepository(db *gorm.DB) *GormModeOfPaymentRepository {
	return &GormModeOfPaymentRepository{db: db}
}

// FindAll lists enabled payment modes
func (r *GormModeOfPaymentRepository) FindAll(ctx context.Context) ([]trading.ModeOfPayment, error) {
	var modes []trading.ModeOfPayment
	if err := conn(ctx, r.db).
		Where("enabled = ?", true).
		Order("name ASC").
		Find(&modes).Error; err != nil {
		return nil, err
	}
	return modes, nil
}

// Save creates or updates a payment mode
func (r *GormModeOfPaymentRepository) Save(ctx context.Context, mode *trading.ModeOfPayment) error {
	return conn(ctx, r.db).Save(mode).Error
}

// Ensure interfaces are implemented
var (
	_ trading.PurchaseInvoiceRepository = (*GormPurchaseInvoiceRepository)(nil)
	_ trading.SalesInvoiceRepository    = (*GormSalesInvoiceRepository)(nil)
	_ trading.PaymentEntryRepository    = (*GormPaymentEntryRepository)(nil)
	_ trading.ModeOfPaymentRepository   = (*GormModeOfPaymentRepository)(nil)
)
