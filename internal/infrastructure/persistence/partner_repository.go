package persistence

import (
	"context"
	"errors"

	"github.com/xuanhoa/backend/internal/domain/partner"
	"github.com/xuanhoa/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormWarehouseRepository implements partner.WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindByName finds a warehouse by its full name
func (r *GormWarehouseRepository) FindByName(ctx context.Context, name string) (*partner.Warehouse, error) {
	var warehouse partner.Warehouse
	if err := conn(ctx, r.db).First(&warehouse, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrWarehouseNotFound
		}
		return nil, err
	}
	return &warehouse, nil
}

// ExistsByName checks if a warehouse exists
func (r *GormWarehouseRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&partner.Warehouse{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll lists warehouses, optionally filtered by the group flag
func (r *GormWarehouseRepository) FindAll(ctx context.Context, isGroup *bool) ([]partner.Warehouse, error) {
	query := conn(ctx, r.db).Model(&partner.Warehouse{})
	if isGroup != nil {
		query = query.Where("is_group = ?", *isGroup)
	}
	var warehouses []partner.Warehouse
	if err := query.Order("name ASC").Find(&warehouses).Error; err != nil {
		return nil, err
	}
	return warehouses, nil
}

// FindFirstLeaf returns the first enabled non-group warehouse by name order
func (r *GormWarehouseRepository) FindFirstLeaf(ctx context.Context) (*partner.Warehouse, error) {
	var warehouse partner.Warehouse
	if err := conn(ctx, r.db).
		Where("is_group = ? AND disabled = ?", false, false).
		Order("name ASC").
		First(&warehouse).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrWarehouseNotFound
		}
		return nil, err
	}
	return &warehouse, nil
}

// Save creates or updates a warehouse
func (r *GormWarehouseRepository) Save(ctx context.Context, warehouse *partner.Warehouse) error {
	return conn(ctx, r.db).Save(warehouse).Error
}

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByName finds a supplier by name
func (r *GormSupplierRepository) FindByName(ctx context.Context, name string) (*partner.Supplier, error) {
	var supplier partner.Supplier
	if err := conn(ctx, r.db).First(&supplier, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrSupplierNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// ExistsByName checks if a supplier exists
func (r *GormSupplierRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&partner.Supplier{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Search finds suppliers matching a free-text query
func (r *GormSupplierRepository) Search(ctx context.Context, query string, limit int) ([]partner.Supplier, error) {
	if limit <= 0 {
		limit = 20
	}
	q := conn(ctx, r.db).Model(&partner.Supplier{})
	if query != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", searchPattern(query))
	}
	var suppliers []partner.Supplier
	if err := q.Order("name ASC").Limit(limit).Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return conn(ctx, r.db).Save(supplier).Error
}

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByName finds a customer by name
func (r *GormCustomerRepository) FindByName(ctx context.Context, name string) (*partner.Customer, error) {
	var customer partner.Customer
	if err := conn(ctx, r.db).First(&customer, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// ExistsByName checks if a customer exists
func (r *GormCustomerRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&partner.Customer{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Search finds customers matching a free-text query
func (r *GormCustomerRepository) Search(ctx context.Context, query string, limit int) ([]partner.Customer, error) {
	if limit <= 0 {
		limit = 20
	}
	q := conn(ctx, r.db).Model(&partner.Customer{})
	if query != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", searchPattern(query))
	}
	var customers []partner.Customer
	if err := q.Order("name ASC").Limit(limit).Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return conn(ctx, r.db).Save(customer).Error
}

// Ensure interfaces are implemented
var (
	_ partner.WarehouseRepository = (*GormWarehouseRepository)(nil)
	_ partner.SupplierRepository  = (*GormSupplierRepository)(nil)
	_ partner.CustomerRepository  = (*GormCustomerRepository)(nil)
)
