package persistence

import (
	"context"
	"errors"

	"github.com/xuanhoa/backend/internal/domain/manufacturing"
	"github.com/xuanhoa/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBOMRepository implements manufacturing.BOMRepository using GORM
type GormBOMRepository struct {
	db *gorm.DB
}

// NewGormBOMRepository creates a new GormBOMRepository
func NewGormBOMRepository(db *gorm.DB) *GormBOMRepository {
	return &GormBOMRepository{db: db}
}

// FindByName finds a BOM by its document name, with component rows
func (r *GormBOMRepository) FindByName(ctx context.Context, name string) (*manufacturing.BOM, error) {
	var bom manufacturing.BOM
	if err := conn(ctx, r.db).
		Preload("Items").
		First(&bom, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrInvalidBOM
		}
		return nil, err
	}
	return &bom, nil
}

// FindDefaultForItem finds the default active submitted BOM for an item
func (r *GormBOMRepository) FindDefaultForItem(ctx context.Context, item string) (*manufacturing.BOM, error) {
	var bom manufacturing.BOM
	if err := conn(ctx, r.db).
		Preload("Items").
		Where("item = ? AND is_default = ? AND is_active = ? AND doc_status = ?",
			item, true, true, shared.DocStatusSubmitted).
		First(&bom).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrInvalidBOM
		}
		return nil, err
	}
	return &bom, nil
}

// FindAll finds BOMs matching the filter with a total count
func (r *GormBOMRepository) FindAll(ctx context.Context, filter shared.Filter) ([]manufacturing.BOM, int64, error) {
	filter.Normalize()
	query := conn(ctx, r.db).Model(&manufacturing.BOM{})

	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(item) LIKE LOWER(?)", p, p)
	}
	for key, value := range filter.Filters {
		switch key {
		case "item":
			query = query.Where("item = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "docstatus":
			query = query.Where("doc_status = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var boms []manufacturing.BOM
	query = applyOrdering(query, filter, BOMSortFields, "name ASC")
	if err := query.Preload("Items").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&boms).Error; err != nil {
		return nil, 0, err
	}
	return boms, total, nil
}

// Save creates or updates a BOM with its component rows
func (r *GormBOMRepository) Save(ctx context.Context, bom *manufacturing.BOM) error {
	return conn(ctx, r.db).Save(bom).Error
}

// Delete removes a BOM by name
func (r *GormBOMRepository) Delete(ctx context.Context, name string) error {
	result := conn(ctx, r.db).Delete(&manufacturing.BOM{}, "name = ?", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ClearDefaultForItem unsets the default flag on every other BOM of an item
func (r *GormBOMRepository) ClearDefaultForItem(ctx context.Context, item, exceptName string) error {
	return conn(ctx, r.db).
		Model(&manufacturing.BOM{}).
		Where("item = ? AND name <> ?", item, exceptName).
		Update("is_default", false).Error
}

// GormWorkOrderRepository implements manufacturing.WorkOrderRepository using GORM
type GormWorkOrderRepository struct {
	db *gorm.DB
}

// NewGormWorkOrderRepository creates a new GormWorkOrderRepository
func NewGormWorkOrderRepository(db *gorm.DB) *GormWorkOrderRepository {
	return &GormWorkOrderRepository{db: db}
}

// FindByName finds a work order by its document name, with required items
func (r *GormWorkOrderRepository) FindByName(ctx context.Context, name string) (*manufacturing.WorkOrder, error) {
	var order manufacturing.WorkOrder
	if err := conn(ctx, r.db).
		Preload("RequiredItems").
		First(&order, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds work orders matching the filter with a total count
func (r *GormWorkOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]manufacturing.WorkOrder, int64, error) {
	filter.Normalize()
	query := conn(ctx, r.db).Model(&manufacturing.WorkOrder{})

	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(production_item) LIKE LOWER(?)", p, p)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "production_item":
			query = query.Where("production_item = ?", value)
		case "docstatus":
			query = query.Where("doc_status = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []manufacturing.WorkOrder
	query = applyOrdering(query, filter, WorkOrderSortFields, "created_at DESC")
	if err := query.Preload("RequiredItems").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// CountByStatus counts work orders in a given status
func (r *GormWorkOrderRepository) CountByStatus(ctx context.Context, status manufacturing.WorkOrderStatus) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&manufacturing.WorkOrder{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByBOM counts non-cancelled work orders referencing a BOM
func (r *GormWorkOrderRepository) CountByBOM(ctx context.Context, bomNo string) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&manufacturing.WorkOrder{}).
		Where("bom_no = ? AND doc_status <> ?", bomNo, shared.DocStatusCancelled).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a work order with its required items
func (r *GormWorkOrderRepository) Save(ctx context.Context, order *manufacturing.WorkOrder) error {
	return conn(ctx, r.db).Save(order).Error
}

// Delete removes a draft work order by name
func (r *GormWorkOrderRepository) Delete(ctx context.Context, name string) error {
	result := conn(ctx, r.db).Delete(&manufacturing.WorkOrder{}, "name = ?", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure interfaces are implemented
var (
	_ manufacturing.BOMRepository       = (*GormBOMRepository)(nil)
	_ manufacturing.WorkOrderRepository = (*GormWorkOrderRepository)(nil)
)
