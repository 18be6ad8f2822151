package persistence

import (
	"context"
	"errors"

	"github.com/xuanhoa/backend/internal/domain/catalog"
	"github.com/xuanhoa/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormItemRepository implements catalog.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByCode finds an item by its code
func (r *GormItemRepository) FindByCode(ctx context.Context, itemCode string) (*catalog.Item, error) {
	var item catalog.Item
	if err := conn(ctx, r.db).First(&item, "item_code = ?", itemCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// ExistsByCode checks if an item with the given code exists
func (r *GormItemRepository) ExistsByCode(ctx context.Context, itemCode string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&catalog.Item{}).
		Where("item_code = ?", itemCode).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds items matching the filter with a total count
func (r *GormItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Item, int64, error) {
	filter.Normalize()
	query := conn(ctx, r.db).Model(&catalog.Item{})

	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where("LOWER(item_code) LIKE LOWER(?) OR LOWER(item_name) LIKE LOWER(?)", p, p)
	}
	for key, value := range filter.Filters {
		switch key {
		case "item_group":
			query = query.Where("item_group = ?", value)
		case "disabled":
			query = query.Where("disabled = ?", value)
		case "is_stock_item":
			query = query.Where("is_stock_item = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []catalog.Item
	query = applyOrdering(query, filter, ItemSortFields, "item_code ASC")
	if err := query.Offset(filter.Offset()).Limit(filter.PageSize).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Search finds items matching a free-text query, optionally within a group
func (r *GormItemRepository) Search(ctx context.Context, query, itemGroup string, limit int) ([]catalog.Item, error) {
	if limit <= 0 {
		limit = 20
	}
	q := conn(ctx, r.db).Model(&catalog.Item{}).Where("disabled = ?", false)
	if query != "" {
		p := searchPattern(query)
		q = q.Where("LOWER(item_code) LIKE LOWER(?) OR LOWER(item_name) LIKE LOWER(?)", p, p)
	}
	if itemGroup != "" {
		q = q.Where("item_group = ?", itemGroup)
	}

	var items []catalog.Item
	if err := q.Order("item_code ASC").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates an item
func (r *GormItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	return conn(ctx, r.db).Save(item).Error
}

// CountByGroup counts items assigned to a group
func (r *GormItemRepository) CountByGroup(ctx context.Context, group string) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&catalog.Item{}).
		Where("item_group = ?", group).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GormItemGroupRepository implements catalog.ItemGroupRepository using GORM
type GormItemGroupRepository struct {
	db *gorm.DB
}

// NewGormItemGroupRepository creates a new GormItemGroupRepository
func NewGormItemGroupRepository(db *gorm.DB) *GormItemGroupRepository {
	return &GormItemGroupRepository{db: db}
}

// FindByName finds an item group by name
func (r *GormItemGroupRepository) FindByName(ctx context.Context, name string) (*catalog.ItemGroup, error) {
	var group catalog.ItemGroup
	if err := conn(ctx, r.db).First(&group, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// ExistsByName checks if an item group exists
func (r *GormItemGroupRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&catalog.ItemGroup{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll lists item groups, optionally filtered by a name search
func (r *GormItemGroupRepository) FindAll(ctx context.Context, search string) ([]catalog.ItemGroup, error) {
	query := conn(ctx, r.db).Model(&catalog.ItemGroup{})
	if search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", searchPattern(search))
	}
	var groups []catalog.ItemGroup
	if err := query.Order("name ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// CountChildren counts groups whose parent is the given group
func (r *GormItemGroupRepository) CountChildren(ctx context.Context, name string) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&catalog.ItemGroup{}).
		Where("parent_item_group = ?", name).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an item group
func (r *GormItemGroupRepository) Save(ctx context.Context, group *catalog.ItemGroup) error {
	return conn(ctx, r.db).Save(group).Error
}

// Delete removes an item group by name
func (r *GormItemGroupRepository) Delete(ctx context.Context, name string) error {
	result := conn(ctx, r.db).Delete(&catalog.ItemGroup{}, "name = ?", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormUOMRepository implements catalog.UOMRepository using GORM
type GormUOMRepository struct {
	db *gorm.DB
}

// NewGormUOMRepository creates a new GormUOMRepository
func NewGormUOMRepository(db *gorm.DB) *GormUOMRepository {
	return &GormUOMRepository{db: db}
}

// FindAll lists all units of measure
func (r *GormUOMRepository) FindAll(ctx context.Context) ([]catalog.UOM, error) {
	var uoms []catalog.UOM
	if err := conn(ctx, r.db).Order("name ASC").Find(&uoms).Error; err != nil {
		return nil, err
	}
	return uoms, nil
}

// ExistsByName checks if a unit of measure exists
func (r *GormUOMRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&catalog.UOM{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a unit of measure
func (r *GormUOMRepository) Save(ctx context.Context, uom *catalog.UOM) error {
	return conn(ctx, r.db).Save(uom).Error
}

// Ensure interfaces are implemented
var (
	_ catalog.ItemRepository      = (*GormItemRepository)(nil)
	_ catalog.ItemGroupRepository = (*GormItemGroupRepository)(nil)
	_ catalog.UOMRepository       = (*GormUOMRepository)(nil)
)
