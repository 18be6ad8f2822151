package catalog

import (
	"context"

	"github.com/xuanhoa/backend/internal/domain/shared"
)

// ItemRepository provides persistence for items
type ItemRepository interface {
	FindByCode(ctx context.Context, itemCode string) (*Item, error)
	ExistsByCode(ctx context.Context, itemCode string) (bool, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Item, int64, error)
	Search(ctx context.Context, query, itemGroup string, limit int) ([]Item, error)
	Save(ctx context.Context, item *Item) error
	CountByGroup(ctx context.Context, group string) (int64, error)
}

// ItemGroupRepository provides persistence for the item group tree
type ItemGroupRepository interface {
	FindByName(ctx context.Context, name string) (*ItemGroup, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	FindAll(ctx context.Context, search string) ([]ItemGroup, error)
	CountChildren(ctx context.Context, name string) (int64, error)
	Save(ctx context.Context, group *ItemGroup) error
	Delete(ctx context.Context, name string) error
}

// UOMRepository provides persistence for units of measure
type UOMRepository interface {
	FindAll(ctx context.Context) ([]UOM, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, uom *UOM) error
}
