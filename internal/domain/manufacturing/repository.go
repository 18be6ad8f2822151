package manufacturing

import (
	"context"

	"github.com/xuanhoa/backend/internal/domain/shared"
)

// BOMRepository provides persistence for bills of materials
type BOMRepository interface {
	FindByName(ctx context.Context, name string) (*BOM, error)
	FindDefaultForItem(ctx context.Context, item string) (*BOM, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]BOM, int64, error)
	Save(ctx context.Context, bom *BOM) error
	Delete(ctx context.Context, name string) error
	ClearDefaultForItem(ctx context.Context, item, exceptName string) error
}

// WorkOrderRepository provides persistence for work orders
type WorkOrderRepository interface {
	FindByName(ctx context.Context, name string) (*WorkOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]WorkOrder, int64, error)
	CountByStatus(ctx context.Context, status WorkOrderStatus) (int64, error)
	CountByBOM(ctx context.Context, bomNo string) (int64, error)
	Save(ctx context.Context, order *WorkOrder) error
	Delete(ctx context.Context, name string) error
}
