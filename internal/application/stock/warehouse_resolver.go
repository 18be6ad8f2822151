package stock

import (
	"context"
	"errors"

	"github.com/xuanhoa/backend/internal/domain/partner"
	"github.com/xuanhoa/backend/internal/domain/shared"
	"github.com/xuanhoa/backend/internal/domain/stock"
	"github.com/xuanhoa/backend/internal/infrastructure/config"
)

// WarehouseResolver picks the warehouse for a stock movement when the
// request omits one. Resolution order: explicit parameter, the company's
// conventional main warehouse, the stock settings default, the first leaf
// warehouse.
type WarehouseResolver struct {
	warehouses partner.WarehouseRepository
	settings   stock.SettingsRepository
	defaults   config.DefaultsConfig
}

// NewWarehouseResolver creates a new WarehouseResolver
func NewWarehouseResolver(warehouses partner.WarehouseRepository, settings stock.SettingsRepository, defaults config.DefaultsConfig) *WarehouseResolver {
	return &WarehouseResolver{
		warehouses: warehouses,
		settings:   settings,
		defaults:   defaults,
	}
}

// Resolve returns a warehouse that can hold stock. An explicit name must
// exist and be a leaf; an empty name walks the default chain.
func (r *WarehouseResolver) Resolve(ctx context.Context, explicit string) (string, error) {
	if explicit != "" {
		warehouse, err := r.warehouses.FindByName(ctx, explicit)
		if err != nil {
			return "", err
		}
		if !warehouse.CanHoldStock() {
			return "", shared.NewDomainError("WAREHOUSE_IS_GROUP", "Warehouse cannot hold stock")
		}
		return warehouse.Name, nil
	}

	if warehouse, err := r.warehouses.FindByName(ctx, r.defaults.MainWarehouse()); err == nil && warehouse.CanHoldStock() {
		return warehouse.Name, nil
	}

	if settings, err := r.settings.Get(ctx); err == nil && settings.DefaultWarehouse != "" {
		if warehouse, err := r.warehouses.FindByName(ctx, settings.DefaultWarehouse); err == nil && warehouse.CanHoldStock() {
			return warehouse.Name, nil
		}
	}

	warehouse, err := r.warehouses.FindFirstLeaf(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrWarehouseNotFound) {
			return "", shared.NewDomainError("NO_DEFAULT_WAREHOUSE", "No default warehouse could be determined")
		}
		return "", err
	}
	return warehouse.Name, nil
}
