package manufacturing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuanhoa/backend/internal/domain/catalog"
	"github.com/xuanhoa/backend/internal/domain/manufacturing"
	"github.com/xuanhoa/backend/internal/domain/shared"
	"github.com/xuanhoa/backend/internal/infrastructure/config"
)

// BOMLineInput is one component row of a BOM create/update request.
type BOMLineInput struct {
	ItemCode string          `json:"item_code"`
	Qty      decimal.Decimal `json:"qty"`
	Rate     decimal.Decimal `json:"rate"`
	UOM      string          `json:"uom"`
}

// CreateBOMRequest carries the fields accepted when creating a BOM.
type CreateBOMRequest struct {
	Item      string          `json:"item"`
	Quantity  decimal.Decimal `json:"quantity"`
	UOM       string          `json:"uom"`
	IsDefault bool            `json:"is_default"`
	Items     []BOMLineInput  `json:"items"`
}

// BOMService handles bill of material operations
type BOMService struct {
	boms       manufacturing.BOMRepository
	workOrders manufacturing.WorkOrderRepository
	items      catalog.ItemRepository
	naming     shared.NamingSeriesRepository
	defaults   config.DefaultsConfig
}

// NewBOMService creates a new BOMService
func NewBOMService(
	boms manufacturing.BOMRepository,
	workOrders manufacturing.WorkOrderRepository,
	items catalog.ItemRepository,
	naming shared.NamingSeriesRepository,
	defaults config.DefaultsConfig,
) *BOMService {
	return &BOMService{
		boms:       boms,
		workOrders: workOrders,
		items:      items,
		naming:     naming,
		defaults:   defaults,
	}
}

// List returns BOMs matching the filter
func (s *BOMService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[manufacturing.BOM], error) {
	filter.Normalize()
	boms, total, err := s.boms.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[manufacturing.BOM]{}, err
	}
	return shared.NewPaginated(boms, total, filter.Page, filter.PageSize), nil
}

// Detail returns one BOM with its component rows
func (s *BOMService) Detail(ctx context.Context, name string) (*manufacturing.BOM, error) {
	return s.boms.FindByName(ctx, name)
}

// BOMItemRow is one component row flattened for the frontend.
type BOMItemRow struct {
	ItemCode        string          `json:"item_code"`
	ItemName        string          `json:"item_name"`
	Qty             decimal.Decimal `json:"qty"`
	QtyRequired     decimal.Decimal `json:"qty_required"`
	UOM             string          `json:"uom"`
	Rate            decimal.Decimal `json:"rate"`
	Amount          decimal.Decimal `json:"amount"`
	SourceWarehouse string          `json:"source_warehouse"`
}

// Items returns the component rows of a BOM as a flat list
func (s *BOMService) Items(ctx context.Context, name string) ([]BOMItemRow, error) {
	bom, err := s.boms.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	rows := make([]BOMItemRow, 0, len(bom.Items))
	for _, item := range bom.Items {
		rows = append(rows, BOMItemRow{
			ItemCode:        item.ItemCode,
			ItemName:        item.ItemName,
			Qty:             item.Qty,
			QtyRequired:     item.Qty.Mul(bom.Quantity),
			UOM:             item.UOM,
			Rate:            item.Rate,
			Amount:          item.Amount(),
			SourceWarehouse: item.SourceWarehouse,
		})
	}
	return rows, nil
}

// Create builds and submits a new BOM. Submitted immediately so work
// orders can reference it.
func (s *BOMService) Create(ctx context.Context, req CreateBOMRequest) (*manufacturing.BOM, error) {
	item, err := s.items.FindByCode(ctx, req.Item)
	if err != nil {
		return nil, err
	}

	bom, err := manufacturing.NewBOM(req.Item, s.defaults.Company, req.Quantity, req.UOM)
	if err != nil {
		return nil, err
	}
	bom.ItemName = item.ItemName
	for _, line := range req.Items {
		component, err := s.items.FindByCode(ctx, line.ItemCode)
		if err != nil {
			return nil, err
		}
		uom := line.UOM
		if uom == "" {
			uom = component.StockUOM
		}
		if err := bom.AddItem(line.ItemCode, line.Qty, line.Rate, uom); err != nil {
			return nil, err
		}
		bom.Items[len(bom.Items)-1].ItemName = component.ItemName
	}
	if err := bom.Validate(); err != nil {
		return nil, err
	}

	name, err := s.naming.NextName(ctx, manufacturing.BOMNamingPrefix, time.Now())
	if err != nil {
		return nil, err
	}
	bom.Name = name
	if err := bom.MarkSubmitted(); err != nil {
		return nil, err
	}
	if req.IsDefault {
		bom.IsDefault = true
		if err := s.boms.ClearDefaultForItem(ctx, bom.Item, bom.Name); err != nil {
			return nil, err
		}
	}
	if err := s.boms.Save(ctx, bom); err != nil {
		return nil, err
	}
	return bom, nil
}

// Update changes a BOM's active and default flags. Component rows of a
// submitted BOM are immutable.
func (s *BOMService) Update(ctx context.Context, name string, isActive, isDefault *bool) (*manufacturing.BOM, error) {
	bom, err := s.boms.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if isActive != nil {
		bom.IsActive = *isActive
		bom.Touch()
	}
	if isDefault != nil {
		bom.IsDefault = *isDefault
		bom.Touch()
		if *isDefault {
			if err := s.boms.ClearDefaultForItem(ctx, bom.Item, bom.Name); err != nil {
				return nil, err
			}
		}
	}
	if err := s.boms.Save(ctx, bom); err != nil {
		return nil, err
	}
	return bom, nil
}

// Delete removes a BOM. BOMs referenced by work orders are refused.
func (s *BOMService) Delete(ctx context.Context, name string) error {
	if _, err := s.boms.FindByName(ctx, name); err != nil {
		return err
	}
	count, err := s.workOrders.CountByBOM(ctx, name)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("BOM_IN_USE", "BOM đang được sử dụng bởi lệnh sản xuất")
	}
	return s.boms.Delete(ctx, name)
}
