package stock

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/xuanhoa/backend/internal/domain/partner"
	"github.com/xuanhoa/backend/internal/domain/shared"
	"github.com/xuanhoa/backend/internal/domain/stock"
)

// ItemStockResult aggregates an item's stock across warehouses.
type ItemStockResult struct {
	ItemCode    string          `json:"item_code"`
	TotalQty    decimal.Decimal `json:"total_qty"`
	TotalValue  decimal.Decimal `json:"total_value"`
	ByWarehouse []BinRow        `json:"by_warehouse"`
}

// BinRow is one warehouse line of an item stock result.
type BinRow struct {
	Warehouse     string          `json:"warehouse"`
	ItemCode      string          `json:"item_code"`
	ActualQty     decimal.Decimal `json:"actual_qty"`
	ReservedQty   decimal.Decimal `json:"reserved_qty"`
	OrderedQty    decimal.Decimal `json:"ordered_qty"`
	ValuationRate decimal.Decimal `json:"valuation_rate"`
	StockValue    decimal.Decimal `json:"stock_value"`
}

// WarehouseDetails combines a warehouse's master data with stock totals.
type WarehouseDetails struct {
	Name          string          `json:"name"`
	WarehouseName string          `json:"warehouse_name"`
	IsGroup       bool            `json:"is_group"`
	ItemCount     int             `json:"item_count"`
	TotalQty      decimal.Decimal `json:"total_qty"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// StockQueryService serves the read-side stock endpoints.
type StockQueryService struct {
	bins       stock.BinRepository
	ledger     stock.LedgerRepository
	warehouses partner.WarehouseRepository
}

// NewStockQueryService creates a new StockQueryService
func NewStockQueryService(bins stock.BinRepository, ledger stock.LedgerRepository, warehouses partner.WarehouseRepository) *StockQueryService {
	return &StockQueryService{bins: bins, ledger: ledger, warehouses: warehouses}
}

// ItemStock returns an item's stock, optionally limited to one warehouse
func (s *StockQueryService) ItemStock(ctx context.Context, itemCode, warehouse string) (*ItemStockResult, error) {
	bins, err := s.bins.FindByItem(ctx, itemCode)
	if err != nil {
		return nil, err
	}

	result := &ItemStockResult{ItemCode: itemCode, ByWarehouse: []BinRow{}}
	for _, bin := range bins {
		if warehouse != "" && bin.Warehouse != warehouse {
			continue
		}
		result.TotalQty = result.TotalQty.Add(bin.ActualQty)
		result.TotalValue = result.TotalValue.Add(bin.StockValue)
		result.ByWarehouse = append(result.ByWarehouse, binRow(bin))
	}
	return result, nil
}

// AllStock lists every bin matching the filter
func (s *StockQueryService) AllStock(ctx context.Context, filter shared.Filter) (shared.Paginated[BinRow], error) {
	filter.Normalize()
	bins, total, err := s.bins.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[BinRow]{}, err
	}
	rows := make([]BinRow, 0, len(bins))
	for _, bin := range bins {
		rows = append(rows, binRow(bin))
	}
	return shared.NewPaginated(rows, total, filter.Page, filter.PageSize), nil
}

// StockByWarehouse lists the bins of one warehouse
func (s *StockQueryService) StockByWarehouse(ctx context.Context, warehouse string, filter shared.Filter) (shared.Paginated[BinRow], error) {
	if _, err := s.warehouses.FindByName(ctx, warehouse); err != nil {
		return shared.Paginated[BinRow]{}, err
	}
	filter.Normalize()
	bins, total, err := s.bins.FindByWarehouse(ctx, warehouse, filter)
	if err != nil {
		return shared.Paginated[BinRow]{}, err
	}
	rows := make([]BinRow, 0, len(bins))
	for _, bin := range bins {
		rows = append(rows, binRow(bin))
	}
	return shared.NewPaginated(rows, total, filter.Page, filter.PageSize), nil
}

// WarehouseStockDetails returns a warehouse's master data with stock totals
func (s *StockQueryService) WarehouseStockDetails(ctx context.Context, name string) (*WarehouseDetails, error) {
	warehouse, err := s.warehouses.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 100
	details := &WarehouseDetails{
		Name:          warehouse.Name,
		WarehouseName: warehouse.WarehouseName,
		IsGroup:       warehouse.IsGroup,
	}
	for {
		bins, total, err := s.bins.FindByWarehouse(ctx, name, filter)
		if err != nil {
			return nil, err
		}
		for _, bin := range bins {
			details.ItemCount++
			details.TotalQty = details.TotalQty.Add(bin.ActualQty)
			details.TotalValue = details.TotalValue.Add(bin.StockValue)
		}
		if int64(filter.Page*filter.PageSize) >= total || len(bins) == 0 {
			break
		}
		filter.Page++
	}
	return details, nil
}

// Ledger lists stock ledger entries matching the filter
func (s *StockQueryService) Ledger(ctx context.Context, filter shared.Filter) (shared.Paginated[stock.LedgerEntry], error) {
	filter.Normalize()
	entries, total, err := s.ledger.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[stock.LedgerEntry]{}, err
	}
	return shared.NewPaginated(entries, total, filter.Page, filter.PageSize), nil
}

// Warehouses lists enabled warehouses, optionally filtered by group flag
func (s *StockQueryService) Warehouses(ctx context.Context, isGroup *bool) ([]partner.Warehouse, error) {
	warehouses, err := s.warehouses.FindAll(ctx, isGroup)
	if err != nil {
		return nil, err
	}
	enabled := make([]partner.Warehouse, 0, len(warehouses))
	for _, w := range warehouses {
		if !w.Disabled {
			enabled = append(enabled, w)
		}
	}
	return enabled, nil
}

func binRow(bin stock.Bin) BinRow {
	return BinRow{
		Warehouse:     bin.Warehouse,
		ItemCode:      bin.ItemCode,
		ActualQty:     bin.ActualQty,
		ReservedQty:   bin.ReservedQty,
		OrderedQty:    bin.OrderedQty,
		ValuationRate: bin.ValuationRate,
		StockValue:    bin.StockValue,
	}
}
