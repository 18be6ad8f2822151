package manufacturing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	appstock "github.com/xuanhoa/backend/internal/application/stock"
	"github.com/xuanhoa/backend/internal/domain/catalog"
	"github.com/xuanhoa/backend/internal/domain/manufacturing"
	"github.com/xuanhoa/backend/internal/domain/shared"
	"github.com/xuanhoa/backend/internal/domain/stock"
	"github.com/xuanhoa/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// CreateWorkOrderRequest carries the fields accepted when creating a
// work order. Warehouses left empty fall back to the resolved defaults.
type CreateWorkOrderRequest struct {
	BOMNo                string          `json:"bom_no"`
	Item                 string          `json:"item"`
	Qty                  decimal.Decimal `json:"qty"`
	SourceWarehouse      string          `json:"source_warehouse"`
	WIPWarehouse         string          `json:"wip_warehouse"`
	FGWarehouse          string          `json:"fg_warehouse"`
	PlannedStartDate     *time.Time      `json:"planned_start_date"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date"`
}

// WorkOrderRow is one work order flattened for list views.
type WorkOrderRow struct {
	Name           string                        `json:"name"`
	ProductionItem string                        `json:"production_item"`
	ItemName       string                        `json:"item_name"`
	BOMNo          string                        `json:"bom_no"`
	Qty            decimal.Decimal               `json:"qty"`
	ProducedQty    decimal.Decimal               `json:"produced_qty"`
	Status         manufacturing.WorkOrderStatus `json:"status"`
	Progress       float64                       `json:"progress"`
	FGWarehouse    string                        `json:"fg_warehouse"`
	PostingDate    time.Time                     `json:"posting_date"`
}

// RequiredItemRow is one raw material row of a work order detail,
// enriched with the quantity currently available at its source warehouse.
type RequiredItemRow struct {
	ItemCode        string          `json:"item_code"`
	ItemName        string          `json:"item_name"`
	RequiredQty     decimal.Decimal `json:"required_qty"`
	TransferredQty  decimal.Decimal `json:"transferred_qty"`
	ConsumedQty     decimal.Decimal `json:"consumed_qty"`
	SourceWarehouse string          `json:"source_warehouse"`
	AvailableQty    decimal.Decimal `json:"available_qty_at_source"`
}

// WorkOrderDetail combines a work order with its enriched material rows.
type WorkOrderDetail struct {
	*manufacturing.WorkOrder
	Progress      float64           `json:"progress"`
	RequiredItems []RequiredItemRow `json:"required_items"`
}

// ActionResult reports a lifecycle action back to the caller.
type ActionResult struct {
	Name       string `json:"name"`
	StockEntry string `json:"stock_entry,omitempty"`
	Message    string `json:"message"`
}

// WorkOrderService drives the production lifecycle. Material transfer and
// finished goods receipt are stock entries created and posted here, so the
// work order and the ledger always agree.
type WorkOrderService struct {
	workOrders manufacturing.WorkOrderRepository
	boms       manufacturing.BOMRepository
	entries    stock.StockEntryRepository
	bins       stock.BinRepository
	items      catalog.ItemRepository
	naming     shared.NamingSeriesRepository
	posting    *stock.PostingService
	resolver   *appstock.WarehouseResolver
	tx         shared.TransactionManager
	defaults   config.DefaultsConfig
	logger     *zap.Logger
}

// NewWorkOrderService creates a new WorkOrderService
func NewWorkOrderService(
	workOrders manufacturing.WorkOrderRepository,
	boms manufacturing.BOMRepository,
	entries stock.StockEntryRepository,
	bins stock.BinRepository,
	items catalog.ItemRepository,
	naming shared.NamingSeriesRepository,
	posting *stock.PostingService,
	resolver *appstock.WarehouseResolver,
	tx shared.TransactionManager,
	defaults config.DefaultsConfig,
	logger *zap.Logger,
) *WorkOrderService {
	return &WorkOrderService{
		workOrders: workOrders,
		boms:       boms,
		entries:    entries,
		bins:       bins,
		items:      items,
		naming:     naming,
		posting:    posting,
		resolver:   resolver,
		tx:         tx,
		defaults:   defaults,
		logger:     logger.Named("manufacturing"),
	}
}

// List returns work orders matching the filter, with progress percentages
func (s *WorkOrderService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[WorkOrderRow], error) {
	filter.Normalize()
	orders, total, err := s.workOrders.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[WorkOrderRow]{}, err
	}
	rows := make([]WorkOrderRow, 0, len(orders))
	for _, wo := range orders {
		rows = append(rows, WorkOrderRow{
			Name:           wo.Name,
			ProductionItem: wo.ProductionItem,
			ItemName:       wo.ItemName,
			BOMNo:          wo.BOMNo,
			Qty:            wo.Qty,
			ProducedQty:    wo.ProducedQty,
			Status:         wo.Status,
			Progress:       wo.Progress(),
			FGWarehouse:    wo.FGWarehouse,
			PostingDate:    wo.PostingDate,
		})
	}
	return shared.NewPaginated(rows, total, filter.Page, filter.PageSize), nil
}

// Detail returns a work order with availability of each required item at
// its source warehouse
func (s *WorkOrderService) Detail(ctx context.Context, name string) (*WorkOrderDetail, error) {
	wo, err := s.workOrders.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	detail := &WorkOrderDetail{WorkOrder: wo, Progress: wo.Progress(), RequiredItems: []RequiredItemRow{}}
	for _, item := range wo.RequiredItems {
		available := decimal.Zero
		if item.SourceWarehouse != "" {
			bin, err := s.bins.Find(ctx, item.ItemCode, item.SourceWarehouse)
			if err == nil {
				available = bin.ActualQty
			} else if !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
		}
		detail.RequiredItems = append(detail.RequiredItems, RequiredItemRow{
			ItemCode:        item.ItemCode,
			ItemName:        item.ItemName,
			RequiredQty:     item.RequiredQty,
			TransferredQty:  item.TransferredQty,
			ConsumedQty:     item.ConsumedQty,
			SourceWarehouse: item.SourceWarehouse,
			AvailableQty:    available,
		})
	}
	return detail, nil
}

// Create builds a draft work order from a BOM. When the request names an
// item instead of a BOM, the item's default BOM is used.
func (s *WorkOrderService) Create(ctx context.Context, req CreateWorkOrderRequest) (*manufacturing.WorkOrder, error) {
	var bom *manufacturing.BOM
	var err error
	switch {
	case req.BOMNo != "":
		bom, err = s.boms.FindByName(ctx, req.BOMNo)
	case req.Item != "":
		bom, err = s.boms.FindDefaultForItem(ctx, req.Item)
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Thiếu BOM hoặc mã hàng")
	}
	if err != nil {
		return nil, err
	}

	sourceWH, err := s.resolver.Resolve(ctx, req.SourceWarehouse)
	if err != nil {
		return nil, err
	}
	wipWH, err := s.resolver.Resolve(ctx, req.WIPWarehouse)
	if err != nil {
		return nil, err
	}
	fgWH, err := s.resolver.Resolve(ctx, req.FGWarehouse)
	if err != nil {
		return nil, err
	}

	wo, err := manufacturing.NewWorkOrder(bom, req.Qty, s.defaults.Company, sourceWH, wipWH, fgWH)
	if err != nil {
		return nil, err
	}
	wo.PlannedStartDate = req.PlannedStartDate
	wo.ExpectedDeliveryDate = req.ExpectedDeliveryDate

	name, err := s.naming.NextName(ctx, manufacturing.WorkOrderNamingPrefix, time.Now())
	if err != nil {
		return nil, err
	}
	wo.Name = name
	if err := s.workOrders.Save(ctx, wo); err != nil {
		return nil, err
	}
	return wo, nil
}

// Submit moves a draft order to Not Started
func (s *WorkOrderService) Submit(ctx context.Context, name string) (*manufacturing.WorkOrder, error) {
	wo, err := s.workOrders.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := wo.Submit(); err != nil {
		return nil, err
	}
	if err := s.workOrders.Save(ctx, wo); err != nil {
		return nil, err
	}
	return wo, nil
}

// Start issues the required raw materials from their source warehouses into
// the WIP warehouse. Stock shortfalls are returned as a typed error before
// anything is written.
func (s *WorkOrderService) Start(ctx context.Context, name string) (*ActionResult, error) {
	wo, err := s.workOrders.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !wo.CanStart() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Không thể bắt đầu Work Order với trạng thái %s", wo.Status))
	}

	entry, err := stock.NewStockEntry(stock.PurposeTransferForManufacture, wo.Company, time.Now())
	if err != nil {
		return nil, err
	}
	entry.WorkOrder = wo.Name
	for _, item := range wo.RequiredItems {
		pending := item.RequiredQty.Sub(item.TransferredQty)
		if pending.LessThanOrEqual(decimal.Zero) {
			continue
		}
		sourceWH := item.SourceWarehouse
		if sourceWH == "" {
			sourceWH = wo.SourceWarehouse
		}
		row, err := entry.AddItem(item.ItemCode, pending, decimal.Zero, sourceWH, wo.WIPWarehouse)
		if err != nil {
			return nil, err
		}
		row.ItemName = item.ItemName
	}
	if len(entry.Items) == 0 {
		return nil, shared.NewDomainError("TRANSFER_COMPLETE", "Vật tư đã được cấp phát đủ")
	}

	if shortages, err := s.posting.CheckAvailability(ctx, entry); err != nil {
		return nil, err
	} else if len(shortages) > 0 {
		return nil, stock.NewInsufficientStockError(shortages)
	}

	// The transfer entry, its postings and the work order status move as
	// one unit.
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		entryName, err := s.naming.NextName(ctx, entry.Purpose.NamingPrefix(), entry.PostingDate)
		if err != nil {
			return err
		}
		entry.Name = entryName
		if err := entry.MarkSubmitted(); err != nil {
			return err
		}
		if err := s.entries.Save(ctx, entry); err != nil {
			return err
		}
		if err := s.posting.Post(ctx, entry); err != nil {
			return err
		}
		if err := wo.RecordTransfer(wo.Qty); err != nil {
			return err
		}
		return s.workOrders.Save(ctx, wo)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Work order started",
		zap.String("work_order", wo.Name),
		zap.String("stock_entry", entry.Name))
	return &ActionResult{
		Name:       wo.Name,
		StockEntry: entry.Name,
		Message:    fmt.Sprintf("Đã cấp phát vật tư cho Work Order %s", wo.Name),
	}, nil
}

// Complete records finished production: raw materials are consumed from the
// WIP warehouse and the finished item is received into the FG warehouse in
// one manufacture entry.
func (s *WorkOrderService) Complete(ctx context.Context, name string, qty decimal.Decimal) (*ActionResult, error) {
	wo, err := s.workOrders.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !wo.IsSubmitted() || wo.Status == manufacturing.StatusCompleted || wo.Status == manufacturing.StatusStopped {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Không thể hoàn thành Work Order với trạng thái %s", wo.Status))
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		qty = wo.RemainingQty()
	}
	if qty.GreaterThan(wo.RemainingQty()) {
		return nil, shared.NewDomainError("QTY_EXCEEDS_REMAINING",
			fmt.Sprintf("Số lượng vượt quá (%s > %s)", qty.String(), wo.RemainingQty().String()))
	}

	entry, err := stock.NewStockEntry(stock.PurposeManufacture, wo.Company, time.Now())
	if err != nil {
		return nil, err
	}
	entry.WorkOrder = wo.Name

	// Consume raw materials from WIP, scaled to the produced quantity
	materialCost := decimal.Zero
	for _, item := range wo.RequiredItems {
		share := item.RequiredQty
		if !wo.Qty.IsZero() {
			share = item.RequiredQty.Mul(qty).Div(wo.Qty).Round(4)
		}
		if share.LessThanOrEqual(decimal.Zero) {
			continue
		}
		row, err := entry.AddItem(item.ItemCode, share, decimal.Zero, wo.WIPWarehouse, "")
		if err != nil {
			return nil, err
		}
		row.ItemName = item.ItemName
		materialCost = materialCost.Add(share.Mul(item.Rate))
	}

	fgRate := decimal.Zero
	if !qty.IsZero() && materialCost.IsPositive() {
		fgRate = materialCost.Div(qty).Round(4)
	}
	fgRow, err := entry.AddItem(wo.ProductionItem, qty, fgRate, "", wo.FGWarehouse)
	if err != nil {
		return nil, err
	}
	fgRow.ItemName = wo.ItemName
	fgRow.IsFinishedItem = true
	if item, err := s.items.FindByCode(ctx, wo.ProductionItem); err == nil {
		fgRow.UOM = item.StockUOM
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if shortages, err := s.posting.CheckAvailability(ctx, entry); err != nil {
		return nil, err
	} else if len(shortages) > 0 {
		return nil, stock.NewInsufficientStockError(shortages)
	}

	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		entryName, err := s.naming.NextName(ctx, entry.Purpose.NamingPrefix(), entry.PostingDate)
		if err != nil {
			return err
		}
		entry.Name = entryName
		if err := entry.MarkSubmitted(); err != nil {
			return err
		}
		if err := s.entries.Save(ctx, entry); err != nil {
			return err
		}
		if err := s.posting.Post(ctx, entry); err != nil {
			return err
		}
		if err := wo.RecordProduction(qty); err != nil {
			return err
		}
		return s.workOrders.Save(ctx, wo)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Production recorded",
		zap.String("work_order", wo.Name),
		zap.String("stock_entry", entry.Name),
		zap.String("qty", qty.String()))
	return &ActionResult{
		Name:       wo.Name,
		StockEntry: entry.Name,
		Message:    fmt.Sprintf("Đã hoàn thành sản xuất %s sản phẩm", qty.String()),
	}, nil
}

// Stop halts an order; no further production is accepted
func (s *WorkOrderService) Stop(ctx context.Context, name string) (*manufacturing.WorkOrder, error) {
	wo, err := s.workOrders.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := wo.Stop(); err != nil {
		return nil, err
	}
	if err := s.tx.InTransaction(ctx, func(ctx context.Context) error {
		return s.workOrders.Save(ctx, wo)
	}); err != nil {
		return nil, err
	}
	return wo, nil
}

// Cancel removes a draft order or cancels a submitted one. Submitted orders
// with linked stock entries or recorded production are refused.
func (s *WorkOrderService) Cancel(ctx context.Context, name string) error {
	wo, err := s.workOrders.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if wo.IsDraft() {
		return s.workOrders.Delete(ctx, name)
	}

	linked, err := s.entries.CountByWorkOrder(ctx, name)
	if err != nil {
		return err
	}
	if linked > 0 {
		return shared.NewDomainError("HAS_STOCK_ENTRIES", "Work Order đã có phiếu kho liên kết, không thể hủy")
	}
	if err := wo.Cancel(); err != nil {
		return err
	}
	return s.workOrders.Save(ctx, wo)
}
