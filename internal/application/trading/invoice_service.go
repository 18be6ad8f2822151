package trading

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	appstock "github.com/xuanhoa/backend/internal/application/stock"
	"github.com/xuanhoa/backend/internal/domain/catalog"
	"github.com/xuanhoa/backend/internal/domain/partner"
	"github.com/xuanhoa/backend/internal/domain/shared"
	"github.com/xuanhoa/backend/internal/domain/stock"
	"github.com/xuanhoa/backend/internal/domain/trading"
	"github.com/xuanhoa/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// InvoiceLineInput is one line of an invoice create request.
type InvoiceLineInput struct {
	ItemCode  string          `json:"item_code"`
	Qty       decimal.Decimal `json:"qty"`
	Rate      decimal.Decimal `json:"rate"`
	Warehouse string          `json:"warehouse"`
}

// CreatePurchaseInvoiceRequest carries the fields accepted when creating
// a purchase invoice.
type CreatePurchaseInvoiceRequest struct {
	Supplier     string             `json:"supplier" validate:"required"`
	BillNo       string             `json:"bill_no"`
	PostingDate  time.Time          `json:"posting_date"`
	DueDate      *time.Time         `json:"due_date"`
	SetWarehouse string             `json:"set_warehouse"`
	UpdateStock  bool               `json:"update_stock"`
	Items        []InvoiceLineInput `json:"items"`
}

// CreateSalesInvoiceRequest carries the fields accepted when creating a
// sales invoice.
type CreateSalesInvoiceRequest struct {
	Customer     string             `json:"customer" validate:"required"`
	PostingDate  time.Time          `json:"posting_date"`
	DueDate      *time.Time         `json:"due_date"`
	SetWarehouse string             `json:"set_warehouse"`
	UpdateStock  bool               `json:"update_stock"`
	Items        []InvoiceLineInput `json:"items"`
}

// InvoiceResult reports a created or submitted invoice back to the caller.
type InvoiceResult struct {
	Name       string `json:"name"`
	StockEntry string `json:"stock_entry,omitempty"`
	Message    string `json:"message"`
}

// InvoiceService handles purchase and sales invoices. Invoices flagged
// update_stock move inventory on submit through a named stock entry, so
// the trading documents and the stock ledger stay consistent.
type InvoiceService struct {
	purchases trading.PurchaseInvoiceRepository
	sales     trading.SalesInvoiceRepository
	payments  trading.PaymentEntryRepository
	suppliers partner.SupplierRepository
	customers partner.CustomerRepository
	items     catalog.ItemRepository
	entries   stock.StockEntryRepository
	naming    shared.NamingSeriesRepository
	posting   *stock.PostingService
	resolver  *appstock.WarehouseResolver
	tx        shared.TransactionManager
	defaults  config.DefaultsConfig
	logger    *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	purchases trading.PurchaseInvoiceRepository,
	sales trading.SalesInvoiceRepository,
	payments trading.PaymentEntryRepository,
	suppliers partner.SupplierRepository,
	customers partner.CustomerRepository,
	items catalog.ItemRepository,
	entries stock.StockEntryRepository,
	naming shared.NamingSeriesRepository,
	posting *stock.PostingService,
	resolver *appstock.WarehouseResolver,
	tx shared.TransactionManager,
	defaults config.DefaultsConfig,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		purchases: purchases,
		sales:     sales,
		payments:  payments,
		suppliers: suppliers,
		customers: customers,
		items:     items,
		entries:   entries,
		naming:    naming,
		posting:   posting,
		resolver:  resolver,
		tx:        tx,
		defaults:  defaults,
		logger:    logger.Named("trading"),
	}
}

// ListPurchases returns purchase invoices matching the filter
func (s *InvoiceService) ListPurchases(ctx context.Context, filter shared.Filter) (shared.Paginated[trading.PurchaseInvoice], error) {
	filter.Normalize()
	invoices, total, err := s.purchases.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[trading.PurchaseInvoice]{}, err
	}
	return shared.NewPaginated(invoices, total, filter.Page, filter.PageSize), nil
}

// PurchaseDetail returns one purchase invoice with its lines
func (s *InvoiceService) PurchaseDetail(ctx context.Context, name string) (*trading.PurchaseInvoice, error) {
	return s.purchases.FindByName(ctx, name)
}

// CreatePurchase creates a draft purchase invoice
func (s *InvoiceService) CreatePurchase(ctx context.Context, req CreatePurchaseInvoiceRequest) (*trading.PurchaseInvoice, error) {
	if _, err := s.suppliers.FindByName(ctx, req.Supplier); err != nil {
		return nil, err
	}
	inv, err := trading.NewPurchaseInvoice(req.Supplier, s.defaults.Company, req.PostingDate)
	if err != nil {
		return nil, err
	}
	inv.BillNo = req.BillNo
	inv.DueDate = req.DueDate
	inv.SetWarehouse = req.SetWarehouse
	inv.UpdateStock = req.UpdateStock
	if err := s.addPurchaseLines(ctx, inv, req.Items); err != nil {
		return nil, err
	}

	name, err := s.naming.NextName(ctx, trading.PurchaseInvoicePrefix, inv.PostingDate)
	if err != nil {
		return nil, err
	}
	inv.Name = name
	if err := s.purchases.Save(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *InvoiceService) addPurchaseLines(ctx context.Context, inv *trading.PurchaseInvoice, lines []InvoiceLineInput) error {
	for _, line := range lines {
		item, err := s.items.FindByCode(ctx, line.ItemCode)
		if err != nil {
			return err
		}
		rate := line.Rate
		if rate.IsZero() {
			rate = item.StandardRate
		}
		if err := inv.AddItem(line.ItemCode, line.Qty, rate, line.Warehouse); err != nil {
			return err
		}
		row := &inv.Items[len(inv.Items)-1]
		row.ItemName = item.ItemName
		row.UOM = item.StockUOM
	}
	return nil
}

// SubmitPurchase finalizes a purchase invoice. With update_stock set, the
// goods are received into the invoice warehouses in one material receipt.
func (s *InvoiceService) SubmitPurchase(ctx context.Context, name string) (*InvoiceResult, error) {
	inv, err := s.purchases.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := inv.Submit(); err != nil {
		return nil, err
	}

	result := &InvoiceResult{
		Name:    inv.Name,
		Message: fmt.Sprintf("Hóa đơn mua hàng %s đã được ghi sổ", inv.Name),
	}
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		if inv.UpdateStock {
			entryName, err := s.postInvoiceStock(ctx, stock.PurposeMaterialReceipt, inv.SetWarehouse, inv.PostingDate, inv.Items)
			if err != nil {
				return err
			}
			result.StockEntry = entryName
		}
		return s.purchases.Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Purchase invoice submitted",
		zap.String("name", inv.Name),
		zap.String("supplier", inv.Supplier),
		zap.Bool("update_stock", inv.UpdateStock))
	return result, nil
}

// CancelPurchase removes a draft or cancels a submitted purchase invoice
func (s *InvoiceService) CancelPurchase(ctx context.Context, name string) error {
	inv, err := s.purchases.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if inv.IsDraft() {
		return s.purchases.Delete(ctx, name)
	}
	if err := inv.Cancel(); err != nil {
		return err
	}
	return s.purchases.Save(ctx, inv)
}

// ListSales returns sales invoices matching the filter
func (s *InvoiceService) ListSales(ctx context.Context, filter shared.Filter) (shared.Paginated[trading.SalesInvoice], error) {
	filter.Normalize()
	invoices, total, err := s.sales.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[trading.SalesInvoice]{}, err
	}
	return shared.NewPaginated(invoices, total, filter.Page, filter.PageSize), nil
}

// SalesDetail returns one sales invoice with its lines
func (s *InvoiceService) SalesDetail(ctx context.Context, name string) (*trading.SalesInvoice, error) {
	return s.sales.FindByName(ctx, name)
}

// CreateSales creates a draft sales invoice. Line rates default to the
// item's standard selling rate.
func (s *InvoiceService) CreateSales(ctx context.Context, req CreateSalesInvoiceRequest) (*trading.SalesInvoice, error) {
	if _, err := s.customers.FindByName(ctx, req.Customer); err != nil {
		return nil, err
	}
	inv, err := trading.NewSalesInvoice(req.Customer, s.defaults.Company, req.PostingDate)
	if err != nil {
		return nil, err
	}
	inv.DueDate = req.DueDate
	inv.SetWarehouse = req.SetWarehouse
	inv.UpdateStock = req.UpdateStock
	for _, line := range req.Items {
		item, err := s.items.FindByCode(ctx, line.ItemCode)
		if err != nil {
			return nil, err
		}
		rate := line.Rate
		if rate.IsZero() {
			rate = item.StandardRate
		}
		if err := inv.AddItem(line.ItemCode, line.Qty, rate, line.Warehouse); err != nil {
			return nil, err
		}
		row := &inv.Items[len(inv.Items)-1]
		row.ItemName = item.ItemName
		row.UOM = item.StockUOM
	}

	name, err := s.naming.NextName(ctx, trading.SalesInvoicePrefix, inv.PostingDate)
	if err != nil {
		return nil, err
	}
	inv.Name = name
	if err := s.sales.Save(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// SubmitSales finalizes a sales invoice. With update_stock set, the goods
// are issued from the invoice warehouses; shortfalls abort the submit.
func (s *InvoiceService) SubmitSales(ctx context.Context, name string) (*InvoiceResult, error) {
	inv, err := s.sales.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := inv.Submit(); err != nil {
		return nil, err
	}

	result := &InvoiceResult{
		Name:    inv.Name,
		Message: fmt.Sprintf("Hóa đơn bán hàng %s đã được ghi sổ", inv.Name),
	}
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		if inv.UpdateStock {
			entryName, err := s.postInvoiceStock(ctx, stock.PurposeMaterialIssue, inv.SetWarehouse, inv.PostingDate, inv.Items)
			if err != nil {
				return err
			}
			result.StockEntry = entryName
		}
		return s.sales.Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Sales invoice submitted",
		zap.String("name", inv.Name),
		zap.String("customer", inv.Customer),
		zap.Bool("update_stock", inv.UpdateStock))
	return result, nil
}

// CancelSales removes a draft or cancels a submitted sales invoice
func (s *InvoiceService) CancelSales(ctx context.Context, name string) error {
	inv, err := s.sales.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if inv.IsDraft() {
		return s.sales.Delete(ctx, name)
	}
	if err := inv.Cancel(); err != nil {
		return err
	}
	return s.sales.Save(ctx, inv)
}

// CreateStockEntryFromPurchase receives the goods of a submitted purchase
// invoice that was booked without update_stock.
func (s *InvoiceService) CreateStockEntryFromPurchase(ctx context.Context, name string) (*InvoiceResult, error) {
	inv, err := s.purchases.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !inv.IsSubmitted() {
		return nil, shared.NewDomainError("INVALID_STATE", "Hóa đơn chưa được ghi sổ")
	}
	var entryName string
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		entryName, err = s.postInvoiceStock(ctx, stock.PurposeMaterialReceipt, inv.SetWarehouse, inv.PostingDate, inv.Items)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &InvoiceResult{
		Name:       inv.Name,
		StockEntry: entryName,
		Message:    fmt.Sprintf("Phiếu nhập kho %s đã tạo thành công", entryName),
	}, nil
}

// CreateStockEntryFromSales issues the goods of a submitted sales invoice
// that was booked without update_stock. Shortfalls are returned as a typed
// error before anything is written.
func (s *InvoiceService) CreateStockEntryFromSales(ctx context.Context, name string) (*InvoiceResult, error) {
	inv, err := s.sales.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !inv.IsSubmitted() {
		return nil, shared.NewDomainError("INVALID_STATE", "Hóa đơn chưa được ghi sổ")
	}
	var entryName string
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		entryName, err = s.postInvoiceStock(ctx, stock.PurposeMaterialIssue, inv.SetWarehouse, inv.PostingDate, inv.Items)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &InvoiceResult{
		Name:       inv.Name,
		StockEntry: entryName,
		Message:    fmt.Sprintf("Phiếu xuất kho %s đã tạo thành công", entryName),
	}, nil
}

// postInvoiceStock moves the invoice lines through a submitted stock entry.
// Receipts use the invoice rates; issues consume at bin valuation.
func (s *InvoiceService) postInvoiceStock(ctx context.Context, purpose stock.Purpose, setWarehouse string, postingDate time.Time, lines []trading.InvoiceItem) (string, error) {
	defaultWH, err := s.resolver.Resolve(ctx, setWarehouse)
	if err != nil {
		return "", err
	}

	entry, err := stock.NewStockEntry(purpose, s.defaults.Company, postingDate)
	if err != nil {
		return "", err
	}
	for _, line := range lines {
		lineWH := line.Warehouse
		if lineWH == "" {
			lineWH = defaultWH
		} else if lineWH, err = s.resolver.Resolve(ctx, lineWH); err != nil {
			return "", err
		}
		var source, target string
		rate := decimal.Zero
		if purpose == stock.PurposeMaterialIssue {
			source = lineWH
		} else {
			target = lineWH
			rate = line.Rate
		}
		row, err := entry.AddItem(line.ItemCode, line.Qty, rate, source, target)
		if err != nil {
			return "", err
		}
		row.ItemName = line.ItemName
		row.UOM = line.UOM
	}

	if shortages, err := s.posting.CheckAvailability(ctx, entry); err != nil {
		return "", err
	} else if len(shortages) > 0 {
		return "", stock.NewInsufficientStockError(shortages)
	}

	entryName, err := s.naming.NextName(ctx, entry.Purpose.NamingPrefix(), entry.PostingDate)
	if err != nil {
		return "", err
	}
	entry.Name = entryName
	if err := entry.MarkSubmitted(); err != nil {
		return "", err
	}
	if err := s.entries.Save(ctx, entry); err != nil {
		return "", err
	}
	if err := s.posting.Post(ctx, entry); err != nil {
		return "", err
	}
	return entry.Name, nil
}
