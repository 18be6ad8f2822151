package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuanhoa/backend/internal/domain/catalog"
	"github.com/xuanhoa/backend/internal/domain/shared"
	"github.com/xuanhoa/backend/internal/domain/stock"
	"github.com/xuanhoa/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// LineInput is one requested stock movement row.
type LineInput struct {
	ItemCode  string          `json:"item_code"`
	Qty       decimal.Decimal `json:"qty"`
	Rate      decimal.Decimal `json:"rate"`
	Warehouse string          `json:"warehouse"`
}

// EntryResult reports a created stock entry back to the caller.
type EntryResult struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// StockEntryService creates and queries stock entries. Receipts and issues
// are created submitted: validation, naming, posting and persistence happen
// in one call.
type StockEntryService struct {
	entries  stock.StockEntryRepository
	items    catalog.ItemRepository
	naming   shared.NamingSeriesRepository
	posting  *stock.PostingService
	resolver *WarehouseResolver
	tx       shared.TransactionManager
	defaults config.DefaultsConfig
	logger   *zap.Logger
}

// NewStockEntryService creates a new StockEntryService
func NewStockEntryService(
	entries stock.StockEntryRepository,
	items catalog.ItemRepository,
	naming shared.NamingSeriesRepository,
	posting *stock.PostingService,
	resolver *WarehouseResolver,
	tx shared.TransactionManager,
	defaults config.DefaultsConfig,
	logger *zap.Logger,
) *StockEntryService {
	return &StockEntryService{
		entries:  entries,
		items:    items,
		naming:   naming,
		posting:  posting,
		resolver: resolver,
		tx:       tx,
		defaults: defaults,
		logger:   logger.Named("stock"),
	}
}

// CreateMaterialReceipt creates and submits a material receipt. Lines
// without a warehouse go to the resolved default target warehouse.
func (s *StockEntryService) CreateMaterialReceipt(ctx context.Context, lines []LineInput, warehouse string, postingDate time.Time) (*EntryResult, error) {
	entry, err := s.buildEntry(ctx, stock.PurposeMaterialReceipt, lines, warehouse, postingDate)
	if err != nil {
		return nil, err
	}
	if err := s.submit(ctx, entry); err != nil {
		return nil, err
	}
	return &EntryResult{
		Name:    entry.Name,
		Message: fmt.Sprintf("Phiếu nhập kho %s đã tạo thành công", entry.Name),
	}, nil
}

// CreateMaterialIssue creates and submits a material issue. Insufficient
// stock is returned as a typed error carrying the shortfall rows.
func (s *StockEntryService) CreateMaterialIssue(ctx context.Context, lines []LineInput, warehouse string, postingDate time.Time) (*EntryResult, error) {
	entry, err := s.buildEntry(ctx, stock.PurposeMaterialIssue, lines, warehouse, postingDate)
	if err != nil {
		return nil, err
	}
	if err := s.submit(ctx, entry); err != nil {
		return nil, err
	}
	return &EntryResult{
		Name:    entry.Name,
		Message: fmt.Sprintf("Phiếu xuất kho %s đã tạo thành công", entry.Name),
	}, nil
}

// buildEntry validates lines and assembles a draft entry of the given purpose
func (s *StockEntryService) buildEntry(ctx context.Context, purpose stock.Purpose, lines []LineInput, warehouse string, postingDate time.Time) (*stock.StockEntry, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ITEMS", "Danh sách vật tư trống")
	}

	defaultWH, err := s.resolver.Resolve(ctx, warehouse)
	if err != nil {
		return nil, err
	}

	entry, err := stock.NewStockEntry(purpose, s.defaults.Company, postingDate)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		item, err := s.items.FindByCode(ctx, line.ItemCode)
		if err != nil {
			return nil, err
		}
		lineWH := line.Warehouse
		if lineWH == "" {
			lineWH = defaultWH
		} else if lineWH, err = s.resolver.Resolve(ctx, lineWH); err != nil {
			return nil, err
		}

		rate := line.Rate
		if rate.IsZero() && purpose == stock.PurposeMaterialReceipt {
			rate = item.StandardRate
		}

		var source, target string
		if purpose == stock.PurposeMaterialIssue {
			source = lineWH
		} else {
			target = lineWH
		}
		row, err := entry.AddItem(line.ItemCode, line.Qty, rate, source, target)
		if err != nil {
			return nil, err
		}
		row.ItemName = item.ItemName
		row.UOM = item.StockUOM
	}
	return entry, nil
}

// submit names, persists and posts an entry in one transaction, so a failed
// posting never leaves a submitted entry without its ledger rows.
func (s *StockEntryService) submit(ctx context.Context, entry *stock.StockEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if shortages, err := s.posting.CheckAvailability(ctx, entry); err != nil {
		return err
	} else if len(shortages) > 0 {
		return stock.NewInsufficientStockError(shortages)
	}

	err := s.tx.InTransaction(ctx, func(ctx context.Context) error {
		name, err := s.naming.NextName(ctx, entry.Purpose.NamingPrefix(), entry.PostingDate)
		if err != nil {
			return err
		}
		entry.Name = name
		if err := entry.MarkSubmitted(); err != nil {
			return err
		}
		if err := s.entries.Save(ctx, entry); err != nil {
			return err
		}
		return s.posting.Post(ctx, entry)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Stock entry submitted",
		zap.String("name", entry.Name),
		zap.String("purpose", string(entry.Purpose)),
		zap.Int("rows", len(entry.Items)))
	return nil
}

// List returns stock entries matching the filter
func (s *StockEntryService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[stock.StockEntry], error) {
	filter.Normalize()
	entries, total, err := s.entries.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[stock.StockEntry]{}, err
	}
	return shared.NewPaginated(entries, total, filter.Page, filter.PageSize), nil
}

// Detail returns one stock entry with its rows
func (s *StockEntryService) Detail(ctx context.Context, name string) (*stock.StockEntry, error) {
	return s.entries.FindByName(ctx, name)
}
