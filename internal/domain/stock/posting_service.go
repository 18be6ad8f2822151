package stock

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/xuanhoa/backend/internal/domain/shared"
)

// PostingService applies submitted stock entries to bins and the stock
// ledger, and reverses them on cancellation. It is the only writer of bin
// quantities, so stock value stays conserved across transfers.
type PostingService struct {
	bins   BinRepository
	ledger LedgerRepository
}

// NewPostingService creates a new PostingService
func NewPostingService(bins BinRepository, ledger LedgerRepository) *PostingService {
	return &PostingService{bins: bins, ledger: ledger}
}

// CheckAvailability returns the shortfall rows for an entry's outgoing
// quantities without mutating anything. An empty result means the entry
// can be submitted.
func (s *PostingService) CheckAvailability(ctx context.Context, entry *StockEntry) ([]Shortage, error) {
	itemNames := make(map[string]string, len(entry.Items))
	for _, row := range entry.Items {
		if row.ItemName != "" {
			itemNames[row.ItemCode] = row.ItemName
		}
	}

	var shortages []Shortage
	for key, required := range entry.TotalOutgoing() {
		itemCode, warehouse := key[0], key[1]
		bin, err := s.bins.Find(ctx, itemCode, warehouse)
		available := decimal.Zero
		if err == nil {
			available = bin.ActualQty
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if available.LessThan(required) {
			shortages = append(shortages, Shortage{
				ItemCode:     itemCode,
				ItemName:     itemNames[itemCode],
				Warehouse:    warehouse,
				RequiredQty:  required,
				AvailableQty: available,
				Shortage:     required.Sub(available),
			})
		}
	}
	return shortages, nil
}

// Post applies every row of a submitted entry: source rows issue at the
// bin's valuation rate, target rows receive at the row rate (or the issue
// rate for transfers, conserving stock value).
func (s *PostingService) Post(ctx context.Context, entry *StockEntry) error {
	if !entry.IsSubmitted() {
		return shared.NewDomainError("INVALID_STATE", "Only submitted entries can be posted")
	}
	if shortages, err := s.CheckAvailability(ctx, entry); err != nil {
		return err
	} else if len(shortages) > 0 {
		return NewInsufficientStockError(shortages)
	}

	for i := range entry.Items {
		row := &entry.Items[i]
		issueRate := decimal.Zero

		if row.SourceWarehouse != "" {
			bin, err := s.findOrCreateBin(ctx, row.ItemCode, row.SourceWarehouse)
			if err != nil {
				return err
			}
			issueRate, err = bin.Issue(row.Qty)
			if err != nil {
				return err
			}
			if err := s.saveAndLog(ctx, bin, entry, row.Qty.Neg(), issueRate); err != nil {
				return err
			}
		}

		if row.TargetWarehouse != "" {
			rate := row.BasicRate
			if rate.IsZero() && !issueRate.IsZero() {
				rate = issueRate
			}
			bin, err := s.findOrCreateBin(ctx, row.ItemCode, row.TargetWarehouse)
			if err != nil {
				return err
			}
			if err := bin.Receive(row.Qty, rate); err != nil {
				return err
			}
			if err := s.saveAndLog(ctx, bin, entry, row.Qty, rate); err != nil {
				return err
			}
		}
	}
	return nil
}

// Reverse posts the opposite movements of a cancelled entry and marks its
// ledger lines cancelled.
func (s *PostingService) Reverse(ctx context.Context, entry *StockEntry) error {
	if !entry.IsCancelled() {
		return shared.NewDomainError("INVALID_STATE", "Only cancelled entries can be reversed")
	}
	for i := range entry.Items {
		row := &entry.Items[i]

		if row.TargetWarehouse != "" {
			bin, err := s.findOrCreateBin(ctx, row.ItemCode, row.TargetWarehouse)
			if err != nil {
				return err
			}
			rate, err := bin.Issue(row.Qty)
			if err != nil {
				return err
			}
			if err := s.saveAndLog(ctx, bin, entry, row.Qty.Neg(), rate); err != nil {
				return err
			}
		}

		if row.SourceWarehouse != "" {
			bin, err := s.findOrCreateBin(ctx, row.ItemCode, row.SourceWarehouse)
			if err != nil {
				return err
			}
			rate := row.BasicRate
			if rate.IsZero() {
				rate = bin.ValuationRate
			}
			if err := bin.Receive(row.Qty, rate); err != nil {
				return err
			}
			if err := s.saveAndLog(ctx, bin, entry, row.Qty, rate); err != nil {
				return err
			}
		}
	}
	return s.ledger.MarkCancelled(ctx, "Stock Entry", entry.Name)
}

func (s *PostingService) findOrCreateBin(ctx context.Context, itemCode, warehouse string) (*Bin, error) {
	bin, err := s.bins.Find(ctx, itemCode, warehouse)
	if errors.Is(err, shared.ErrNotFound) {
		return NewBin(itemCode, warehouse), nil
	}
	if err != nil {
		return nil, err
	}
	return bin, nil
}

func (s *PostingService) saveAndLog(ctx context.Context, bin *Bin, entry *StockEntry, qty, rate decimal.Decimal) error {
	if err := s.bins.Save(ctx, bin); err != nil {
		return err
	}
	le := &LedgerEntry{
		BaseEntity:    shared.NewBaseEntity(),
		ItemCode:      bin.ItemCode,
		Warehouse:     bin.Warehouse,
		PostingDate:   entry.PostingDate,
		VoucherType:   "Stock Entry",
		VoucherNo:     entry.Name,
		ActualQty:     qty,
		QtyAfter:      bin.ActualQty,
		ValuationRate: rate,
	}
	return s.ledger.Save(ctx, le)
}
