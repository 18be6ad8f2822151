package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuanhoa/backend/internal/domain/shared"
	"github.com/xuanhoa/backend/internal/domain/stock"
	"github.com/xuanhoa/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

type fakeEntries struct {
	byName map[string]*stock.StockEntry
}

func (f *fakeEntries) FindByName(ctx context.Context, name string) (*stock.StockEntry, error) {
	if e, ok := f.byName[name]; ok {
		return e, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeEntries) FindAll(ctx context.Context, filter shared.Filter) ([]stock.StockEntry, int64, error) {
	return nil, 0, nil
}

func (f *fakeEntries) CountByPurposeAndDate(ctx context.Context, purpose stock.Purpose, date time.Time) (int64, error) {
	return int64(len(f.byName)), nil
}

func (f *fakeEntries) CountByWorkOrder(ctx context.Context, workOrder string) (int64, error) {
	return 0, nil
}

func (f *fakeEntries) ExistsBySourceReference(ctx context.Context, reference string) (bool, error) {
	for _, e := range f.byName {
		if e.SourceReference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEntries) Save(ctx context.Context, entry *stock.StockEntry) error {
	f.byName[entry.Name] = entry
	return nil
}

func (f *fakeEntries) Delete(ctx context.Context, name string) error {
	delete(f.byName, name)
	return nil
}

type fakeBins struct {
	byKey map[string]*stock.Bin
}

func (f *fakeBins) Find(ctx context.Context, itemCode, warehouse string) (*stock.Bin, error) {
	if b, ok := f.byKey[itemCode+"|"+warehouse]; ok {
		return b, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeBins) FindByItem(ctx context.Context, itemCode string) ([]stock.Bin, error) {
	return nil, nil
}

func (f *fakeBins) FindByWarehouse(ctx context.Context, warehouse string, filter shared.Filter) ([]stock.Bin, int64, error) {
	return nil, 0, nil
}

func (f *fakeBins) FindAll(ctx context.Context, filter shared.Filter) ([]stock.Bin, int64, error) {
	return nil, 0, nil
}

func (f *fakeBins) TotalStockValue(ctx context.Context) (string, error) {
	return "0", nil
}

func (f *fakeBins) Save(ctx context.Context, bin *stock.Bin) error {
	f.byKey[bin.ItemCode+"|"+bin.Warehouse] = bin
	return nil
}

type fakeLedger struct {
	entries []*stock.LedgerEntry
}

func (f *fakeLedger) Save(ctx context.Context, entry *stock.LedgerEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeLedger) FindAll(ctx context.Context, filter shared.Filter) ([]stock.LedgerEntry, int64, error) {
	return nil, 0, nil
}

func (f *fakeLedger) MarkCancelled(ctx context.Context, voucherType, voucherNo string) error {
	return nil
}

type fakeNaming struct {
	next int
}

func (f *fakeNaming) NextName(ctx context.Context, prefix string, date time.Time) (string, error) {
	f.next++
	return fmt.Sprintf("%s%s-%05d", prefix, date.Format("2006"), f.next), nil
}

type passthroughTx struct{}

func (passthroughTx) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func writeSeedFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestImportOpeningStock(t *testing.T) {
	ctx := context.Background()

	newFixture := func(t *testing.T) (*Seeder, *fakeEntries, *fakeBins) {
		dir := t.TempDir()
		writeSeedFile(t, dir, "purchase_receipt.csv",
			"Receipt No,Date,Supplier,Warehouse\n"+
				"PR-0001,2025-01-10,Công ty Thép Hòa Phát,Kho Chính - XHTB\n"+
				"PR-0002,2025-01-12,Công ty Thép Hòa Phát,Kho Chính - XHTB\n")
		writeSeedFile(t, dir, "purchase_receipt_item.csv",
			"Receipt No,Item Code,Received Quantity,Rate,Warehouse\n"+
				"PR-0001,VT-001,100,25000,\n"+
				"PR-0002,VT-002,40,12000,\n")

		entries := &fakeEntries{byName: make(map[string]*stock.StockEntry)}
		bins := &fakeBins{byKey: make(map[string]*stock.Bin)}
		seeder := NewSeeder(Repositories{
			StockEntries: entries,
			Naming:       &fakeNaming{},
		}, stock.NewPostingService(bins, &fakeLedger{}), passthroughTx{}, config.DefaultsConfig{
			Company:             "Xuân Hòa Thái Bình",
			CompanyAbbr:         "XHTB",
			MainWarehousePrefix: "Kho Chính",
		}, dir, zap.NewNop())
		return seeder, entries, bins
	}

	t.Run("posts each receipt as a submitted entry", func(t *testing.T) {
		seeder, entries, bins := newFixture(t)

		count, err := seeder.importOpeningStock(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		require.Len(t, entries.byName, 2)
		for _, e := range entries.byName {
			assert.True(t, e.IsSubmitted())
			assert.NotEmpty(t, e.SourceReference)
		}
		bin, err := bins.Find(ctx, "VT-001", "Kho Chính - XHTB")
		require.NoError(t, err)
		assert.True(t, bin.ActualQty.Equal(decimal.NewFromInt(100)))
	})

	t.Run("a re-run skips receipts that were already posted", func(t *testing.T) {
		seeder, entries, bins := newFixture(t)

		count, err := seeder.importOpeningStock(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, count)

		count, err = seeder.importOpeningStock(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count, "imported receipts must not post twice")
		assert.Len(t, entries.byName, 2)

		bin, err := bins.Find(ctx, "VT-001", "Kho Chính - XHTB")
		require.NoError(t, err)
		assert.True(t, bin.ActualQty.Equal(decimal.NewFromInt(100)), "a re-run must not double the opening quantity")
	})

	t.Run("a partial first run only imports the missing receipts", func(t *testing.T) {
		seeder, entries, _ := newFixture(t)

		first, err := stock.NewStockEntry(stock.PurposeMaterialReceipt, "Xuân Hòa Thái Bình", time.Now())
		require.NoError(t, err)
		first.Name = "NK-2025-00099"
		first.SourceReference = "PR-0001"
		entries.byName[first.Name] = first

		count, err := seeder.importOpeningStock(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "only the receipt missing from a broken run is posted")
		assert.Len(t, entries.byName, 2)
	})
}
