package stock

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuanhoa/backend/internal/domain/catalog"
	"github.com/xuanhoa/backend/internal/domain/partner"
	"github.com/xuanhoa/backend/internal/domain/shared"
	"github.com/xuanhoa/backend/internal/domain/stock"
	"github.com/xuanhoa/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockStockEntryRepository struct {
	mock.Mock
}

func (m *MockStockEntryRepository) FindByName(ctx context.Context, name string) (*stock.StockEntry, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.StockEntry), args.Error(1)
}

func (m *MockStockEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.StockEntry, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]stock.StockEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockStockEntryRepository) CountByPurposeAndDate(ctx context.Context, purpose stock.Purpose, date time.Time) (int64, error) {
	args := m.Called(ctx, purpose, date)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockEntryRepository) CountByWorkOrder(ctx context.Context, workOrder string) (int64, error) {
	args := m.Called(ctx, workOrder)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockEntryRepository) ExistsBySourceReference(ctx context.Context, reference string) (bool, error) {
	args := m.Called(ctx, reference)
	return args.Bool(0), args.Error(1)
}

func (m *MockStockEntryRepository) Save(ctx context.Context, entry *stock.StockEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStockEntryRepository) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByCode(ctx context.Context, itemCode string) (*catalog.Item, error) {
	args := m.Called(ctx, itemCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) ExistsByCode(ctx context.Context, itemCode string) (bool, error) {
	args := m.Called(ctx, itemCode)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Item, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Item), args.Get(1).(int64), args.Error(2)
}

func (m *MockItemRepository) Search(ctx context.Context, query, itemGroup string, limit int) ([]catalog.Item, error) {
	args := m.Called(ctx, query, itemGroup, limit)
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) CountByGroup(ctx context.Context, group string) (int64, error) {
	args := m.Called(ctx, group)
	return args.Get(0).(int64), args.Error(1)
}

type MockNamingSeriesRepository struct {
	mock.Mock
}

func (m *MockNamingSeriesRepository) NextName(ctx context.Context, prefix string, date time.Time) (string, error) {
	args := m.Called(ctx, prefix, date)
	return args.String(0), args.Error(1)
}

type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) FindByName(ctx context.Context, name string) (*partner.Warehouse, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockWarehouseRepository) FindAll(ctx context.Context, isGroup *bool) ([]partner.Warehouse, error) {
	args := m.Called(ctx, isGroup)
	return args.Get(0).([]partner.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindFirstLeaf(ctx context.Context) (*partner.Warehouse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) Save(ctx context.Context, warehouse *partner.Warehouse) error {
	args := m.Called(ctx, warehouse)
	return args.Error(0)
}

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*stock.StockSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.StockSettings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, settings *stock.StockSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

type MockBinRepository struct {
	mock.Mock
}

func (m *MockBinRepository) Find(ctx context.Context, itemCode, warehouse string) (*stock.Bin, error) {
	args := m.Called(ctx, itemCode, warehouse)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Bin), args.Error(1)
}

func (m *MockBinRepository) FindByItem(ctx context.Context, itemCode string) ([]stock.Bin, error) {
	args := m.Called(ctx, itemCode)
	return args.Get(0).([]stock.Bin), args.Error(1)
}

func (m *MockBinRepository) FindByWarehouse(ctx context.Context, warehouse string, filter shared.Filter) ([]stock.Bin, int64, error) {
	args := m.Called(ctx, warehouse, filter)
	return args.Get(0).([]stock.Bin), args.Get(1).(int64), args.Error(2)
}

func (m *MockBinRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.Bin, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]stock.Bin), args.Get(1).(int64), args.Error(2)
}

func (m *MockBinRepository) TotalStockValue(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockBinRepository) Save(ctx context.Context, bin *stock.Bin) error {
	args := m.Called(ctx, bin)
	return args.Error(0)
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Save(ctx context.Context, entry *stock.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.LedgerEntry, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]stock.LedgerEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerRepository) MarkCancelled(ctx context.Context, voucherType, voucherNo string) error {
	args := m.Called(ctx, voucherType, voucherNo)
	return args.Error(0)
}

// =============================================================================
// Fixtures
// =============================================================================

// txMarker stamps contexts handed out by the recording transaction manager
type txMarker struct{}

// recordingTx is a pass-through transaction manager that counts invocations
// and marks the context given to fn, so tests can check writes run inside it.
type recordingTx struct {
	calls int
}

func (r *recordingTx) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	return fn(context.WithValue(ctx, txMarker{}, true))
}

// insideTx matches contexts produced by recordingTx
func insideTx(ctx context.Context) bool {
	inside, _ := ctx.Value(txMarker{}).(bool)
	return inside
}

type entryServiceFixture struct {
	service    *StockEntryService
	entries    *MockStockEntryRepository
	items      *MockItemRepository
	naming     *MockNamingSeriesRepository
	warehouses *MockWarehouseRepository
	settings   *MockSettingsRepository
	bins       *MockBinRepository
	ledger     *MockLedgerRepository
	tx         *recordingTx
}

func newEntryServiceFixture() *entryServiceFixture {
	f := &entryServiceFixture{
		entries:    new(MockStockEntryRepository),
		items:      new(MockItemRepository),
		naming:     new(MockNamingSeriesRepository),
		warehouses: new(MockWarehouseRepository),
		settings:   new(MockSettingsRepository),
		bins:       new(MockBinRepository),
		ledger:     new(MockLedgerRepository),
		tx:         new(recordingTx),
	}
	defaults := config.DefaultsConfig{
		Company:             "Xuân Hòa Thái Bình",
		CompanyAbbr:         "XHTB",
		MainWarehousePrefix: "Kho Chính",
	}
	posting := stock.NewPostingService(f.bins, f.ledger)
	resolver := NewWarehouseResolver(f.warehouses, f.settings, defaults)
	f.service = NewStockEntryService(f.entries, f.items, f.naming, posting, resolver, f.tx, defaults, zap.NewNop())
	return f
}

func mainWarehouse() *partner.Warehouse {
	return &partner.Warehouse{Name: "Kho Chính - XHTB", WarehouseName: "Kho Chính", Company: "Xuân Hòa Thái Bình"}
}

func steelItem() *catalog.Item {
	return &catalog.Item{
		ItemCode:     "VT-001",
		ItemName:     "Thép tấm",
		ItemGroup:    "Vật tư",
		StockUOM:     "Kg",
		IsStockItem:  true,
		StandardRate: decimal.NewFromInt(100),
	}
}

// =============================================================================
// Tests
// =============================================================================

func TestCreateMaterialReceipt(t *testing.T) {
	ctx := context.Background()
	postingDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("rejects an empty item list", func(t *testing.T) {
		f := newEntryServiceFixture()
		_, err := f.service.CreateMaterialReceipt(ctx, nil, "", postingDate)
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "EMPTY_ITEMS", domainErr.Code)
		assert.Equal(t, "Danh sách vật tư trống", domainErr.Message)
		f.entries.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("submits and posts a receipt, pricing lines from the item master", func(t *testing.T) {
		f := newEntryServiceFixture()
		f.warehouses.On("FindByName", mock.Anything, "Kho Chính - XHTB").Return(mainWarehouse(), nil)
		f.items.On("FindByCode", mock.Anything, "VT-001").Return(steelItem(), nil)
		f.naming.On("NextName", mock.Anything, "NK", postingDate).Return("NK-2025-00001", nil)

		var saved *stock.StockEntry
		f.entries.On("Save", mock.MatchedBy(insideTx), mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).(*stock.StockEntry)
		}).Return(nil)
		f.bins.On("Find", mock.Anything, "VT-001", "Kho Chính - XHTB").Return(nil, shared.ErrNotFound)
		f.bins.On("Save", mock.MatchedBy(insideTx), mock.Anything).Return(nil)
		f.ledger.On("Save", mock.MatchedBy(insideTx), mock.Anything).Return(nil)

		lines := []LineInput{{ItemCode: "VT-001", Qty: decimal.NewFromInt(10)}}
		result, err := f.service.CreateMaterialReceipt(ctx, lines, "", postingDate)
		require.NoError(t, err)
		assert.Equal(t, "NK-2025-00001", result.Name)
		assert.Equal(t, "Phiếu nhập kho NK-2025-00001 đã tạo thành công", result.Message)

		require.NotNil(t, saved)
		assert.True(t, saved.IsSubmitted())
		require.Len(t, saved.Items, 1)
		assert.Equal(t, "Kho Chính - XHTB", saved.Items[0].TargetWarehouse)
		assert.True(t, saved.Items[0].BasicRate.Equal(decimal.NewFromInt(100)),
			"zero-rate lines fall back to the item standard rate")
		assert.Equal(t, 1, f.tx.calls, "entry, bin and ledger writes share one transaction")
		f.bins.AssertCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("propagates unknown item codes", func(t *testing.T) {
		f := newEntryServiceFixture()
		f.warehouses.On("FindByName", mock.Anything, "Kho Chính - XHTB").Return(mainWarehouse(), nil)
		f.items.On("FindByCode", mock.Anything, "VT-404").Return(nil, shared.ErrItemNotFound)

		lines := []LineInput{{ItemCode: "VT-404", Qty: decimal.NewFromInt(1)}}
		_, err := f.service.CreateMaterialReceipt(ctx, lines, "", postingDate)
		assert.ErrorIs(t, err, shared.ErrItemNotFound)
		f.entries.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCreateMaterialIssue(t *testing.T) {
	ctx := context.Background()
	postingDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("reports shortfalls before anything is written", func(t *testing.T) {
		f := newEntryServiceFixture()
		f.warehouses.On("FindByName", mock.Anything, "Kho Chính - XHTB").Return(mainWarehouse(), nil)
		f.items.On("FindByCode", mock.Anything, "VT-001").Return(steelItem(), nil)

		bin := stock.NewBin("VT-001", "Kho Chính - XHTB")
		require.NoError(t, bin.Receive(decimal.NewFromInt(3), decimal.NewFromInt(100)))
		f.bins.On("Find", mock.Anything, "VT-001", "Kho Chính - XHTB").Return(bin, nil)

		lines := []LineInput{{ItemCode: "VT-001", Qty: decimal.NewFromInt(5)}}
		_, err := f.service.CreateMaterialIssue(ctx, lines, "", postingDate)
		require.Error(t, err)

		stockErr, ok := err.(*stock.InsufficientStockError)
		require.True(t, ok, "expected *stock.InsufficientStockError, got %T", err)
		require.Len(t, stockErr.Shortages, 1)
		assert.Equal(t, "Thép tấm", stockErr.Shortages[0].ItemName)
		assert.True(t, stockErr.Shortages[0].Shortage.Equal(decimal.NewFromInt(2)))
		assert.Equal(t, 0, f.tx.calls, "no transaction is opened for a rejected issue")
		f.entries.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.naming.AssertNotCalled(t, "NextName", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("issues available stock at the bin valuation", func(t *testing.T) {
		f := newEntryServiceFixture()
		f.warehouses.On("FindByName", mock.Anything, "Kho Chính - XHTB").Return(mainWarehouse(), nil)
		f.items.On("FindByCode", mock.Anything, "VT-001").Return(steelItem(), nil)
		f.naming.On("NextName", mock.Anything, "XK", postingDate).Return("XK-2025-00001", nil)

		bin := stock.NewBin("VT-001", "Kho Chính - XHTB")
		require.NoError(t, bin.Receive(decimal.NewFromInt(10), decimal.NewFromInt(150)))
		f.bins.On("Find", mock.Anything, "VT-001", "Kho Chính - XHTB").Return(bin, nil)
		f.bins.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.entries.On("Save", mock.Anything, mock.Anything).Return(nil)

		var logged *stock.LedgerEntry
		f.ledger.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			logged = args.Get(1).(*stock.LedgerEntry)
		}).Return(nil)

		lines := []LineInput{{ItemCode: "VT-001", Qty: decimal.NewFromInt(4)}}
		result, err := f.service.CreateMaterialIssue(ctx, lines, "", postingDate)
		require.NoError(t, err)
		assert.Equal(t, "Phiếu xuất kho XK-2025-00001 đã tạo thành công", result.Message)

		require.NotNil(t, logged)
		assert.True(t, logged.ActualQty.Equal(decimal.NewFromInt(-4)))
		assert.True(t, logged.ValuationRate.Equal(decimal.NewFromInt(150)))
	})
}
