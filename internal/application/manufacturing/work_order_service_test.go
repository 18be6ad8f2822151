package manufacturing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appstock "github.com/xuanhoa/backend/internal/application/stock"
	"github.com/xuanhoa/backend/internal/domain/catalog"
	"github.com/xuanhoa/backend/internal/domain/manufacturing"
	"github.com/xuanhoa/backend/internal/domain/partner"
	"github.com/xuanhoa/backend/internal/domain/shared"
	"github.com/xuanhoa/backend/internal/domain/stock"
	"github.com/xuanhoa/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// In-memory repositories. Bins are stored and returned by value so the
// posting service sees the same read-modify-write cycle as the real store.

type memWorkOrders struct {
	orders map[string]*manufacturing.WorkOrder
}

func (m *memWorkOrders) FindByName(ctx context.Context, name string) (*manufacturing.WorkOrder, error) {
	if wo, ok := m.orders[name]; ok {
		return wo, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memWorkOrders) FindAll(ctx context.Context, filter shared.Filter) ([]manufacturing.WorkOrder, int64, error) {
	var out []manufacturing.WorkOrder
	for _, wo := range m.orders {
		out = append(out, *wo)
	}
	return out, int64(len(out)), nil
}

func (m *memWorkOrders) CountByStatus(ctx context.Context, status manufacturing.WorkOrderStatus) (int64, error) {
	var n int64
	for _, wo := range m.orders {
		if wo.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *memWorkOrders) CountByBOM(ctx context.Context, bomNo string) (int64, error) {
	var n int64
	for _, wo := range m.orders {
		if wo.BOMNo == bomNo {
			n++
		}
	}
	return n, nil
}

func (m *memWorkOrders) Save(ctx context.Context, order *manufacturing.WorkOrder) error {
	m.orders[order.Name] = order
	return nil
}

func (m *memWorkOrders) Delete(ctx context.Context, name string) error {
	delete(m.orders, name)
	return nil
}

type memBOMs struct {
	boms map[string]*manufacturing.BOM
}

func (m *memBOMs) FindByName(ctx context.Context, name string) (*manufacturing.BOM, error) {
	if bom, ok := m.boms[name]; ok {
		return bom, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memBOMs) FindDefaultForItem(ctx context.Context, item string) (*manufacturing.BOM, error) {
	for _, bom := range m.boms {
		if bom.Item == item && bom.IsDefault {
			return bom, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memBOMs) FindAll(ctx context.Context, filter shared.Filter) ([]manufacturing.BOM, int64, error) {
	var out []manufacturing.BOM
	for _, bom := range m.boms {
		out = append(out, *bom)
	}
	return out, int64(len(out)), nil
}

func (m *memBOMs) Save(ctx context.Context, bom *manufacturing.BOM) error {
	m.boms[bom.Name] = bom
	return nil
}

func (m *memBOMs) Delete(ctx context.Context, name string) error {
	delete(m.boms, name)
	return nil
}

func (m *memBOMs) ClearDefaultForItem(ctx context.Context, item, exceptName string) error {
	for _, bom := range m.boms {
		if bom.Item == item && bom.Name != exceptName {
			bom.IsDefault = false
		}
	}
	return nil
}

type memEntries struct {
	entries map[string]*stock.StockEntry
}

func (m *memEntries) FindByName(ctx context.Context, name string) (*stock.StockEntry, error) {
	if entry, ok := m.entries[name]; ok {
		return entry, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memEntries) FindAll(ctx context.Context, filter shared.Filter) ([]stock.StockEntry, int64, error) {
	var out []stock.StockEntry
	for _, entry := range m.entries {
		out = append(out, *entry)
	}
	return out, int64(len(out)), nil
}

func (m *memEntries) CountByPurposeAndDate(ctx context.Context, purpose stock.Purpose, date time.Time) (int64, error) {
	var n int64
	for _, entry := range m.entries {
		if entry.Purpose == purpose {
			n++
		}
	}
	return n, nil
}

func (m *memEntries) CountByWorkOrder(ctx context.Context, workOrder string) (int64, error) {
	var n int64
	for _, entry := range m.entries {
		if entry.WorkOrder == workOrder {
			n++
		}
	}
	return n, nil
}

func (m *memEntries) ExistsBySourceReference(ctx context.Context, reference string) (bool, error) {
	for _, entry := range m.entries {
		if entry.SourceReference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (m *memEntries) Save(ctx context.Context, entry *stock.StockEntry) error {
	m.entries[entry.Name] = entry
	return nil
}

func (m *memEntries) Delete(ctx context.Context, name string) error {
	delete(m.entries, name)
	return nil
}

type memBins struct {
	bins map[string]stock.Bin
}

func (m *memBins) Find(ctx context.Context, itemCode, warehouse string) (*stock.Bin, error) {
	if bin, ok := m.bins[itemCode+"|"+warehouse]; ok {
		return &bin, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memBins) FindByItem(ctx context.Context, itemCode string) ([]stock.Bin, error) {
	var out []stock.Bin
	for _, bin := range m.bins {
		if bin.ItemCode == itemCode {
			out = append(out, bin)
		}
	}
	return out, nil
}

func (m *memBins) FindByWarehouse(ctx context.Context, warehouse string, filter shared.Filter) ([]stock.Bin, int64, error) {
	var out []stock.Bin
	for _, bin := range m.bins {
		if bin.Warehouse == warehouse {
			out = append(out, bin)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memBins) FindAll(ctx context.Context, filter shared.Filter) ([]stock.Bin, int64, error) {
	var out []stock.Bin
	for _, bin := range m.bins {
		out = append(out, bin)
	}
	return out, int64(len(out)), nil
}

func (m *memBins) TotalStockValue(ctx context.Context) (string, error) {
	total := decimal.Zero
	for _, bin := range m.bins {
		total = total.Add(bin.StockValue)
	}
	return total.String(), nil
}

func (m *memBins) Save(ctx context.Context, bin *stock.Bin) error {
	m.bins[bin.ItemCode+"|"+bin.Warehouse] = *bin
	return nil
}

type memLedger struct {
	entries []stock.LedgerEntry
}

func (m *memLedger) Save(ctx context.Context, entry *stock.LedgerEntry) error {
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memLedger) FindAll(ctx context.Context, filter shared.Filter) ([]stock.LedgerEntry, int64, error) {
	return m.entries, int64(len(m.entries)), nil
}

func (m *memLedger) MarkCancelled(ctx context.Context, voucherType, voucherNo string) error {
	for i := range m.entries {
		if m.entries[i].VoucherType == voucherType && m.entries[i].VoucherNo == voucherNo {
			m.entries[i].IsCancelled = true
		}
	}
	return nil
}

type memItems struct {
	items map[string]*catalog.Item
}

func (m *memItems) FindByCode(ctx context.Context, itemCode string) (*catalog.Item, error) {
	if item, ok := m.items[itemCode]; ok {
		return item, nil
	}
	return nil, shared.ErrItemNotFound
}

func (m *memItems) ExistsByCode(ctx context.Context, itemCode string) (bool, error) {
	_, ok := m.items[itemCode]
	return ok, nil
}

func (m *memItems) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Item, int64, error) {
	var out []catalog.Item
	for _, item := range m.items {
		out = append(out, *item)
	}
	return out, int64(len(out)), nil
}

func (m *memItems) Search(ctx context.Context, query, itemGroup string, limit int) ([]catalog.Item, error) {
	return nil, nil
}

func (m *memItems) Save(ctx context.Context, item *catalog.Item) error {
	m.items[item.ItemCode] = item
	return nil
}

func (m *memItems) CountByGroup(ctx context.Context, group string) (int64, error) {
	return 0, nil
}

type memWarehouses struct {
	warehouses map[string]*partner.Warehouse
}

func (m *memWarehouses) FindByName(ctx context.Context, name string) (*partner.Warehouse, error) {
	if wh, ok := m.warehouses[name]; ok {
		return wh, nil
	}
	return nil, shared.ErrWarehouseNotFound
}

func (m *memWarehouses) ExistsByName(ctx context.Context, name string) (bool, error) {
	_, ok := m.warehouses[name]
	return ok, nil
}

func (m *memWarehouses) FindAll(ctx context.Context, isGroup *bool) ([]partner.Warehouse, error) {
	var out []partner.Warehouse
	for _, wh := range m.warehouses {
		if isGroup == nil || wh.IsGroup == *isGroup {
			out = append(out, *wh)
		}
	}
	return out, nil
}

func (m *memWarehouses) FindFirstLeaf(ctx context.Context) (*partner.Warehouse, error) {
	for _, wh := range m.warehouses {
		if wh.CanHoldStock() {
			return wh, nil
		}
	}
	return nil, shared.ErrWarehouseNotFound
}

func (m *memWarehouses) Save(ctx context.Context, warehouse *partner.Warehouse) error {
	m.warehouses[warehouse.Name] = warehouse
	return nil
}

type memStockSettings struct{}

func (memStockSettings) Get(ctx context.Context) (*stock.StockSettings, error) {
	return nil, shared.ErrNotFound
}

func (memStockSettings) Save(ctx context.Context, settings *stock.StockSettings) error {
	return nil
}

type seqNaming struct {
	counters map[string]int
}

func (n *seqNaming) NextName(ctx context.Context, prefix string, date time.Time) (string, error) {
	n.counters[prefix]++
	return shared.FormatSeriesName(prefix, 2025, int64(n.counters[prefix])), nil
}

// memTx is a pass-through transaction manager that counts invocations
type memTx struct {
	calls int
}

func (m *memTx) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// Fixture

const (
	mainWH = "Kho Chính - XHTB"
	wipWH  = "Kho WIP - XHTB"
	fgWH   = "Kho Thành Phẩm - XHTB"
)

type woFixture struct {
	service    *WorkOrderService
	workOrders *memWorkOrders
	boms       *memBOMs
	entries    *memEntries
	bins       *memBins
	items      *memItems
	tx         *memTx
}

func newWOFixture(t *testing.T) *woFixture {
	t.Helper()
	f := &woFixture{
		workOrders: &memWorkOrders{orders: make(map[string]*manufacturing.WorkOrder)},
		boms:       &memBOMs{boms: make(map[string]*manufacturing.BOM)},
		entries:    &memEntries{entries: make(map[string]*stock.StockEntry)},
		bins:       &memBins{bins: make(map[string]stock.Bin)},
		items:      &memItems{items: make(map[string]*catalog.Item)},
		tx:         &memTx{},
	}
	warehouses := &memWarehouses{warehouses: map[string]*partner.Warehouse{
		mainWH: {Name: mainWH, WarehouseName: "Kho Chính", Company: "Xuân Hòa Thái Bình"},
		wipWH:  {Name: wipWH, WarehouseName: "Kho WIP", Company: "Xuân Hòa Thái Bình"},
		fgWH:   {Name: fgWH, WarehouseName: "Kho Thành Phẩm", Company: "Xuân Hòa Thái Bình"},
	}}
	defaults := config.DefaultsConfig{
		Company:             "Xuân Hòa Thái Bình",
		CompanyAbbr:         "XHTB",
		MainWarehousePrefix: "Kho Chính",
	}
	ledger := &memLedger{}
	posting := stock.NewPostingService(f.bins, ledger)
	resolver := appstock.NewWarehouseResolver(warehouses, memStockSettings{}, defaults)
	naming := &seqNaming{counters: make(map[string]int)}
	f.service = NewWorkOrderService(f.workOrders, f.boms, f.entries, f.bins,
		f.items, naming, posting, resolver, f.tx, defaults, zap.NewNop())

	f.items.items["TP-001"] = &catalog.Item{ItemCode: "TP-001", ItemName: "Tủ sắt", ItemGroup: "Thành phẩm", StockUOM: "Nos"}
	return f
}

// seedBOM stores a submitted default BOM for TP-001: 2 Kg VT-001 at 100
// and 4 Nos VT-002 at 50 per finished unit.
func (f *woFixture) seedBOM(t *testing.T) *manufacturing.BOM {
	t.Helper()
	bom, err := manufacturing.NewBOM("TP-001", "Xuân Hòa Thái Bình", decimal.NewFromInt(1), "Nos")
	require.NoError(t, err)
	bom.ItemName = "Tủ sắt"
	bom.IsDefault = true
	require.NoError(t, bom.AddItem("VT-001", decimal.NewFromInt(2), decimal.NewFromInt(100), "Kg"))
	require.NoError(t, bom.AddItem("VT-002", decimal.NewFromInt(4), decimal.NewFromInt(50), "Nos"))
	require.NoError(t, bom.Validate())
	bom.Name = "BOM-2025-00001"
	require.NoError(t, bom.MarkSubmitted())
	f.boms.boms[bom.Name] = bom
	return bom
}

// seedWorkOrder stores a work order for qty finished units. Submitted
// unless draft is true.
func (f *woFixture) seedWorkOrder(t *testing.T, qty int64, draft bool) *manufacturing.WorkOrder {
	t.Helper()
	wo, err := manufacturing.NewWorkOrder(f.seedBOM(t), decimal.NewFromInt(qty),
		"Xuân Hòa Thái Bình", mainWH, wipWH, fgWH)
	require.NoError(t, err)
	wo.Name = "MFG-2025-00001"
	if !draft {
		require.NoError(t, wo.Submit())
	}
	f.workOrders.orders[wo.Name] = wo
	return wo
}

func (f *woFixture) seedStock(t *testing.T, itemCode, warehouse string, qty, rate int64) {
	t.Helper()
	bin := stock.NewBin(itemCode, warehouse)
	require.NoError(t, bin.Receive(decimal.NewFromInt(qty), decimal.NewFromInt(rate)))
	f.bins.bins[itemCode+"|"+warehouse] = *bin
}

// Tests

func TestWorkOrderServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the default BOM from the item", func(t *testing.T) {
		f := newWOFixture(t)
		f.seedBOM(t)
		wo, err := f.service.Create(ctx, CreateWorkOrderRequest{Item: "TP-001", Qty: decimal.NewFromInt(5)})
		require.NoError(t, err)
		assert.Equal(t, "MFG-2025-00001", wo.Name)
		assert.Equal(t, "BOM-2025-00001", wo.BOMNo)
		require.Len(t, wo.RequiredItems, 2)
		assert.True(t, wo.RequiredItems[0].RequiredQty.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, mainWH, wo.SourceWarehouse, "warehouses default when the request omits them")
	})

	t.Run("requires a BOM or an item", func(t *testing.T) {
		f := newWOFixture(t)
		_, err := f.service.Create(ctx, CreateWorkOrderRequest{Qty: decimal.NewFromInt(1)})
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})
}

func TestWorkOrderServiceStart(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses drafts with a status message", func(t *testing.T) {
		f := newWOFixture(t)
		wo := f.seedWorkOrder(t, 5, true)
		_, err := f.service.Start(ctx, wo.Name)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Không thể bắt đầu Work Order với trạng thái Draft")
	})

	t.Run("transfers pending materials into WIP", func(t *testing.T) {
		f := newWOFixture(t)
		wo := f.seedWorkOrder(t, 5, false)
		f.seedStock(t, "VT-001", mainWH, 10, 100)
		f.seedStock(t, "VT-002", mainWH, 20, 50)

		result, err := f.service.Start(ctx, wo.Name)
		require.NoError(t, err)
		assert.Equal(t, "CP-2025-00001", result.StockEntry)
		assert.Equal(t, "Đã cấp phát vật tư cho Work Order MFG-2025-00001", result.Message)
		assert.Equal(t, manufacturing.StatusInProcess, wo.Status)
		assert.Equal(t, 1, f.tx.calls, "the transfer entry and the status move commit together")

		wip, err := f.bins.Find(ctx, "VT-001", wipWH)
		require.NoError(t, err)
		assert.True(t, wip.ActualQty.Equal(decimal.NewFromInt(10)))
		source, err := f.bins.Find(ctx, "VT-001", mainWH)
		require.NoError(t, err)
		assert.True(t, source.ActualQty.IsZero())

		entry, err := f.entries.FindByName(ctx, "CP-2025-00001")
		require.NoError(t, err)
		assert.Equal(t, wo.Name, entry.WorkOrder)
		assert.True(t, entry.IsSubmitted())
	})

	t.Run("reports shortfalls without writing anything", func(t *testing.T) {
		f := newWOFixture(t)
		wo := f.seedWorkOrder(t, 5, false)
		f.seedStock(t, "VT-001", mainWH, 4, 100)
		f.seedStock(t, "VT-002", mainWH, 20, 50)

		_, err := f.service.Start(ctx, wo.Name)
		require.Error(t, err)
		stockErr, ok := err.(*stock.InsufficientStockError)
		require.True(t, ok, "expected *stock.InsufficientStockError, got %T", err)
		require.Len(t, stockErr.Shortages, 1)
		assert.True(t, stockErr.Shortages[0].Shortage.Equal(decimal.NewFromInt(6)))
		assert.Equal(t, manufacturing.StatusNotStarted, wo.Status)
		assert.Equal(t, 0, f.tx.calls, "no transaction is opened for a rejected transfer")
		assert.Empty(t, f.entries.entries)
	})

	t.Run("refuses a second transfer once materials are issued", func(t *testing.T) {
		f := newWOFixture(t)
		wo := f.seedWorkOrder(t, 5, false)
		f.seedStock(t, "VT-001", mainWH, 10, 100)
		f.seedStock(t, "VT-002", mainWH, 20, 50)

		_, err := f.service.Start(ctx, wo.Name)
		require.NoError(t, err)
		_, err = f.service.Start(ctx, wo.Name)
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "TRANSFER_COMPLETE", domainErr.Code)
		assert.Equal(t, "Vật tư đã được cấp phát đủ", domainErr.Message)
	})
}

func TestWorkOrderServiceComplete(t *testing.T) {
	ctx := context.Background()

	startedOrder := func(t *testing.T) (*woFixture, *manufacturing.WorkOrder) {
		t.Helper()
		f := newWOFixture(t)
		wo := f.seedWorkOrder(t, 5, false)
		f.seedStock(t, "VT-001", mainWH, 10, 100)
		f.seedStock(t, "VT-002", mainWH, 20, 50)
		_, err := f.service.Start(ctx, wo.Name)
		require.NoError(t, err)
		return f, wo
	}

	t.Run("rejects quantities over the remaining amount", func(t *testing.T) {
		f, wo := startedOrder(t)
		_, err := f.service.Complete(ctx, wo.Name, decimal.NewFromInt(12))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Số lượng vượt quá (12 > 5)")
	})

	t.Run("partial completion consumes WIP and receives finished goods", func(t *testing.T) {
		f, wo := startedOrder(t)
		result, err := f.service.Complete(ctx, wo.Name, decimal.NewFromInt(2))
		require.NoError(t, err)
		assert.Equal(t, "SX-2025-00001", result.StockEntry)
		assert.Equal(t, "Đã hoàn thành sản xuất 2 sản phẩm", result.Message)
		assert.Equal(t, manufacturing.StatusInProcess, wo.Status)
		assert.True(t, wo.ProducedQty.Equal(decimal.NewFromInt(2)))

		// 2 units consume 4 Kg at 100 and 8 Nos at 50, so each unit
		// carries 400 of material cost
		fg, err := f.bins.Find(ctx, "TP-001", fgWH)
		require.NoError(t, err)
		assert.True(t, fg.ActualQty.Equal(decimal.NewFromInt(2)))
		assert.True(t, fg.ValuationRate.Equal(decimal.NewFromInt(400)))

		wip, err := f.bins.Find(ctx, "VT-001", wipWH)
		require.NoError(t, err)
		assert.True(t, wip.ActualQty.Equal(decimal.NewFromInt(6)))
	})

	t.Run("zero quantity completes the remainder", func(t *testing.T) {
		f, wo := startedOrder(t)
		_, err := f.service.Complete(ctx, wo.Name, decimal.NewFromInt(2))
		require.NoError(t, err)
		result, err := f.service.Complete(ctx, wo.Name, decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, "Đã hoàn thành sản xuất 3 sản phẩm", result.Message)
		assert.Equal(t, manufacturing.StatusCompleted, wo.Status)
	})

	t.Run("completed orders refuse further production", func(t *testing.T) {
		f, wo := startedOrder(t)
		_, err := f.service.Complete(ctx, wo.Name, decimal.Zero)
		require.NoError(t, err)
		_, err = f.service.Complete(ctx, wo.Name, decimal.NewFromInt(1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Không thể hoàn thành Work Order với trạng thái Completed")
	})
}

func TestWorkOrderServiceCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("drafts are deleted outright", func(t *testing.T) {
		f := newWOFixture(t)
		wo := f.seedWorkOrder(t, 5, true)
		require.NoError(t, f.service.Cancel(ctx, wo.Name))
		_, err := f.workOrders.FindByName(ctx, wo.Name)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("linked stock entries block cancellation", func(t *testing.T) {
		f := newWOFixture(t)
		wo := f.seedWorkOrder(t, 5, false)
		f.seedStock(t, "VT-001", mainWH, 10, 100)
		f.seedStock(t, "VT-002", mainWH, 20, 50)
		_, err := f.service.Start(ctx, wo.Name)
		require.NoError(t, err)

		err = f.service.Cancel(ctx, wo.Name)
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "HAS_STOCK_ENTRIES", domainErr.Code)
	})

	t.Run("submitted orders without entries cancel", func(t *testing.T) {
		f := newWOFixture(t)
		wo := f.seedWorkOrder(t, 5, false)
		require.NoError(t, f.service.Cancel(ctx, wo.Name))
		assert.Equal(t, manufacturing.StatusCancelled, wo.Status)
	})
}
