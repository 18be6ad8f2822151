package seed

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuanhoa/backend/internal/domain/catalog"
	"github.com/xuanhoa/backend/internal/domain/manufacturing"
	"github.com/xuanhoa/backend/internal/domain/partner"
	"github.com/xuanhoa/backend/internal/domain/shared"
	"github.com/xuanhoa/backend/internal/domain/stock"
	"github.com/xuanhoa/backend/internal/infrastructure/config"
	"github.com/xuanhoa/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// uomMap translates the Vietnamese unit names used in the source files to
// the canonical unit names stored on items.
var uomMap = map[string]string{
	"Cái":  "Nos",
	"Bộ":   "Set",
	"Hộp":  "Box",
	"Cuộn": "Roll",
	"Kg":   "Kg",
	"Mét":  "Meter",
}

// MapUOM converts a Vietnamese unit name to its canonical form. Unknown
// units default to Nos.
func MapUOM(vietnamese string) string {
	if uom, ok := uomMap[vietnamese]; ok {
		return uom
	}
	return "Nos"
}

// Repositories bundles everything the seeder writes to.
type Repositories struct {
	Items        catalog.ItemRepository
	ItemGroups   catalog.ItemGroupRepository
	UOMs         catalog.UOMRepository
	Warehouses   partner.WarehouseRepository
	Suppliers    partner.SupplierRepository
	Customers    partner.CustomerRepository
	BOMs         manufacturing.BOMRepository
	WorkOrders   manufacturing.WorkOrderRepository
	StockEntries stock.StockEntryRepository
	Naming       shared.NamingSeriesRepository
	Stages       persistence.SeedStageRepository
}

// Seeder imports the sample CSV data set in dependency order. Each stage is
// idempotent: completed stages are recorded and skipped on re-run, and
// individual records are checked by natural key before insert.
type Seeder struct {
	repos    Repositories
	posting  *stock.PostingService
	tx       shared.TransactionManager
	defaults config.DefaultsConfig
	dataDir  string
	logger   *zap.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(repos Repositories, posting *stock.PostingService, tx shared.TransactionManager, defaults config.DefaultsConfig, dataDir string, logger *zap.Logger) *Seeder {
	return &Seeder{
		repos:    repos,
		posting:  posting,
		tx:       tx,
		defaults: defaults,
		dataDir:  dataDir,
		logger:   logger.Named("seed"),
	}
}

type stage struct {
	name string
	run  func(ctx context.Context) (int, error)
}

// Run executes all import stages in dependency order
func (s *Seeder) Run(ctx context.Context) error {
	stages := []stage{
		{"uoms", s.importUOMs},
		{"item_groups", s.importItemGroups},
		{"warehouses", s.importWarehouses},
		{"suppliers", s.importSuppliers},
		{"customers", s.importCustomers},
		{"items", s.importItems},
		{"boms", s.importBOMs},
		{"work_orders", s.importWorkOrders},
		{"opening_stock", s.importOpeningStock},
	}

	for _, st := range stages {
		done, err := s.repos.Stages.IsDone(ctx, st.name)
		if err != nil {
			return fmt.Errorf("checking stage %s: %w", st.name, err)
		}
		if done {
			s.logger.Info("Stage already completed, skipping", zap.String("stage", st.name))
			continue
		}

		// A stage and its ledger record commit together, so an aborted
		// run never leaves a stage half applied.
		var count int
		err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
			var err error
			if count, err = st.run(ctx); err != nil {
				return err
			}
			return s.repos.Stages.MarkDone(ctx, st.name, count)
		})
		if err != nil {
			return fmt.Errorf("stage %s: %w", st.name, err)
		}
		s.logger.Info("Stage completed", zap.String("stage", st.name), zap.Int("records", count))
	}
	return nil
}

func (s *Seeder) readCSV(name string) ([]*Row, error) {
	rows, err := ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if rows == nil {
		s.logger.Warn("Seed file not found, skipping", zap.String("file", name))
	}
	return rows, nil
}

// importUOMs ensures the canonical units referenced by the data set exist
func (s *Seeder) importUOMs(ctx context.Context) (int, error) {
	count := 0
	for _, name := range []string{"Nos", "Set", "Box", "Roll", "Kg", "Meter"} {
		exists, err := s.repos.UOMs.ExistsByName(ctx, name)
		if err != nil {
			return count, err
		}
		if exists {
			continue
		}
		uom := &catalog.UOM{BaseEntity: shared.NewBaseEntity(), Name: name}
		if name == "Nos" || name == "Set" || name == "Box" {
			uom.MustBeWholeNumber = true
		}
		if err := s.repos.UOMs.Save(ctx, uom); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// importItemGroups imports the group tree, parents before children
func (s *Seeder) importItemGroups(ctx context.Context) (int, error) {
	rows, err := s.readCSV("item_group.csv")
	if err != nil || rows == nil {
		return 0, err
	}

	count := 0
	// Two passes keep parents ahead of their children
	for _, parentsOnly := range []bool{true, false} {
		for _, row := range rows {
			name := row.Get("Item Group Name")
			parent := row.Get("Parent Item Group")
			if (parent == "") != parentsOnly {
				continue
			}
			exists, err := s.repos.ItemGroups.ExistsByName(ctx, name)
			if err != nil {
				return count, err
			}
			if exists {
				continue
			}
			group, err := catalog.NewItemGroup(name, parent, parseBool(row.Get("Is Group")))
			if err != nil {
				s.logger.Warn("Skipping invalid item group", zap.Int("line", row.LineNumber), zap.Error(err))
				continue
			}
			if err := s.repos.ItemGroups.Save(ctx, group); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

// importWarehouses imports the warehouse tree
func (s *Seeder) importWarehouses(ctx context.Context) (int, error) {
	rows, err := s.readCSV("warehouse.csv")
	if err != nil || rows == nil {
		return 0, err
	}

	count := 0
	for _, row := range rows {
		name := row.Get("Warehouse Name")
		exists, err := s.repos.Warehouses.ExistsByName(ctx, name)
		if err != nil {
			return count, err
		}
		if exists {
			continue
		}
		warehouse, err := partner.NewWarehouse(name, s.defaults.Company, s.defaults.CompanyAbbr,
			row.Get("Parent Warehouse"), parseBool(row.Get("Is Group")))
		if err != nil {
			s.logger.Warn("Skipping invalid warehouse", zap.Int("line", row.LineNumber), zap.Error(err))
			continue
		}
		if err := s.repos.Warehouses.Save(ctx, warehouse); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// importSuppliers imports suppliers
func (s *Seeder) importSuppliers(ctx context.Context) (int, error) {
	rows, err := s.readCSV("supplier.csv")
	if err != nil || rows == nil {
		return 0, err
	}

	count := 0
	for _, row := range rows {
		name := row.Get("Supplier Name")
		exists, err := s.repos.Suppliers.ExistsByName(ctx, name)
		if err != nil {
			return count, err
		}
		if exists {
			continue
		}
		supplier, err := partner.NewSupplier(name, row.Get("Supplier Group"),
			row.GetOrDefault("Supplier Type", "Company"), row.GetOrDefault("Country", "Vietnam"))
		if err != nil {
			s.logger.Warn("Skipping invalid supplier", zap.Int("line", row.LineNumber), zap.Error(err))
			continue
		}
		if err := s.repos.Suppliers.Save(ctx, supplier); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// importCustomers imports customers
func (s *Seeder) importCustomers(ctx context.Context) (int, error) {
	rows, err := s.readCSV("customer.csv")
	if err != nil || rows == nil {
		return 0, err
	}

	count := 0
	for _, row := range rows {
		name := row.Get("Customer Name")
		exists, err := s.repos.Customers.ExistsByName(ctx, name)
		if err != nil {
			return count, err
		}
		if exists {
			continue
		}
		customer, err := partner.NewCustomer(name, row.Get("Customer Group"),
			row.GetOrDefault("Customer Type", "Company"), row.Get("Territory"))
		if err != nil {
			s.logger.Warn("Skipping invalid customer", zap.Int("line", row.LineNumber), zap.Error(err))
			continue
		}
		if err := s.repos.Customers.Save(ctx, customer); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// importItems imports the item catalog
func (s *Seeder) importItems(ctx context.Context) (int, error) {
	rows, err := s.readCSV("item.csv")
	if err != nil || rows == nil {
		return 0, err
	}

	count := 0
	for _, row := range rows {
		itemCode := row.Get("Item Code")
		exists, err := s.repos.Items.ExistsByCode(ctx, itemCode)
		if err != nil {
			return count, err
		}
		if exists {
			continue
		}
		item, err := catalog.NewItem(itemCode, row.Get("Item Name"),
			row.GetOrDefault("Item Group", "All Item Groups"),
			MapUOM(row.GetOrDefault("Default Unit of Measure", "Cái")))
		if err != nil {
			s.logger.Warn("Skipping invalid item", zap.Int("line", row.LineNumber), zap.Error(err))
			continue
		}
		item.Description = row.Get("Description")
		item.IsStockItem = parseBoolDefault(row.Get("Is Stock Item"), true)
		item.ValuationMethod = row.GetOrDefault("Valuation Method", "FIFO")
		item.StandardRate = parseDecimal(row.Get("Standard Selling Rate"))
		if err := s.repos.Items.Save(ctx, item); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// importBOMs imports bills of materials and submits them so work orders
// can reference them
func (s *Seeder) importBOMs(ctx context.Context) (int, error) {
	rows, err := s.readCSV("bom.csv")
	if err != nil || rows == nil {
		return 0, err
	}
	itemRows, err := s.readCSV("bom_item.csv")
	if err != nil {
		return 0, err
	}

	componentsByBOM := make(map[string][]*Row)
	for _, row := range itemRows {
		id := row.Get("BOM ID")
		componentsByBOM[id] = append(componentsByBOM[id], row)
	}

	count := 0
	for _, row := range rows {
		item := row.Get("Item")
		if _, err := s.repos.BOMs.FindDefaultForItem(ctx, item); err == nil {
			continue
		}

		bom, err := manufacturing.NewBOM(item, s.defaults.Company,
			parseDecimal(row.GetOrDefault("Quantity", "1")),
			MapUOM(row.GetOrDefault("UOM", "Cái")))
		if err != nil {
			s.logger.Warn("Skipping invalid BOM", zap.Int("line", row.LineNumber), zap.Error(err))
			continue
		}
		for _, comp := range componentsByBOM[row.Get("BOM ID")] {
			if err := bom.AddItem(comp.Get("Item Code"),
				parseDecimal(comp.Get("Quantity")),
				parseDecimal(comp.Get("Rate Per Unit")),
				MapUOM(comp.GetOrDefault("Unit of Measure", "Cái"))); err != nil {
				s.logger.Warn("Skipping invalid BOM component", zap.Int("line", comp.LineNumber), zap.Error(err))
			}
		}
		if err := bom.Validate(); err != nil {
			s.logger.Warn("Skipping BOM without components", zap.String("item", item))
			continue
		}

		name, err := s.repos.Naming.NextName(ctx, manufacturing.BOMNamingPrefix, time.Now())
		if err != nil {
			return count, err
		}
		bom.Name = name
		bom.IsDefault = true
		if err := bom.MarkSubmitted(); err != nil {
			return count, err
		}
		if err := s.repos.BOMs.Save(ctx, bom); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// importWorkOrders imports draft work orders against the default BOMs
func (s *Seeder) importWorkOrders(ctx context.Context) (int, error) {
	rows, err := s.readCSV("work_order.csv")
	if err != nil || rows == nil {
		return 0, err
	}

	count := 0
	for _, row := range rows {
		item := row.Get("Item")
		bom, err := s.repos.BOMs.FindDefaultForItem(ctx, item)
		if err != nil {
			s.logger.Warn("No default BOM for work order item", zap.String("item", item))
			continue
		}

		order, err := manufacturing.NewWorkOrder(bom,
			parseDecimal(row.Get("Qty to Manufacture")),
			s.defaults.Company,
			row.Get("Source Warehouse"),
			row.Get("WIP Warehouse"),
			row.Get("FG Warehouse"))
		if err != nil {
			s.logger.Warn("Skipping invalid work order", zap.Int("line", row.LineNumber), zap.Error(err))
			continue
		}
		if planned := row.Get("Planned Start Date"); planned != "" {
			if t, err := time.Parse("2006-01-02", planned); err == nil {
				order.PlannedStartDate = &t
			}
		}

		name, err := s.repos.Naming.NextName(ctx, manufacturing.WorkOrderNamingPrefix, time.Now())
		if err != nil {
			return count, err
		}
		order.Name = name
		if err := s.repos.WorkOrders.Save(ctx, order); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// importOpeningStock posts the purchase receipt file as submitted material
// receipt entries so bins carry opening quantities and valuations
func (s *Seeder) importOpeningStock(ctx context.Context) (int, error) {
	rows, err := s.readCSV("purchase_receipt.csv")
	if err != nil || rows == nil {
		return 0, err
	}
	itemRows, err := s.readCSV("purchase_receipt_item.csv")
	if err != nil {
		return 0, err
	}

	itemsByReceipt := make(map[string][]*Row)
	for _, row := range itemRows {
		id := row.Get("Receipt No")
		itemsByReceipt[id] = append(itemsByReceipt[id], row)
	}

	count := 0
	for _, row := range rows {
		receiptNo := row.Get("Receipt No")
		items := itemsByReceipt[receiptNo]
		if len(items) == 0 {
			continue
		}
		imported, err := s.repos.StockEntries.ExistsBySourceReference(ctx, receiptNo)
		if err != nil {
			return count, err
		}
		if imported {
			continue
		}

		postingDate, err := time.Parse("2006-01-02", row.Get("Date"))
		if err != nil {
			postingDate = time.Now()
		}
		entry, err := stock.NewStockEntry(stock.PurposeMaterialReceipt, s.defaults.Company, postingDate)
		if err != nil {
			return count, err
		}
		entry.SourceReference = receiptNo
		entry.Remarks = fmt.Sprintf("Nhập kho từ NCC %s (phiếu %s)", row.Get("Supplier"), receiptNo)

		defaultWH := row.GetOrDefault("Warehouse", s.defaults.MainWarehouse())
		for _, it := range items {
			warehouse := it.GetOrDefault("Warehouse", defaultWH)
			if _, err := entry.AddItem(it.Get("Item Code"),
				parseDecimal(it.Get("Received Quantity")),
				parseDecimal(it.Get("Rate")),
				"", warehouse); err != nil {
				s.logger.Warn("Skipping invalid receipt row", zap.Int("line", it.LineNumber), zap.Error(err))
			}
		}
		if err := entry.Validate(); err != nil {
			s.logger.Warn("Skipping empty receipt", zap.String("receipt", receiptNo))
			continue
		}

		name, err := s.repos.Naming.NextName(ctx, entry.Purpose.NamingPrefix(), postingDate)
		if err != nil {
			return count, err
		}
		entry.Name = name
		if err := entry.MarkSubmitted(); err != nil {
			return count, err
		}
		if err := s.repos.StockEntries.Save(ctx, entry); err != nil {
			return count, err
		}
		if err := s.posting.Post(ctx, entry); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func parseBool(s string) bool {
	return s == "1" || s == "true" || s == "True" || s == "yes"
}

func parseBoolDefault(s string, def bool) bool {
	if s == "" {
		return def
	}
	return parseBool(s)
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			return decimal.NewFromFloat(f)
		}
		return decimal.Zero
	}
	return d
}
