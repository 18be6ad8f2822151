package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuanhoa/backend/internal/domain/shared"
)

// Purpose classifies a stock entry by business meaning. The purpose decides
// which warehouses a row must reference and which naming prefix the entry
// receives.
type Purpose string

const (
	PurposeMaterialReceipt        Purpose = "Material Receipt"
	PurposeMaterialIssue          Purpose = "Material Issue"
	PurposeMaterialTransfer       Purpose = "Material Transfer"
	PurposeTransferForManufacture Purpose = "Material Transfer for Manufacture"
	PurposeManufacture            Purpose = "Manufacture"
	PurposeRepack                 Purpose = "Repack"
	PurposeDisassemble            Purpose = "Disassemble"
	PurposeSendToSubcontractor    Purpose = "Send to Subcontractor"
	PurposeMaterialConsumption    Purpose = "Material Consumption for Manufacture"
)

// namingPrefixes maps each purpose to its document name prefix.
// Unrecognized purposes fall back to the generic KHO prefix.
var namingPrefixes = map[Purpose]string{
	PurposeMaterialReceipt:        "NK",
	PurposeMaterialIssue:          "XK",
	PurposeMaterialTransfer:       "CK",
	PurposeTransferForManufacture: "CP",
	PurposeManufacture:            "SX",
	PurposeRepack:                 "DG",
	PurposeDisassemble:            "TG",
	PurposeSendToSubcontractor:    "GC",
	PurposeMaterialConsumption:    "TH",
}

// DefaultNamingPrefix is used for purposes without a dedicated series
const DefaultNamingPrefix = "KHO"

// NamingPrefix returns the document name prefix for a purpose
func (p Purpose) NamingPrefix() string {
	if prefix, ok := namingPrefixes[p]; ok {
		return prefix
	}
	return DefaultNamingPrefix
}

// Label returns the Vietnamese document label for a purpose
func (p Purpose) Label() string {
	switch p {
	case PurposeMaterialReceipt:
		return "Phiếu nhập kho"
	case PurposeMaterialIssue:
		return "Phiếu xuất kho"
	case PurposeMaterialTransfer:
		return "Phiếu chuyển kho"
	case PurposeTransferForManufacture:
		return "Phiếu cấp phát NVL"
	case PurposeManufacture:
		return "Phiếu sản xuất"
	case PurposeRepack:
		return "Phiếu đóng gói"
	case PurposeDisassemble:
		return "Phiếu tháo gỡ"
	case PurposeSendToSubcontractor:
		return "Phiếu gửi gia công"
	case PurposeMaterialConsumption:
		return "Phiếu tiêu hao NVL"
	default:
		return string(p)
	}
}

// needsSource reports whether rows must carry a source warehouse
func (p Purpose) needsSource() bool {
	switch p {
	case PurposeMaterialIssue, PurposeMaterialTransfer, PurposeTransferForManufacture,
		PurposeSendToSubcontractor, PurposeMaterialConsumption:
		return true
	}
	return false
}

// needsTarget reports whether rows must carry a target warehouse
func (p Purpose) needsTarget() bool {
	switch p {
	case PurposeMaterialReceipt, PurposeMaterialTransfer, PurposeTransferForManufacture:
		return true
	}
	return false
}

// StockEntry is a transactional record of inventory flowing between
// warehouses. It is the aggregate root for stock movements.
type StockEntry struct {
	shared.Document
	Purpose Purpose `gorm:"size:60;not null;index"`
	// SourceReference holds the external document number an entry was
	// imported from, so imports can skip rows already posted.
	SourceReference string           `gorm:"size:140;index"`
	WorkOrder       string           `gorm:"size:140;index"`
	Items           []StockEntryItem `gorm:"foreignKey:StockEntryID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (StockEntry) TableName() string {
	return "stock_entries"
}

// StockEntryItem is a child row of a stock entry.
type StockEntryItem struct {
	shared.BaseEntity
	StockEntryID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode        string          `gorm:"size:140;not null;index"`
	ItemName        string          `gorm:"size:200"`
	UOM             string          `gorm:"size:50"`
	Qty             decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BasicRate       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SourceWarehouse string          `gorm:"size:200;index"`
	TargetWarehouse string          `gorm:"size:200;index"`
	IsFinishedItem  bool            `gorm:"not null;default:false"`
	CostCenter      string          `gorm:"size:140"`
}

// TableName returns the table name for GORM
func (StockEntryItem) TableName() string {
	return "stock_entry_items"
}

// NewStockEntry creates a draft stock entry for the given purpose
func NewStockEntry(purpose Purpose, company string, postingDate time.Time) (*StockEntry, error) {
	if company == "" {
		return nil, shared.ErrMissingCompany
	}
	if postingDate.IsZero() {
		postingDate = time.Now()
	}
	return &StockEntry{
		Document: shared.NewDocument(company, postingDate),
		Purpose:  purpose,
	}, nil
}

// AddItem appends a row to the entry. Warehouse requirements depend on the
// entry purpose; rates may be zero and are defaulted by the posting engine.
func (e *StockEntry) AddItem(itemCode string, qty, basicRate decimal.Decimal, sourceWarehouse, targetWarehouse string) (*StockEntryItem, error) {
	if itemCode == "" {
		return nil, shared.ErrItemNotFound
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QTY", "Quantity must be positive")
	}
	if basicRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Rate cannot be negative")
	}
	if e.Purpose.needsSource() && sourceWarehouse == "" {
		return nil, shared.ErrWarehouseNotFound
	}
	if e.Purpose.needsTarget() && targetWarehouse == "" {
		return nil, shared.ErrWarehouseNotFound
	}
	row := StockEntryItem{
		BaseEntity:      shared.NewBaseEntity(),
		StockEntryID:    e.ID,
		ItemCode:        itemCode,
		Qty:             qty,
		BasicRate:       basicRate,
		SourceWarehouse: sourceWarehouse,
		TargetWarehouse: targetWarehouse,
	}
	e.Items = append(e.Items, row)
	return &e.Items[len(e.Items)-1], nil
}

// Validate checks the entry is submittable: at least one row and, for
// manufacture entries, exactly one finished item row.
func (e *StockEntry) Validate() error {
	if len(e.Items) == 0 {
		return shared.NewDomainError("EMPTY_ITEMS", "Stock entry has no item rows")
	}
	if e.Purpose == PurposeManufacture {
		finished := 0
		for _, row := range e.Items {
			if row.IsFinishedItem {
				finished++
			}
		}
		if finished != 1 {
			return shared.NewDomainError("INVALID_INPUT", "Manufacture entry requires exactly one finished item row")
		}
	}
	return nil
}

// TotalOutgoing sums the quantity leaving each source warehouse per item
func (e *StockEntry) TotalOutgoing() map[[2]string]decimal.Decimal {
	out := make(map[[2]string]decimal.Decimal)
	for _, row := range e.Items {
		if row.SourceWarehouse == "" {
			continue
		}
		key := [2]string{row.ItemCode, row.SourceWarehouse}
		out[key] = out[key].Add(row.Qty)
	}
	return out
}
