package stock

import (
	"github.com/shopspring/decimal"
	"github.com/xuanhoa/backend/internal/domain/shared"
)

// Bin tracks the stock level of one item in one warehouse. Valuation uses a
// moving weighted average; StockValue is ActualQty * ValuationRate kept in
// sync on every posting.
type Bin struct {
	shared.BaseEntity
	ItemCode      string          `gorm:"size:140;not null;uniqueIndex:idx_bin_item_warehouse,priority:1"`
	Warehouse     string          `gorm:"size:200;not null;uniqueIndex:idx_bin_item_warehouse,priority:2"`
	ActualQty     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReservedQty   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OrderedQty    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ValuationRate decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	StockValue    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Bin) TableName() string {
	return "bins"
}

// NewBin creates an empty bin for an item-warehouse pair
func NewBin(itemCode, warehouse string) *Bin {
	return &Bin{
		BaseEntity: shared.NewBaseEntity(),
		ItemCode:   itemCode,
		Warehouse:  warehouse,
	}
}

// Receive adds quantity at the given rate and recomputes the moving
// weighted average valuation rate.
func (b *Bin) Receive(qty, rate decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QTY", "Receipt quantity must be positive")
	}
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Receipt rate cannot be negative")
	}
	newQty := b.ActualQty.Add(qty)
	if b.ActualQty.LessThanOrEqual(decimal.Zero) {
		b.ValuationRate = rate
	} else {
		totalValue := b.StockValue.Add(qty.Mul(rate))
		b.ValuationRate = totalValue.Div(newQty).Round(4)
	}
	b.ActualQty = newQty
	b.StockValue = b.ActualQty.Mul(b.ValuationRate).Round(4)
	b.Touch()
	return nil
}

// Issue removes quantity at the current valuation rate. The caller is
// responsible for the aggregate insufficient-stock pre-check; a negative
// result here is still refused to conserve stock value.
func (b *Bin) Issue(qty decimal.Decimal) (decimal.Decimal, error) {
	if qty.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("INVALID_QTY", "Issue quantity must be positive")
	}
	if b.ActualQty.LessThan(qty) {
		return decimal.Zero, shared.ErrInsufficientStock
	}
	rate := b.ValuationRate
	b.ActualQty = b.ActualQty.Sub(qty)
	b.StockValue = b.ActualQty.Mul(b.ValuationRate).Round(4)
	b.Touch()
	return rate, nil
}

// StockSettings is the singleton row holding global stock defaults.
type StockSettings struct {
	shared.BaseEntity
	DefaultWarehouse string `gorm:"size:200"`
	AllowNegative    bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (StockSettings) TableName() string {
	return "stock_settings"
}
