package stock

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuanhoa/backend/internal/domain/shared"
)

// LedgerEntry is one immutable stock movement line posted when a document
// is submitted. Cancellation posts reversing lines rather than deleting.
type LedgerEntry struct {
	shared.BaseEntity
	ItemCode      string          `gorm:"size:140;not null;index:idx_sle_item_warehouse,priority:1"`
	Warehouse     string          `gorm:"size:200;not null;index:idx_sle_item_warehouse,priority:2"`
	PostingDate   time.Time       `gorm:"not null;index"`
	VoucherType   string          `gorm:"size:60;not null"`
	VoucherNo     string          `gorm:"size:140;not null;index"`
	ActualQty     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QtyAfter      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ValuationRate decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsCancelled   bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (LedgerEntry) TableName() string {
	return "stock_ledger_entries"
}
