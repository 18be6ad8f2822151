package stock

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Shortage describes one item row that cannot be covered by available stock.
type Shortage struct {
	ItemCode     string          `json:"item_code"`
	ItemName     string          `json:"item_name"`
	Warehouse    string          `json:"warehouse"`
	RequiredQty  decimal.Decimal `json:"required_qty"`
	AvailableQty decimal.Decimal `json:"available_qty"`
	Shortage     decimal.Decimal `json:"shortage"`
}

// InsufficientStockError carries the structured shortfall rows so the RPC
// boundary can return them alongside the localized message.
type InsufficientStockError struct {
	Shortages []Shortage
}

// Error implements the error interface. Each shortfall row names the item
// and the missing quantity, so the message can be shown to users as is.
func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		label := s.ItemName
		if label == "" {
			label = s.ItemCode
		}
		parts = append(parts, fmt.Sprintf("%s thiếu %s tại %s", label, s.Shortage.String(), s.Warehouse))
	}
	return "Không đủ tồn kho: " + strings.Join(parts, "; ")
}

// NewInsufficientStockError creates the error from shortfall rows
func NewInsufficientStockError(shortages []Shortage) *InsufficientStockError {
	return &InsufficientStockError{Shortages: shortages}
}
