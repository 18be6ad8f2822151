package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuanhoa/backend/internal/domain/shared"
)

// Item is a stockable good identified by its item code (natural key).
type Item struct {
	shared.BaseEntity
	ItemCode        string          `gorm:"size:140;uniqueIndex;not null"`
	ItemName        string          `gorm:"size:200;not null"`
	ItemGroup       string          `gorm:"size:140;not null;index"`
	StockUOM        string          `gorm:"size:50;not null"`
	Description     string          `gorm:"size:1000"`
	Image           string          `gorm:"size:500"`
	IsStockItem     bool            `gorm:"not null;default:true"`
	Disabled        bool            `gorm:"not null;default:false;index"`
	ValuationMethod string          `gorm:"size:20;not null;default:'FIFO'"`
	StandardRate    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new stock item
func NewItem(itemCode, itemName, itemGroup, stockUOM string) (*Item, error) {
	itemCode = strings.TrimSpace(itemCode)
	if itemCode == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Item code is required")
	}
	if itemName == "" {
		itemName = itemCode
	}
	if itemGroup == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Item group is required")
	}
	if stockUOM == "" {
		stockUOM = "Nos"
	}
	return &Item{
		BaseEntity:      shared.NewBaseEntity(),
		ItemCode:        itemCode,
		ItemName:        itemName,
		ItemGroup:       itemGroup,
		StockUOM:        stockUOM,
		IsStockItem:     true,
		ValuationMethod: "FIFO",
		StandardRate:    decimal.Zero,
	}, nil
}

// Update changes the mutable item fields. Empty strings leave a field as is.
func (i *Item) Update(itemName, itemGroup, description string, standardRate *decimal.Decimal) {
	if itemName != "" {
		i.ItemName = itemName
	}
	if itemGroup != "" {
		i.ItemGroup = itemGroup
	}
	if description != "" {
		i.Description = description
	}
	if standardRate != nil {
		i.StandardRate = *standardRate
	}
	i.Touch()
}

// ToggleDisabled flips the disabled flag and returns the new state
func (i *Item) ToggleDisabled() bool {
	i.Disabled = !i.Disabled
	i.Touch()
	return i.Disabled
}
