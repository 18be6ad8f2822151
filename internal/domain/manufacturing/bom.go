package manufacturing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuanhoa/backend/internal/domain/shared"
)

// BOMNamingPrefix is the naming series prefix for bills of materials
const BOMNamingPrefix = "BOM"

// BOM maps one finished item to the component items and quantities needed
// to produce Quantity units of it.
type BOM struct {
	shared.Document
	Item      string          `gorm:"size:140;not null;index"`
	ItemName  string          `gorm:"size:200"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:1"`
	UOM       string          `gorm:"size:50"`
	IsActive  bool            `gorm:"not null;default:true"`
	IsDefault bool            `gorm:"not null;default:false"`
	Items     []BOMItem       `gorm:"foreignKey:BOMID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (BOM) TableName() string {
	return "boms"
}

// BOMItem is one component row of a BOM.
type BOMItem struct {
	shared.BaseEntity
	BOMID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode        string          `gorm:"size:140;not null"`
	ItemName        string          `gorm:"size:200"`
	Qty             decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UOM             string          `gorm:"size:50"`
	Rate            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SourceWarehouse string          `gorm:"size:200"`
}

// TableName returns the table name for GORM
func (BOMItem) TableName() string {
	return "bom_items"
}

// Amount returns the component cost (qty * rate)
func (i BOMItem) Amount() decimal.Decimal {
	return i.Qty.Mul(i.Rate).Round(4)
}

// NewBOM creates a draft BOM for a finished item
func NewBOM(item, company string, quantity decimal.Decimal, uom string) (*BOM, error) {
	if item == "" {
		return nil, shared.ErrItemNotFound
	}
	if company == "" {
		return nil, shared.ErrMissingCompany
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		quantity = decimal.NewFromInt(1)
	}
	return &BOM{
		Document: shared.NewDocument(company, time.Now()),
		Item:     item,
		Quantity: quantity,
		UOM:      uom,
		IsActive: true,
	}, nil
}

// AddItem appends a component row
func (b *BOM) AddItem(itemCode string, qty, rate decimal.Decimal, uom string) error {
	if itemCode == "" {
		return shared.ErrItemNotFound
	}
	if itemCode == b.Item {
		return shared.NewDomainError("INVALID_BOM", "BOM cannot contain its own finished item")
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QTY", "Component quantity must be positive")
	}
	b.Items = append(b.Items, BOMItem{
		BaseEntity: shared.NewBaseEntity(),
		BOMID:      b.ID,
		ItemCode:   itemCode,
		Qty:        qty,
		UOM:        uom,
		Rate:       rate,
	})
	return nil
}

// Validate checks the BOM is submittable
func (b *BOM) Validate() error {
	if len(b.Items) == 0 {
		return shared.NewDomainError("INVALID_BOM", "BOM has no component rows")
	}
	return nil
}

// TotalCost sums the component amounts
func (b *BOM) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, row := range b.Items {
		total = total.Add(row.Amount())
	}
	return total
}

// RequiredQty scales a component quantity to the requested production qty
func (b *BOM) RequiredQty(componentQty, producedQty decimal.Decimal) decimal.Decimal {
	if b.Quantity.IsZero() {
		return decimal.Zero
	}
	return componentQty.Mul(producedQty).Div(b.Quantity).Round(4)
}
