package partner

import (
	"strings"

	"github.com/xuanhoa/backend/internal/domain/shared"
)

// Warehouse is a storage location. Warehouse names carry the company
// abbreviation suffix ("Kho Chính - XHTB"); WarehouseName is the bare name.
// Group warehouses structure the tree and cannot hold stock.
type Warehouse struct {
	shared.BaseEntity
	Name            string `gorm:"size:200;uniqueIndex;not null"`
	WarehouseName   string `gorm:"size:200;not null"`
	Company         string `gorm:"size:200;not null"`
	ParentWarehouse string `gorm:"size:200;index"`
	IsGroup         bool   `gorm:"not null;default:false"`
	WarehouseType   string `gorm:"size:50"`
	Disabled        bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a warehouse. The stored name is suffixed with the
// company abbreviation, "Kho Chính - XHTB" style.
func NewWarehouse(warehouseName, company, abbr, parent string, isGroup bool) (*Warehouse, error) {
	warehouseName = strings.TrimSpace(warehouseName)
	if warehouseName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Warehouse name is required")
	}
	if company == "" {
		return nil, shared.ErrMissingCompany
	}
	name := warehouseName
	if abbr != "" && !strings.HasSuffix(name, " - "+abbr) {
		name = warehouseName + " - " + abbr
	}
	return &Warehouse{
		BaseEntity:      shared.NewBaseEntity(),
		Name:            name,
		WarehouseName:   warehouseName,
		Company:         company,
		ParentWarehouse: parent,
		IsGroup:         isGroup,
	}, nil
}

// CanHoldStock reports whether stock may be posted to this warehouse
func (w *Warehouse) CanHoldStock() bool {
	return !w.IsGroup && !w.Disabled
}
