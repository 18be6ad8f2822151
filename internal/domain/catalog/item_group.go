package catalog

import (
	"strings"

	"github.com/xuanhoa/backend/internal/domain/shared"
)

// ItemGroup is a node in the item classification tree. Group nodes may hold
// child groups; leaf nodes may hold items.
type ItemGroup struct {
	shared.BaseEntity
	Name            string `gorm:"size:140;uniqueIndex;not null"`
	ParentItemGroup string `gorm:"size:140;index"`
	IsGroup         bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ItemGroup) TableName() string {
	return "item_groups"
}

// NewItemGroup creates a new item group node
func NewItemGroup(name, parent string, isGroup bool) (*ItemGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Item group name is required")
	}
	return &ItemGroup{
		BaseEntity:      shared.NewBaseEntity(),
		Name:            name,
		ParentItemGroup: parent,
		IsGroup:         isGroup,
	}, nil
}

// UOM is a unit of measure referenced by items and document rows.
type UOM struct {
	shared.BaseEntity
	Name              string `gorm:"size:50;uniqueIndex;not null"`
	MustBeWholeNumber bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (UOM) TableName() string {
	return "uoms"
}
