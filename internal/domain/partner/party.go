package partner

import (
	"strings"

	"github.com/xuanhoa/backend/internal/domain/shared"
)

// Supplier is a vendor party referenced by purchase documents.
type Supplier struct {
	shared.BaseEntity
	Name          string `gorm:"size:200;uniqueIndex;not null"`
	SupplierGroup string `gorm:"size:140"`
	SupplierType  string `gorm:"size:50;not null;default:'Company'"`
	Country       string `gorm:"size:100"`
	Disabled      bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a supplier
func NewSupplier(name, group, supplierType, country string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Supplier name is required")
	}
	if supplierType == "" {
		supplierType = "Company"
	}
	return &Supplier{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          name,
		SupplierGroup: group,
		SupplierType:  supplierType,
		Country:       country,
	}, nil
}

// Customer is a buyer party referenced by sales documents.
type Customer struct {
	shared.BaseEntity
	Name          string `gorm:"size:200;uniqueIndex;not null"`
	CustomerGroup string `gorm:"size:140"`
	CustomerType  string `gorm:"size:50;not null;default:'Company'"`
	Territory     string `gorm:"size:140"`
	Disabled      bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a customer
func NewCustomer(name, group, customerType, territory string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer name is required")
	}
	if customerType == "" {
		customerType = "Company"
	}
	return &Customer{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          name,
		CustomerGroup: group,
		CustomerType:  customerType,
		Territory:     territory,
	}, nil
}
