package partner

import (
	"context"

	"github.com/xuanhoa/backend/internal/domain/partner"
)

// PartyService serves supplier and customer lookups
type PartyService struct {
	suppliers partner.SupplierRepository
	customers partner.CustomerRepository
}

// NewPartyService creates a new PartyService
func NewPartyService(suppliers partner.SupplierRepository, customers partner.CustomerRepository) *PartyService {
	return &PartyService{suppliers: suppliers, customers: customers}
}

// Suppliers lists suppliers matching an optional search query
func (s *PartyService) Suppliers(ctx context.Context, query string, limit int) ([]partner.Supplier, error) {
	return s.suppliers.Search(ctx, query, limit)
}

// Customers lists customers matching an optional search query
func (s *PartyService) Customers(ctx context.Context, query string, limit int) ([]partner.Customer, error) {
	return s.customers.Search(ctx, query, limit)
}
