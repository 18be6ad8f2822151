package partner

import "context"

// WarehouseRepository provides persistence for warehouses
type WarehouseRepository interface {
	FindByName(ctx context.Context, name string) (*Warehouse, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	FindAll(ctx context.Context, isGroup *bool) ([]Warehouse, error)
	FindFirstLeaf(ctx context.Context) (*Warehouse, error)
	Save(ctx context.Context, warehouse *Warehouse) error
}

// SupplierRepository provides persistence for suppliers
type SupplierRepository interface {
	FindByName(ctx context.Context, name string) (*Supplier, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Search(ctx context.Context, query string, limit int) ([]Supplier, error)
	Save(ctx context.Context, supplier *Supplier) error
}

// CustomerRepository provides persistence for customers
type CustomerRepository interface {
	FindByName(ctx context.Context, name string) (*Customer, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Search(ctx context.Context, query string, limit int) ([]Customer, error)
	Save(ctx context.Context, customer *Customer) error
}
