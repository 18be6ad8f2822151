package trading

import (
	"context"

	"github.com/xuanhoa/backend/internal/domain/shared"
)

// PurchaseInvoiceRepository provides persistence for purchase invoices
type PurchaseInvoiceRepository interface {
	FindByName(ctx context.Context, name string) (*PurchaseInvoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseInvoice, int64, error)
	Save(ctx context.Context, invoice *PurchaseInvoice) error
	Delete(ctx context.Context, name string) error
}

// SalesInvoiceRepository provides persistence for sales invoices
type SalesInvoiceRepository interface {
	FindByName(ctx context.Context, name string) (*SalesInvoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]SalesInvoice, int64, error)
	Save(ctx context.Context, invoice *SalesInvoice) error
	Delete(ctx context.Context, name string) error
}

// PaymentEntryRepository provides persistence for payment entries
type PaymentEntryRepository interface {
	FindByName(ctx context.Context, name string) (*PaymentEntry, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PaymentEntry, int64, error)
	FindByReference(ctx context.Context, referenceName string) ([]PaymentEntry, error)
	Save(ctx context.Context, entry *PaymentEntry) error
}

// ModeOfPaymentRepository provides persistence for payment modes
type ModeOfPaymentRepository interface {
	FindAll(ctx context.Context) ([]ModeOfPayment, error)
	Save(ctx context.Context, mode *ModeOfPayment) error
}
