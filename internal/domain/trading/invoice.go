package trading

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuanhoa/backend/internal/domain/shared"
)

// Naming series prefixes for trading documents
const (
	PurchaseInvoicePrefix = "MH"
	SalesInvoicePrefix    = "BH"
	PaymentEntryPrefix    = "TT"
)

// InvoiceStatus is the payment status of a submitted invoice.
type InvoiceStatus string

const (
	InvoiceDraft      InvoiceStatus = "Draft"
	InvoiceUnpaid     InvoiceStatus = "Unpaid"
	InvoicePartlyPaid InvoiceStatus = "Partly Paid"
	InvoicePaid       InvoiceStatus = "Paid"
	InvoiceCancelled  InvoiceStatus = "Cancelled"
)

// InvoiceItem is one line of a purchase or sales invoice.
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode  string          `gorm:"size:140;not null"`
	ItemName  string          `gorm:"size:200"`
	Qty       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UOM       string          `gorm:"size:50"`
	Rate      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Warehouse string          `gorm:"size:200"`
}

// invoiceCore carries the fields and behavior common to both invoice kinds.
type invoiceCore struct {
	shared.Document
	DueDate           *time.Time
	SetWarehouse      string          `gorm:"size:200"`
	UpdateStock       bool            `gorm:"not null;default:false"`
	GrandTotal        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OutstandingAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status            InvoiceStatus   `gorm:"size:20;not null;default:'Draft';index"`
}

// recalcTotals recomputes line amounts and the grand total
func recalcTotals(items []InvoiceItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		items[i].Amount = items[i].Qty.Mul(items[i].Rate).Round(4)
		total = total.Add(items[i].Amount)
	}
	return total
}

// submit moves the invoice to Unpaid with the full amount outstanding
func (c *invoiceCore) submit(itemCount int) error {
	if itemCount == 0 {
		return shared.NewDomainError("EMPTY_ITEMS", "Invoice has no item rows")
	}
	if err := c.MarkSubmitted(); err != nil {
		return err
	}
	c.OutstandingAmount = c.GrandTotal
	c.Status = InvoiceUnpaid
	return nil
}

// cancel marks a submitted invoice cancelled
func (c *invoiceCore) cancel() error {
	if err := c.MarkCancelled(); err != nil {
		return err
	}
	c.Status = InvoiceCancelled
	return nil
}

// ApplyPayment reduces the outstanding amount. The amount must be positive
// and must not exceed the outstanding amount.
func (c *invoiceCore) ApplyPayment(amount decimal.Decimal) error {
	if !c.IsSubmitted() {
		return shared.NewDomainError("INVALID_STATE", "Payments apply to submitted invoices only")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(c.OutstandingAmount) {
		return shared.NewDomainError("AMOUNT_EXCEEDS_OUTSTANDING", "Payment amount exceeds outstanding amount")
	}
	c.OutstandingAmount = c.OutstandingAmount.Sub(amount)
	if c.OutstandingAmount.IsZero() {
		c.Status = InvoicePaid
	} else {
		c.Status = InvoicePartlyPaid
	}
	c.Touch()
	return nil
}

// HasPayments reports whether any amount has been settled
func (c *invoiceCore) HasPayments() bool {
	return c.IsSubmitted() && c.OutstandingAmount.LessThan(c.GrandTotal)
}

// PurchaseInvoice records goods bought from a supplier.
type PurchaseInvoice struct {
	invoiceCore
	Supplier string        `gorm:"size:200;not null;index"`
	BillNo   string        `gorm:"size:140"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PurchaseInvoice) TableName() string {
	return "purchase_invoices"
}

// NewPurchaseInvoice creates a draft purchase invoice
func NewPurchaseInvoice(supplier, company string, postingDate time.Time) (*PurchaseInvoice, error) {
	if supplier == "" {
		return nil, shared.ErrSupplierNotFound
	}
	if company == "" {
		return nil, shared.ErrMissingCompany
	}
	if postingDate.IsZero() {
		postingDate = time.Now()
	}
	return &PurchaseInvoice{
		invoiceCore: invoiceCore{
			Document: shared.NewDocument(company, postingDate),
			Status:   InvoiceDraft,
		},
		Supplier: supplier,
	}, nil
}

// AddItem appends an invoice line and refreshes totals
func (inv *PurchaseInvoice) AddItem(itemCode string, qty, rate decimal.Decimal, warehouse string) error {
	if err := validateInvoiceLine(itemCode, qty, rate); err != nil {
		return err
	}
	inv.Items = append(inv.Items, InvoiceItem{
		BaseEntity: shared.NewBaseEntity(),
		InvoiceID:  inv.ID,
		ItemCode:   itemCode,
		Qty:        qty,
		Rate:       rate,
		Warehouse:  warehouse,
	})
	inv.GrandTotal = recalcTotals(inv.Items)
	return nil
}

// Submit finalizes the invoice
func (inv *PurchaseInvoice) Submit() error {
	return inv.submit(len(inv.Items))
}

// Cancel cancels a submitted invoice; refused once payments exist
func (inv *PurchaseInvoice) Cancel() error {
	if inv.HasPayments() {
		return shared.NewDomainError("HAS_PAYMENTS", "Invoice with payments cannot be cancelled")
	}
	return inv.cancel()
}

// SalesInvoice records goods sold to a customer.
type SalesInvoice struct {
	invoiceCore
	Customer string        `gorm:"size:200;not null;index"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (SalesInvoice) TableName() string {
	return "sales_invoices"
}

// NewSalesInvoice creates a draft sales invoice
func NewSalesInvoice(customer, company string, postingDate time.Time) (*SalesInvoice, error) {
	if customer == "" {
		return nil, shared.ErrCustomerNotFound
	}
	if company == "" {
		return nil, shared.ErrMissingCompany
	}
	if postingDate.IsZero() {
		postingDate = time.Now()
	}
	return &SalesInvoice{
		invoiceCore: invoiceCore{
			Document: shared.NewDocument(company, postingDate),
			Status:   InvoiceDraft,
		},
		Customer: customer,
	}, nil
}

// AddItem appends an invoice line and refreshes totals
func (inv *SalesInvoice) AddItem(itemCode string, qty, rate decimal.Decimal, warehouse string) error {
	if err := validateInvoiceLine(itemCode, qty, rate); err != nil {
		return err
	}
	inv.Items = append(inv.Items, InvoiceItem{
		BaseEntity: shared.NewBaseEntity(),
		InvoiceID:  inv.ID,
		ItemCode:   itemCode,
		Qty:        qty,
		Rate:       rate,
		Warehouse:  warehouse,
	})
	inv.GrandTotal = recalcTotals(inv.Items)
	return nil
}

// Submit finalizes the invoice
func (inv *SalesInvoice) Submit() error {
	return inv.submit(len(inv.Items))
}

// Cancel cancels a submitted invoice; refused once payments exist
func (inv *SalesInvoice) Cancel() error {
	if inv.HasPayments() {
		return shared.NewDomainError("HAS_PAYMENTS", "Invoice with payments cannot be cancelled")
	}
	return inv.cancel()
}

func validateInvoiceLine(itemCode string, qty, rate decimal.Decimal) error {
	if itemCode == "" {
		return shared.ErrItemNotFound
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QTY", "Quantity must be positive")
	}
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Rate cannot be negative")
	}
	return nil
}
