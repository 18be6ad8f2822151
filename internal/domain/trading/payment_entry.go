package trading

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuanhoa/backend/internal/domain/shared"
)

// PaymentType distinguishes money paid out from money received.
type PaymentType string

const (
	PaymentPay     PaymentType = "Pay"
	PaymentReceive PaymentType = "Receive"
)

// PartyType names the counterparty kind of a payment.
type PartyType string

const (
	PartySupplier PartyType = "Supplier"
	PartyCustomer PartyType = "Customer"
)

// PaymentEntry settles an invoice, fully or in part. Pay entries reference
// purchase invoices, Receive entries reference sales invoices.
type PaymentEntry struct {
	shared.Document
	PaymentType      PaymentType     `gorm:"size:10;not null;index"`
	PartyType        PartyType       `gorm:"size:10;not null"`
	Party            string          `gorm:"size:200;not null;index"`
	PaidAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ModeOfPayment    string          `gorm:"size:140"`
	ReferenceDoctype string          `gorm:"size:50"`
	ReferenceName    string          `gorm:"size:140;index"`
	ReferenceNo      string          `gorm:"size:140"`
	ReferenceDate    *time.Time
}

// TableName returns the table name for GORM
func (PaymentEntry) TableName() string {
	return "payment_entries"
}

// NewPaymentEntry creates a draft payment against an invoice reference
func NewPaymentEntry(paymentType PaymentType, partyType PartyType, party, company string, amount decimal.Decimal, postingDate time.Time) (*PaymentEntry, error) {
	if party == "" {
		if partyType == PartySupplier {
			return nil, shared.ErrSupplierNotFound
		}
		return nil, shared.ErrCustomerNotFound
	}
	if company == "" {
		return nil, shared.ErrMissingCompany
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if postingDate.IsZero() {
		postingDate = time.Now()
	}
	return &PaymentEntry{
		Document:    shared.NewDocument(company, postingDate),
		PaymentType: paymentType,
		PartyType:   partyType,
		Party:       party,
		PaidAmount:  amount,
	}, nil
}

// Submit finalizes the payment
func (p *PaymentEntry) Submit() error {
	return p.MarkSubmitted()
}

// ModeOfPayment is a configured way of settling payments (cash, bank
// transfer and so on).
type ModeOfPayment struct {
	shared.BaseEntity
	Name    string `gorm:"size:140;uniqueIndex;not null"`
	Type    string `gorm:"size:20"`
	Enabled bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ModeOfPayment) TableName() string {
	return "modes_of_payment"
}
