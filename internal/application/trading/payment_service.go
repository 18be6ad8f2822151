package trading

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuanhoa/backend/internal/domain/shared"
	"github.com/xuanhoa/backend/internal/domain/trading"
	"github.com/xuanhoa/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// CreatePaymentRequest carries the fields accepted when settling an
// invoice. A zero amount settles the full outstanding amount.
type CreatePaymentRequest struct {
	InvoiceType   string          `json:"invoice_type"`
	InvoiceName   string          `json:"invoice_name"`
	Amount        decimal.Decimal `json:"amount"`
	ModeOfPayment string          `json:"mode_of_payment"`
	ReferenceNo   string          `json:"reference_no"`
	ReferenceDate *time.Time      `json:"reference_date"`
}

// PaymentResult reports a recorded payment back to the caller.
type PaymentResult struct {
	Name        string          `json:"name"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Outstanding decimal.Decimal `json:"outstanding_amount"`
	Status      string          `json:"status"`
	Message     string          `json:"message"`
}

// Invoice doctypes accepted by payment creation
const (
	DoctypePurchaseInvoice = "Purchase Invoice"
	DoctypeSalesInvoice    = "Sales Invoice"
)

// PaymentService records payments against submitted invoices and keeps
// the invoice outstanding amounts in step.
type PaymentService struct {
	payments  trading.PaymentEntryRepository
	purchases trading.PurchaseInvoiceRepository
	sales     trading.SalesInvoiceRepository
	modes     trading.ModeOfPaymentRepository
	naming    shared.NamingSeriesRepository
	tx        shared.TransactionManager
	defaults  config.DefaultsConfig
	logger    *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	payments trading.PaymentEntryRepository,
	purchases trading.PurchaseInvoiceRepository,
	sales trading.SalesInvoiceRepository,
	modes trading.ModeOfPaymentRepository,
	naming shared.NamingSeriesRepository,
	tx shared.TransactionManager,
	defaults config.DefaultsConfig,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		payments:  payments,
		purchases: purchases,
		sales:     sales,
		modes:     modes,
		naming:    naming,
		tx:        tx,
		defaults:  defaults,
		logger:    logger.Named("payment"),
	}
}

// Create records a payment against an invoice. The payment entry is
// submitted and the invoice outstanding amount reduced in one call.
func (s *PaymentService) Create(ctx context.Context, req CreatePaymentRequest) (*PaymentResult, error) {
	switch req.InvoiceType {
	case DoctypePurchaseInvoice:
		return s.payPurchase(ctx, req)
	case DoctypeSalesInvoice:
		return s.paySales(ctx, req)
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Loại hóa đơn không hợp lệ")
	}
}

func (s *PaymentService) payPurchase(ctx context.Context, req CreatePaymentRequest) (*PaymentResult, error) {
	inv, err := s.purchases.FindByName(ctx, req.InvoiceName)
	if err != nil {
		return nil, err
	}
	amount := req.Amount
	if amount.IsZero() {
		amount = inv.OutstandingAmount
	}

	if err := inv.ApplyPayment(amount); err != nil {
		return nil, err
	}
	var entry *trading.PaymentEntry
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		entry, err = s.buildEntry(ctx, trading.PaymentPay, trading.PartySupplier, inv.Supplier, amount, req)
		if err != nil {
			return err
		}
		if err := s.payments.Save(ctx, entry); err != nil {
			return err
		}
		return s.purchases.Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Payment recorded",
		zap.String("payment", entry.Name),
		zap.String("invoice", inv.Name),
		zap.String("amount", amount.String()))
	return &PaymentResult{
		Name:        entry.Name,
		PaidAmount:  amount,
		Outstanding: inv.OutstandingAmount,
		Status:      string(inv.Status),
		Message:     fmt.Sprintf("Đã thanh toán %s cho hóa đơn %s", amount.String(), inv.Name),
	}, nil
}

func (s *PaymentService) paySales(ctx context.Context, req CreatePaymentRequest) (*PaymentResult, error) {
	inv, err := s.sales.FindByName(ctx, req.InvoiceName)
	if err != nil {
		return nil, err
	}
	amount := req.Amount
	if amount.IsZero() {
		amount = inv.OutstandingAmount
	}

	if err := inv.ApplyPayment(amount); err != nil {
		return nil, err
	}
	var entry *trading.PaymentEntry
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		entry, err = s.buildEntry(ctx, trading.PaymentReceive, trading.PartyCustomer, inv.Customer, amount, req)
		if err != nil {
			return err
		}
		if err := s.payments.Save(ctx, entry); err != nil {
			return err
		}
		return s.sales.Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Payment recorded",
		zap.String("payment", entry.Name),
		zap.String("invoice", inv.Name),
		zap.String("amount", amount.String()))
	return &PaymentResult{
		Name:        entry.Name,
		PaidAmount:  amount,
		Outstanding: inv.OutstandingAmount,
		Status:      string(inv.Status),
		Message:     fmt.Sprintf("Đã nhận thanh toán %s cho hóa đơn %s", amount.String(), inv.Name),
	}, nil
}

func (s *PaymentService) buildEntry(ctx context.Context, paymentType trading.PaymentType, partyType trading.PartyType, party string, amount decimal.Decimal, req CreatePaymentRequest) (*trading.PaymentEntry, error) {
	entry, err := trading.NewPaymentEntry(paymentType, partyType, party, s.defaults.Company, amount, time.Now())
	if err != nil {
		return nil, err
	}
	entry.ModeOfPayment = req.ModeOfPayment
	entry.ReferenceDoctype = req.InvoiceType
	entry.ReferenceName = req.InvoiceName
	entry.ReferenceNo = req.ReferenceNo
	entry.ReferenceDate = req.ReferenceDate

	name, err := s.naming.NextName(ctx, trading.PaymentEntryPrefix, entry.PostingDate)
	if err != nil {
		return nil, err
	}
	entry.Name = name
	if err := entry.Submit(); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns payment entries matching the filter
func (s *PaymentService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[trading.PaymentEntry], error) {
	filter.Normalize()
	entries, total, err := s.payments.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[trading.PaymentEntry]{}, err
	}
	return shared.NewPaginated(entries, total, filter.Page, filter.PageSize), nil
}

// ForInvoice lists the payments recorded against one invoice
func (s *PaymentService) ForInvoice(ctx context.Context, invoiceName string) ([]trading.PaymentEntry, error) {
	return s.payments.FindByReference(ctx, invoiceName)
}

// Modes lists the enabled modes of payment
func (s *PaymentService) Modes(ctx context.Context) ([]trading.ModeOfPayment, error) {
	modes, err := s.modes.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	enabled := make([]trading.ModeOfPayment, 0, len(modes))
	for _, m := range modes {
		if m.Enabled {
			enabled = append(enabled, m)
		}
	}
	return enabled, nil
}
