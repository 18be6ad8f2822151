package trading

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSalesInvoice(t *testing.T) *SalesInvoice {
	t.Helper()
	inv, err := NewSalesInvoice("Công ty A", "Xuân Hòa Thái Bình", time.Now())
	require.NoError(t, err)
	require.NoError(t, inv.AddItem("TP-001", decimal.NewFromInt(2), decimal.NewFromInt(500), ""))
	require.NoError(t, inv.AddItem("TP-002", decimal.NewFromInt(1), decimal.NewFromInt(300), ""))
	inv.Name = "BH-2025-00001"
	return inv
}

func TestInvoiceTotals(t *testing.T) {
	inv := testSalesInvoice(t)
	assert.True(t, inv.GrandTotal.Equal(decimal.NewFromInt(1300)))
	assert.Equal(t, InvoiceDraft, inv.Status)
	assert.True(t, inv.OutstandingAmount.IsZero(), "nothing outstanding before submit")
}

func TestInvoiceSubmit(t *testing.T) {
	t.Run("submit sets the full amount outstanding", func(t *testing.T) {
		inv := testSalesInvoice(t)
		require.NoError(t, inv.Submit())
		assert.Equal(t, InvoiceUnpaid, inv.Status)
		assert.True(t, inv.OutstandingAmount.Equal(decimal.NewFromInt(1300)))
	})

	t.Run("empty invoice cannot submit", func(t *testing.T) {
		inv, err := NewSalesInvoice("Công ty A", "Xuân Hòa Thái Bình", time.Now())
		require.NoError(t, err)
		assert.Error(t, inv.Submit())
	})
}

func TestApplyPayment(t *testing.T) {
	t.Run("partial payment sets Partly Paid", func(t *testing.T) {
		inv := testSalesInvoice(t)
		require.NoError(t, inv.Submit())
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(300)))
		assert.Equal(t, InvoicePartlyPaid, inv.Status)
		assert.True(t, inv.OutstandingAmount.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("full payment sets Paid", func(t *testing.T) {
		inv := testSalesInvoice(t)
		require.NoError(t, inv.Submit())
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(1300)))
		assert.Equal(t, InvoicePaid, inv.Status)
		assert.True(t, inv.OutstandingAmount.IsZero())
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		inv := testSalesInvoice(t)
		require.NoError(t, inv.Submit())
		assert.Error(t, inv.ApplyPayment(decimal.Zero))
		assert.Error(t, inv.ApplyPayment(decimal.NewFromInt(-5)))
	})

	t.Run("rejects amounts over the outstanding balance", func(t *testing.T) {
		inv := testSalesInvoice(t)
		require.NoError(t, inv.Submit())
		assert.Error(t, inv.ApplyPayment(decimal.NewFromInt(2000)))
		assert.True(t, inv.OutstandingAmount.Equal(decimal.NewFromInt(1300)))
	})

	t.Run("rejects payments against drafts", func(t *testing.T) {
		inv := testSalesInvoice(t)
		assert.Error(t, inv.ApplyPayment(decimal.NewFromInt(100)))
	})
}

func TestInvoiceCancel(t *testing.T) {
	t.Run("unpaid invoice cancels", func(t *testing.T) {
		inv := testSalesInvoice(t)
		require.NoError(t, inv.Submit())
		require.NoError(t, inv.Cancel())
		assert.Equal(t, InvoiceCancelled, inv.Status)
	})

	t.Run("payments block cancellation", func(t *testing.T) {
		inv := testSalesInvoice(t)
		require.NoError(t, inv.Submit())
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(100)))
		assert.True(t, inv.HasPayments())
		assert.Error(t, inv.Cancel())
	})
}

func TestNewPaymentEntry(t *testing.T) {
	t.Run("valid entry submits", func(t *testing.T) {
		entry, err := NewPaymentEntry(PaymentReceive, PartyCustomer, "Công ty A",
			"Xuân Hòa Thái Bình", decimal.NewFromInt(100), time.Now())
		require.NoError(t, err)
		require.NoError(t, entry.Submit())
		assert.True(t, entry.IsSubmitted())
	})

	t.Run("rejects missing party and non-positive amount", func(t *testing.T) {
		_, err := NewPaymentEntry(PaymentPay, PartySupplier, "", "Xuân Hòa Thái Bình", decimal.NewFromInt(1), time.Now())
		assert.Error(t, err)
		_, err = NewPaymentEntry(PaymentPay, PartySupplier, "NCC A", "Xuân Hòa Thái Bình", decimal.Zero, time.Now())
		assert.Error(t, err)
	})
}
