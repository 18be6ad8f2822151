package rpc

import (
	"github.com/gin-gonic/gin"
	apptrading "github.com/xuanhoa/backend/internal/application/trading"
)

func (s *Server) registerTradingMethods() {
	s.register("get_purchase_invoices", s.getPurchaseInvoices)
	s.register("get_purchase_invoice_detail", s.getPurchaseInvoiceDetail)
	s.register("create_purchase_invoice", s.createPurchaseInvoice)
	s.register("submit_purchase_invoice", s.submitPurchaseInvoice)
	s.register("cancel_purchase_invoice", s.cancelPurchaseInvoice)
	s.register("create_stock_entry_from_purchase_invoice", s.createStockEntryFromPurchaseInvoice)
	s.register("create_payment_for_purchase_invoice", s.createPaymentForPurchaseInvoice)
	s.register("get_sales_invoices", s.getSalesInvoices)
	s.register("get_sales_invoice_detail", s.getSalesInvoiceDetail)
	s.register("create_sales_invoice", s.createSalesInvoice)
	s.register("submit_sales_invoice", s.submitSalesInvoice)
	s.register("cancel_sales_invoice", s.cancelSalesInvoice)
	s.register("create_stock_entry_from_sales_invoice", s.createStockEntryFromSalesInvoice)
	s.register("create_payment_for_sales_invoice", s.createPaymentForSalesInvoice)
	s.register("get_mode_of_payments", s.getModeOfPayments)
}

func invoiceLines(kw Kwargs) ([]apptrading.InvoiceLineInput, error) {
	var lines []apptrading.InvoiceLineInput
	err := kw.Unmarshal("items", &lines)
	return lines, err
}

func (s *Server) getPurchaseInvoices(c *gin.Context, kw Kwargs) {
	page, err := s.services.Invoices.ListPurchases(c.Request.Context(), kw.Filter())
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, page)
}

func (s *Server) getPurchaseInvoiceDetail(c *gin.Context, kw Kwargs) {
	inv, err := s.services.Invoices.PurchaseDetail(c.Request.Context(), kw.String("name"))
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, inv)
}

func (s *Server) createPurchaseInvoice(c *gin.Context, kw Kwargs) {
	lines, err := invoiceLines(kw)
	if err != nil {
		replyError(c, err)
		return
	}
	req := apptrading.CreatePurchaseInvoiceRequest{
		Supplier:     kw.String("supplier"),
		BillNo:       kw.String("bill_no"),
		PostingDate:  kw.Date("posting_date"),
		DueDate:      kw.DatePtr("due_date"),
		SetWarehouse: kw.String("set_warehouse"),
		UpdateStock:  kw.Bool("update_stock"),
		Items:        lines,
	}
	if err := checkRequest(req); err != nil {
		replyError(c, err)
		return
	}
	inv, err := s.services.Invoices.CreatePurchase(c.Request.Context(), req)
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, "Đã tạo hóa đơn mua hàng "+inv.Name, gin.H{"name": inv.Name})
}

func (s *Server) submitPurchaseInvoice(c *gin.Context, kw Kwargs) {
	result, err := s.services.Invoices.SubmitPurchase(c.Request.Context(), kw.String("name"))
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, result.Message, gin.H{"name": result.Name, "stock_entry": result.StockEntry})
}

func (s *Server) cancelPurchaseInvoice(c *gin.Context, kw Kwargs) {
	if err := s.services.Invoices.CancelPurchase(c.Request.Context(), kw.String("name")); err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, "Đã hủy hóa đơn mua hàng", nil)
}

func (s *Server) createStockEntryFromPurchaseInvoice(c *gin.Context, kw Kwargs) {
	result, err := s.services.Invoices.CreateStockEntryFromPurchase(c.Request.Context(), kw.String("name"))
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, result.Message, gin.H{"name": result.Name, "stock_entry": result.StockEntry})
}

func (s *Server) createPaymentForPurchaseInvoice(c *gin.Context, kw Kwargs) {
	s.createPayment(c, kw, apptrading.DoctypePurchaseInvoice)
}

func (s *Server) getSalesInvoices(c *gin.Context, kw Kwargs) {
	page, err := s.services.Invoices.ListSales(c.Request.Context(), kw.Filter())
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, page)
}

func (s *Server) getSalesInvoiceDetail(c *gin.Context, kw Kwargs) {
	inv, err := s.services.Invoices.SalesDetail(c.Request.Context(), kw.String("name"))
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, inv)
}

func (s *Server) createSalesInvoice(c *gin.Context, kw Kwargs) {
	lines, err := invoiceLines(kw)
	if err != nil {
		replyError(c, err)
		return
	}
	req := apptrading.CreateSalesInvoiceRequest{
		Customer:     kw.String("customer"),
		PostingDate:  kw.Date("posting_date"),
		DueDate:      kw.DatePtr("due_date"),
		SetWarehouse: kw.String("set_warehouse"),
		UpdateStock:  kw.Bool("update_stock"),
		Items:        lines,
	}
	if err := checkRequest(req); err != nil {
		replyError(c, err)
		return
	}
	inv, err := s.services.Invoices.CreateSales(c.Request.Context(), req)
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, "Đã tạo hóa đơn bán hàng "+inv.Name, gin.H{"name": inv.Name})
}

func (s *Server) submitSalesInvoice(c *gin.Context, kw Kwargs) {
	result, err := s.services.Invoices.SubmitSales(c.Request.Context(), kw.String("name"))
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, result.Message, gin.H{"name": result.Name, "stock_entry": result.StockEntry})
}

func (s *Server) cancelSalesInvoice(c *gin.Context, kw Kwargs) {
	if err := s.services.Invoices.CancelSales(c.Request.Context(), kw.String("name")); err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, "Đã hủy hóa đơn bán hàng", nil)
}

func (s *Server) createStockEntryFromSalesInvoice(c *gin.Context, kw Kwargs) {
	result, err := s.services.Invoices.CreateStockEntryFromSales(c.Request.Context(), kw.String("name"))
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, result.Message, gin.H{"name": result.Name, "stock_entry": result.StockEntry})
}

func (s *Server) createPayment(c *gin.Context, kw Kwargs, invoiceType string) {
	req := apptrading.CreatePaymentRequest{
		InvoiceType:   invoiceType,
		InvoiceName:   kw.StringDefault("invoice_name", kw.String("name")),
		Amount:        kw.Decimal("amount"),
		ModeOfPayment: kw.String("mode_of_payment"),
		ReferenceNo:   kw.String("reference_no"),
		ReferenceDate: kw.DatePtr("reference_date"),
	}
	result, err := s.services.Payments.Create(c.Request.Context(), req)
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, result.Message, gin.H{
		"name":               result.Name,
		"paid_amount":        result.PaidAmount,
		"outstanding_amount": result.Outstanding,
		"status":             result.Status,
	})
}

func (s *Server) createPaymentForSalesInvoice(c *gin.Context, kw Kwargs) {
	s.createPayment(c, kw, apptrading.DoctypeSalesInvoice)
}

func (s *Server) getModeOfPayments(c *gin.Context, kw Kwargs) {
	modes, err := s.services.Payments.Modes(c.Request.Context())
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, modes)
}
