package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort direction. Anything other than an
// explicit DESC sorts ascending.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "DESC" {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField checks the requested sort field against a whitelist of
// column names. Requests outside the whitelist get the defaultField, so user
// input never reaches the ORDER BY clause verbatim.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// ItemSortFields contains allowed sort columns for items
var ItemSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"item_code":     true,
	"item_name":     true,
	"item_group":    true,
	"stock_uom":     true,
	"disabled":      true,
	"standard_rate": true,
}

// StockEntrySortFields contains allowed sort columns for stock entries
var StockEntrySortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"doc_status":   true,
	"posting_date": true,
	"purpose":      true,
	"work_order":   true,
	"company":      true,
}

// BinSortFields contains allowed sort columns for bins
var BinSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"item_code":      true,
	"warehouse":      true,
	"actual_qty":     true,
	"reserved_qty":   true,
	"ordered_qty":    true,
	"valuation_rate": true,
	"stock_value":    true,
}

// LedgerSortFields contains allowed sort columns for stock ledger entries
var LedgerSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"posting_date":   true,
	"item_code":      true,
	"warehouse":      true,
	"voucher_type":   true,
	"voucher_no":     true,
	"actual_qty":     true,
	"qty_after":      true,
	"valuation_rate": true,
}

// BOMSortFields contains allowed sort columns for BOMs
var BOMSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"item":       true,
	"item_name":  true,
	"quantity":   true,
	"is_active":  true,
	"is_default": true,
}

// WorkOrderSortFields contains allowed sort columns for work orders
var WorkOrderSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"name":            true,
	"doc_status":      true,
	"posting_date":    true,
	"production_item": true,
	"item_name":       true,
	"bom_no":          true,
	"qty":             true,
	"produced_qty":    true,
	"status":          true,
}

// PurchaseInvoiceSortFields contains allowed sort columns for purchase invoices
var PurchaseInvoiceSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"name":               true,
	"doc_status":         true,
	"posting_date":       true,
	"supplier":           true,
	"bill_no":            true,
	"status":             true,
	"grand_total":        true,
	"outstanding_amount": true,
}

// SalesInvoiceSortFields contains allowed sort columns for sales invoices
var SalesInvoiceSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"name":               true,
	"doc_status":         true,
	"posting_date":       true,
	"customer":           true,
	"status":             true,
	"grand_total":        true,
	"outstanding_amount": true,
}

// PaymentSortFields contains allowed sort columns for payment entries
var PaymentSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"doc_status":     true,
	"posting_date":   true,
	"payment_type":   true,
	"party":          true,
	"paid_amount":    true,
	"reference_name": true,
}
