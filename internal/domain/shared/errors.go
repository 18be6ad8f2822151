package shared

// DomainError represents a domain-level error with a stable code.
// The RPC boundary maps codes to localized user-facing messages.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists     = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState      = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrPermissionDenied  = NewDomainError("PERMISSION_DENIED", "Not authorized to perform this action")
	ErrMissingCompany    = NewDomainError("MISSING_COMPANY", "No default company is configured")
	ErrItemNotFound      = NewDomainError("ITEM_NOT_FOUND", "Item not found")
	ErrWarehouseNotFound = NewDomainError("WAREHOUSE_NOT_FOUND", "Warehouse not found")
	ErrSupplierNotFound  = NewDomainError("SUPPLIER_NOT_FOUND", "Supplier not found")
	ErrCustomerNotFound  = NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
	ErrInvalidBOM        = NewDomainError("INVALID_BOM", "BOM is invalid or not found")
	ErrAlreadySubmitted  = NewDomainError("ALREADY_SUBMITTED", "Document is already submitted")
	ErrAlreadyCancelled  = NewDomainError("ALREADY_CANCELLED", "Document is already cancelled")
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
)
