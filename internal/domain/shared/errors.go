package shared

// DomainError is a business-rule violation surfaced to callers. Code is
// stable and machine-readable; Message is for humans.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string { return e.Message }

// NewDomainError builds a DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")

	// Ledger and workflow errors. These reflect business-rule violations and
	// are never retried automatically.
	ErrInvalidQuantity         = NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	ErrInsufficientStock       = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInvalidState            = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInvalidReceivedQuantity = NewDomainError("INVALID_RECEIVED_QUANTITY", "Received quantity exceeds sent quantity")
	ErrCrossBranchViolation    = NewDomainError("CROSS_BRANCH_VIOLATION", "Transfer branches or item kinds are inconsistent")
	ErrIntegrityViolation      = NewDomainError("INTEGRITY_VIOLATION", "Adjustment would drive stock negative")
)
