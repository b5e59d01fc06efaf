package domain

import (
	"errors"
	"fmt"
)

var (
	ErrItemNotFound   = errors.New("inventory item not found")
	ErrVendorNotFound = errors.New("vendor not found")
	ErrUserNotFound   = errors.New("user not found")

	// ErrItemHasTransactions guards item deletion when ledger entries
	// still reference it and no cascade was requested.
	ErrItemHasTransactions = errors.New("inventory item has recorded transactions")
)

// ValidationError reports malformed or missing input. It is always a caller
// mistake and never retried.
type ValidationError struct {
	msg string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.msg }

// InsufficientStockError rejects a Reduction that would drive the balance
// negative. It carries both sides so the caller can reconcile.
type InsufficientStockError struct {
	InventoryID int64
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d: %d available, %d requested",
		e.InventoryID, e.Available, e.Requested)
}

// IsNotFound reports whether err is any of the referenced-entity lookups
// failing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrVendorNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
