package store

import (
	"errors"
	"fmt"
)

// Domain errors surfaced to handlers. Anything else coming out of a store is
// an underlying persistence failure and stays opaque to clients.
var (
	ErrFamilyNotFound    = errors.New("family not found")
	ErrItemNotFound      = errors.New("stock item not found")
	ErrDuplicateFamilyID = errors.New("family ID already exists")
)

// InsufficientStockError reports a sale rejected because the requested
// quantity exceeds what remains on hand.
type InsufficientStockError struct {
	Available float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock, available: %g", e.Available)
}
