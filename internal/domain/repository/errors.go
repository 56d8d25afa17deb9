// Package repository contains the repository interfaces and related errors.
package repository

import (
	"errors"
	"fmt"
)

// Repository errors define common error conditions across all repositories.
// These errors are used to communicate specific failure conditions
// from the data access layer to the application layer.

var (
	// ErrProductNotFound is returned when a product cannot be found by ID.
	ErrProductNotFound = errors.New("product not found")

	// ErrCarrierNotFound is returned when a carrier reference does not match any carrier.
	ErrCarrierNotFound = errors.New("carrier not found")

	// ErrDuplicateReference is returned when trying to create a product with
	// a reference that already exists.
	ErrDuplicateReference = errors.New("product reference already exists")

	// ErrOptimisticLock is returned when an update fails due to
	// a version mismatch (concurrent modification).
	ErrOptimisticLock = errors.New("optimistic lock conflict: record was modified by another transaction")

	// ErrConnectionFailed is returned when the database connection fails.
	ErrConnectionFailed = errors.New("database connection failed")
)

// IsNotFoundError checks if the error is a not found error.
// This is useful for handling not-found cases uniformly.
//
// Parameters:
//   - err: error to check
//
// Returns:
//   - bool: true if the error indicates a resource was not found
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCarrierNotFound)
}

// IsConflictError checks if the error is caused by concurrent or duplicate writes.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrOptimisticLock) ||
		errors.Is(err, ErrDuplicateReference)
}

// MissingCarriersError lists carrier references that matched no carrier.
// It matches ErrCarrierNotFound with errors.Is.
type MissingCarriersError struct {
	References []int
}

func (e *MissingCarriersError) Error() string {
	return fmt.Sprintf("%s: %v", ErrCarrierNotFound, e.References)
}

// Unwrap returns ErrCarrierNotFound.
func (e *MissingCarriersError) Unwrap() error {
	return ErrCarrierNotFound
}
