package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity         = errors.New("people count must be greater than zero")
	ErrPackageNotFound         = errors.New("package not found")
	ErrInsufficientCapacity    = errors.New("not enough seats")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrConversionUnavailable   = errors.New("currency conversion unavailable")
	ErrBookingNotFound         = errors.New("booking not found")
	ErrCustomerNotFound        = errors.New("customer not found")
	ErrDestinationNotFound     = errors.New("destination not found")
	ErrInvalidDateRange        = errors.New("end date must be on or after start date")
	ErrInvalidStatusTransition = errors.New("invalid booking status transition")
	ErrCheckoutInProgress      = errors.New("checkout already in progress")
)

// CapacityError is returned when a request asks for more seats than remain.
// It matches ErrInsufficientCapacity with errors.Is.
type CapacityError struct {
	PackageID uuid.UUID
	Title     string
	Requested int
	Remaining int
}

func (e *CapacityError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("not enough seats for %q. Remaining: %d", e.Title, e.Remaining)
	}
	return fmt.Sprintf("not enough seats. Remaining: %d", e.Remaining)
}

func (e *CapacityError) Unwrap() error {
	return ErrInsufficientCapacity
}

// ValidationError reports invalid input for a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
