package repository

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientSeats = errors.New("no available seats")
	ErrDuplicate         = errors.New("already exists")
)

// SeatsError is returned when a conditional seat decrement did not match.
// Remaining is the counter observed after the failed attempt.
type SeatsError struct {
	Remaining int
}

func (e *SeatsError) Error() string {
	return fmt.Sprintf("no available seats: %d remaining", e.Remaining)
}

func (e *SeatsError) Unwrap() error {
	return ErrInsufficientSeats
}
