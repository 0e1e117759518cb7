package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus is an open set: the well-known values below are the ones the
// booking engine writes, administrators may store others.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCancelled BookingStatus = "Cancelled"
	BookingStatusPaid      BookingStatus = "Paid"
)

// MaxPeopleCount bounds the seats one booking or one staged cart item may hold.
const MaxPeopleCount = 1000

type Booking struct {
	ID             uuid.UUID       `json:"id"`
	PackageID      uuid.UUID       `json:"package_id"`
	CustomerID     uuid.UUID       `json:"customer_id"`
	PeopleCount    int             `json:"people_count"`
	TotalBasePrice decimal.Decimal `json:"total_base_price"`
	Status         BookingStatus   `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Package  *Package  `json:"package,omitempty"`
	Customer *Customer `json:"customer,omitempty"`
}

// HoldsSeats reports whether the booking still counts against package capacity.
func (b Booking) HoldsSeats() bool {
	return b.Status != BookingStatusCancelled
}
