package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of package start and end dates.
const DateLayout = "2006-01-02"

type Package struct {
	ID            uuid.UUID       `json:"id"`
	DestinationID uuid.UUID       `json:"destination_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	BasePrice     decimal.Decimal `json:"base_price"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	// TotalSeats is the capacity the live counter started from. It is only
	// used to audit AvailableSeats, never to compute it.
	TotalSeats int `json:"total_seats"`
	// AvailableSeats is the live remaining capacity. Bookings decrement it,
	// cancellations give seats back.
	AvailableSeats int       `json:"available_seats"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Destination *Destination `json:"destination,omitempty"`
}

// Remaining is the live counter clamped at zero for display.
func (p Package) Remaining() int {
	if p.AvailableSeats < 0 {
		return 0
	}
	return p.AvailableSeats
}

// Overlaps reports whether the package dates intersect the inclusive range [from, to].
func (p Package) Overlaps(from, to time.Time) bool {
	return !p.StartDate.After(to) && !p.EndDate.Before(from)
}

// Currency is the currency prices of this package are quoted in.
func (p Package) Currency() string {
	if p.Destination != nil && p.Destination.DefaultCurrency != "" {
		return p.Destination.DefaultCurrency
	}
	return DefaultCurrency
}
