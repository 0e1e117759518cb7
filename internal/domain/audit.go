package domain

import "github.com/google/uuid"

// SeatAudit compares the live seat counter of a package against the seats
// held by its non-cancelled bookings.
type SeatAudit struct {
	PackageID      uuid.UUID `json:"package_id"`
	Title          string    `json:"title"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	BookedSeats    int       `json:"booked_seats"`
}

// Drift is zero when capacity equals booked plus available seats.
func (a SeatAudit) Drift() int {
	return a.TotalSeats - a.BookedSeats - a.AvailableSeats
}

func (a SeatAudit) Consistent() bool {
	return a.Drift() == 0 && a.AvailableSeats >= 0
}
