package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const (
	EventBookingCreated       = "booking_created"
	EventBookingCancelled     = "booking_cancelled"
	EventBookingStatusChanged = "booking_status_changed"
)

type BookingEvent struct {
	Type           string          `json:"type"`
	BookingID      uuid.UUID       `json:"booking_id"`
	PackageID      uuid.UUID       `json:"package_id"`
	PackageTitle   string          `json:"package_title,omitempty"`
	CustomerID     uuid.UUID       `json:"customer_id"`
	Email          string          `json:"email,omitempty"`
	PeopleCount    int             `json:"people_count"`
	TotalBasePrice decimal.Decimal `json:"total_base_price"`
	Status         string          `json:"status"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

func NewBookingEvent(eventType string, b domain.Booking) BookingEvent {
	event := BookingEvent{
		Type:           eventType,
		BookingID:      b.ID,
		PackageID:      b.PackageID,
		CustomerID:     b.CustomerID,
		PeopleCount:    b.PeopleCount,
		TotalBasePrice: b.TotalBasePrice,
		Status:         string(b.Status),
		OccurredAt:     time.Now().UTC(),
	}
	if b.Package != nil {
		event.PackageTitle = b.Package.Title
	}
	if b.Customer != nil {
		event.Email = b.Customer.Email
	}
	return event
}

func DecodeBookingEvent(msg kafka.Message) (BookingEvent, error) {
	var event BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return BookingEvent{}, fmt.Errorf("decode booking event: %w", err)
	}
	return event, nil
}
