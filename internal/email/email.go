package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/travelagency/internal/kafka"
	"go.uber.org/zap"
)

// Sender delivers booking notifications. Delivery is a structured log line;
// there is no mail transport.
type Sender struct {
	logger *zap.Logger
}

func NewSender(logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.Email == "" {
		s.logger.Debug("skip notification without recipient", zap.String("booking_id", event.BookingID.String()))
		return nil
	}

	s.logger.Info("send email",
		zap.String("to", event.Email),
		zap.String("subject", Subject(event)),
		zap.String("booking_id", event.BookingID.String()),
		zap.Int("people", event.PeopleCount),
		zap.String("total", event.TotalBasePrice.StringFixed(2)),
	)
	return nil
}

func Subject(event kafka.BookingEvent) string {
	title := event.PackageTitle
	if title == "" {
		title = event.PackageID.String()
	}
	switch event.Type {
	case kafka.EventBookingCreated:
		return fmt.Sprintf("Your booking for %s is confirmed", title)
	case kafka.EventBookingCancelled:
		return fmt.Sprintf("Your booking for %s was cancelled", title)
	default:
		return fmt.Sprintf("Your booking for %s is now %s", title, event.Status)
	}
}
