package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/Domenick1991/travelagency/internal/kafka"
	"github.com/Domenick1991/travelagency/internal/pricing"
	"github.com/Domenick1991/travelagency/internal/repository"
	"github.com/Domenick1991/travelagency/internal/service/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	CountBookedSeats(ctx context.Context, packageID uuid.UUID) (int, error)
	ConvertTotal(ctx context.Context, bookingID uuid.UUID, targetCurrency string) (*domain.PriceQuote, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	ListByCustomerEmail(ctx context.Context, email string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
}

const notificationRetries = 3

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
	PublishWithRetry(ctx context.Context, topic, key string, value any, maxRetries int) error
}

type CurrencyConverter interface {
	Convert(ctx context.Context, from, to string, amount decimal.Decimal) *domain.PriceQuote
}

// PackageCache is invalidated whenever a booking moves seat counters.
type PackageCache interface {
	InvalidatePackages(ctx context.Context) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	packages           repository.PackageRepository
	customers          repository.CustomerRepository
	producer           Producer
	converter          CurrencyConverter
	cache              PackageCache
	bookingTopic       string
	notificationsTopic string
	logger             *zap.Logger
	now                func() time.Time
}

type CreateBookingInput struct {
	CustomerID  uuid.UUID `json:"customer_id"`
	PackageID   uuid.UUID `json:"package_id"`
	PeopleCount int       `json:"people_count"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithConverter(converter CurrencyConverter) BookingServiceOption {
	return func(s *BookingService) {
		s.converter = converter
	}
}

func WithPackageCache(cache PackageCache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

func WithLogger(logger *zap.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

// NewBookingService wires the booking engine. producer may be nil, in which
// case no events are published.
func NewBookingService(
	bookings repository.BookingRepository,
	packages repository.PackageRepository,
	customers repository.CustomerRepository,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		packages:     packages,
		customers:    customers,
		producer:     producer,
		bookingTopic: bookingTopic,
		logger:       zap.NewNop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking books input.PeopleCount seats of a package for a customer.
// The seat decrement and the booking insert commit together; if another
// booking took the seats first, the result is a *domain.CapacityError and
// nothing is written.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.PeopleCount <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if input.PeopleCount > domain.MaxPeopleCount {
		return nil, &domain.ValidationError{Field: "people_count", Message: fmt.Sprintf("must be at most %d", domain.MaxPeopleCount)}
	}

	pkg, err := s.packages.GetByID(ctx, input.PackageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrPackageNotFound
		}
		return nil, fmt.Errorf("get package: %w", err)
	}
	if pkg.AvailableSeats < input.PeopleCount {
		return nil, &domain.CapacityError{
			PackageID: pkg.ID,
			Title:     pkg.Title,
			Requested: input.PeopleCount,
			Remaining: pkg.Remaining(),
		}
	}

	customer, err := s.customers.GetByID(ctx, input.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}

	now := s.now().UTC()
	booking := &domain.Booking{
		ID:             uuid.New(),
		PackageID:      pkg.ID,
		CustomerID:     customer.ID,
		PeopleCount:    input.PeopleCount,
		TotalBasePrice: pricing.LineTotal(pkg.BasePrice, input.PeopleCount),
		Status:         domain.BookingStatusConfirmed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.bookings.CreateWithReservation(ctx, booking); err != nil {
		if mapped := inventory.MapSeatError(err, pkg.ID, pkg.Title, input.PeopleCount); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	pkg.AvailableSeats -= input.PeopleCount
	booking.Package = pkg
	booking.Customer = customer

	s.invalidatePackages(ctx)
	s.publish(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) CountBookedSeats(ctx context.Context, packageID uuid.UUID) (int, error) {
	return s.bookings.CountBookedSeats(ctx, packageID)
}

// ConvertTotal quotes a booking total in targetCurrency. The source currency
// is the destination's default currency; a blank target means no conversion.
func (s *BookingService) ConvertTotal(ctx context.Context, bookingID uuid.UUID, targetCurrency string) (*domain.PriceQuote, error) {
	booking, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	from := domain.DefaultCurrency
	if booking.Package != nil {
		from = booking.Package.Currency()
	}
	to := strings.ToUpper(strings.TrimSpace(targetCurrency))
	if to == "" {
		to = from
	}

	if s.converter == nil {
		return nil, domain.ErrConversionUnavailable
	}
	quote := s.converter.Convert(ctx, from, to, booking.TotalBasePrice)
	if quote == nil {
		return nil, domain.ErrConversionUnavailable
	}
	return quote, nil
}

func (s *BookingService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) List(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.List(ctx)
}

func (s *BookingService) ListByCustomerEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return []domain.Booking{}, nil
	}
	return s.bookings.ListByCustomerEmail(ctx, email)
}

// UpdateStatus sets an administrative status. Moving a booking to Cancelled
// releases its seats; a cancelled booking cannot be moved back.
func (s *BookingService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (*domain.Booking, error) {
	status = domain.BookingStatus(strings.TrimSpace(string(status)))
	if status == "" {
		return nil, &domain.ValidationError{Field: "status", Message: "is required"}
	}
	if strings.EqualFold(string(status), string(domain.BookingStatusCancelled)) {
		return s.CancelBooking(ctx, id)
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, domain.ErrBookingNotFound
		case errors.Is(err, repository.ErrBookingCancelled):
			return nil, domain.ErrInvalidStatusTransition
		}
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingStatusChanged, updated)
	return updated, nil
}

// CancelBooking soft-cancels a booking: the record is kept with status
// Cancelled and its seats go back to the package. Cancelling twice is a no-op.
func (s *BookingService) CancelBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	cancelled, changed, err := s.bookings.Cancel(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	if changed {
		s.invalidatePackages(ctx)
		s.publish(ctx, kafka.EventBookingCancelled, cancelled)
	}
	return cancelled, nil
}

func (s *BookingService) invalidatePackages(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePackages(ctx); err != nil {
		s.logger.Warn("failed to invalidate packages cache", zap.Error(err))
	}
}

// publish never fails the caller: a booking that committed stays committed
// even when the event bus is down.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.NewBookingEvent(eventType, *booking)
	key := booking.ID.String()

	if err := s.producer.Publish(ctx, s.bookingTopic, key, event); err != nil {
		s.logger.Warn("failed to publish booking event", zap.String("type", eventType), zap.String("booking_id", key), zap.Error(err))
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.PublishWithRetry(ctx, s.notificationsTopic, key, event, notificationRetries); err != nil {
			s.logger.Warn("failed to publish notification", zap.String("type", eventType), zap.String("booking_id", key), zap.Error(err))
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
