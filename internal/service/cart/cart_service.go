package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/travelagency/internal/cache"
	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/Domenick1991/travelagency/internal/pricing"
	"github.com/Domenick1991/travelagency/internal/service/booking"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultCheckoutLockTTL = 30 * time.Second

type CartUseCase interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Add(ctx context.Context, sessionID string, packageID uuid.UUID, count int) (*domain.Cart, error)
	Remove(ctx context.Context, sessionID string, packageID uuid.UUID) (*domain.Cart, error)
	Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error)
}

// Store persists carts per session and serialises checkouts of a session.
type Store interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	SaveCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
	AcquireCheckoutLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	ReleaseCheckoutLock(ctx context.Context, sessionID string) error
}

type PackageCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Package, error)
}

type SeatLedger interface {
	Remaining(ctx context.Context, packageID uuid.UUID) (int, error)
}

type Booker interface {
	CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error)
}

type CustomerResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	GetOrCreateByEmail(ctx context.Context, email string) (*domain.Customer, error)
}

// CheckoutInput identifies the paying customer either by id or by email.
// The id wins when both are set.
type CheckoutInput struct {
	SessionID     string    `json:"-"`
	CustomerID    uuid.UUID `json:"customer_id"`
	CustomerEmail string    `json:"customer_email"`
}

type CheckoutResult struct {
	Customer domain.Customer  `json:"customer"`
	Bookings []domain.Booking `json:"bookings"`
	Total    decimal.Decimal  `json:"total"`
}

// PartialCheckoutError reports a checkout that booked some items before one
// failed. Committed bookings stay; the cart keeps the failed item and
// everything staged after it.
type PartialCheckoutError struct {
	Committed []domain.Booking
	Failed    domain.CartItem
	Err       error
}

func (e *PartialCheckoutError) Error() string {
	return fmt.Sprintf("checkout stopped at %q after %d booking(s); some items may already be booked: %v",
		e.Failed.Title, len(e.Committed), e.Err)
}

func (e *PartialCheckoutError) Unwrap() error {
	return e.Err
}

type CartService struct {
	store     Store
	packages  PackageCatalog
	ledger    SeatLedger
	bookings  Booker
	customers CustomerResolver
	lockTTL   time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

type CartServiceOption func(*CartService)

func WithCheckoutLockTTL(ttl time.Duration) CartServiceOption {
	return func(s *CartService) {
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

func WithLogger(logger *zap.Logger) CartServiceOption {
	return func(s *CartService) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) CartServiceOption {
	return func(s *CartService) {
		s.now = now
	}
}

func NewCartService(
	store Store,
	packages PackageCatalog,
	ledger SeatLedger,
	bookings Booker,
	customers CustomerResolver,
	opts ...CartServiceOption,
) *CartService {
	service := &CartService{
		store:     store,
		packages:  packages,
		ledger:    ledger,
		bookings:  bookings,
		customers: customers,
		lockTTL:   defaultCheckoutLockTTL,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Get returns the session's cart, or a new empty one.
func (s *CartService) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.store.GetCart(ctx, sessionID)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return domain.NewCart(sessionID), nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) Add(ctx context.Context, sessionID string, packageID uuid.UUID, count int) (*domain.Cart, error) {
	pkg, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}

	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := cart.Add(*pkg, count); err != nil {
		return nil, err
	}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) Remove(ctx context.Context, sessionID string, packageID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !cart.Remove(packageID) {
		return cart, nil
	}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Checkout turns every staged item into a booking, in staging order.
//
// A capacity pre-check runs first and rejects the whole cart without side
// effects. It is advisory only: each booking re-validates seats when it
// commits, and a failure there stops the checkout with a
// *PartialCheckoutError when earlier items were already booked. Committed
// bookings are never rolled back.
func (s *CartService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	locked, err := s.store.AcquireCheckoutLock(ctx, input.SessionID, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire checkout lock: %w", err)
	}
	if !locked {
		return nil, domain.ErrCheckoutInProgress
	}
	defer func() {
		if err := s.store.ReleaseCheckoutLock(context.WithoutCancel(ctx), input.SessionID); err != nil {
			s.logger.Warn("failed to release checkout lock", zap.String("session_id", input.SessionID), zap.Error(err))
		}
	}()

	cart, err := s.Get(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	customer, err := s.resolveCustomer(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.preflight(ctx, cart); err != nil {
		return nil, err
	}

	committed := make([]domain.Booking, 0, len(cart.Items))
	for i, item := range cart.Items {
		err := ctx.Err()
		if err == nil {
			var created *domain.Booking
			created, err = s.bookings.CreateBooking(ctx, booking.CreateBookingInput{
				CustomerID:  customer.ID,
				PackageID:   item.PackageID,
				PeopleCount: item.PeopleCount,
			})
			if err == nil {
				committed = append(committed, *created)
				continue
			}
		}
		return nil, s.stop(ctx, cart, i, item, committed, err)
	}

	if err := s.store.DeleteCart(ctx, input.SessionID); err != nil {
		s.logger.Warn("failed to clear cart after checkout", zap.String("session_id", input.SessionID), zap.Error(err))
	}

	totals := make([]decimal.Decimal, 0, len(committed))
	for _, b := range committed {
		totals = append(totals, b.TotalBasePrice)
	}
	s.logger.Info("checkout completed",
		zap.String("session_id", input.SessionID),
		zap.String("customer_id", customer.ID.String()),
		zap.Int("bookings", len(committed)),
	)
	return &CheckoutResult{Customer: *customer, Bookings: committed, Total: pricing.Sum(totals...)}, nil
}

func (s *CartService) resolveCustomer(ctx context.Context, input CheckoutInput) (*domain.Customer, error) {
	if input.CustomerID != uuid.Nil {
		return s.customers.GetByID(ctx, input.CustomerID)
	}
	if strings.TrimSpace(input.CustomerEmail) == "" {
		return nil, &domain.ValidationError{Field: "customer", Message: "customer_id or customer_email is required"}
	}
	return s.customers.GetOrCreateByEmail(ctx, input.CustomerEmail)
}

func (s *CartService) preflight(ctx context.Context, cart *domain.Cart) error {
	for _, item := range cart.Items {
		remaining, err := s.ledger.Remaining(ctx, item.PackageID)
		if err != nil {
			return fmt.Errorf("check seats for %s: %w", item.PackageID, err)
		}
		if item.PeopleCount > remaining {
			return &domain.CapacityError{
				PackageID: item.PackageID,
				Title:     item.Title,
				Requested: item.PeopleCount,
				Remaining: remaining,
			}
		}
	}
	return nil
}

// stop ends a checkout at item index failedAt. The items before it were
// booked and leave the cart.
func (s *CartService) stop(ctx context.Context, cart *domain.Cart, failedAt int, item domain.CartItem, committed []domain.Booking, cause error) error {
	if failedAt == 0 {
		return cause
	}

	cart.DropFirst(failedAt)
	if err := s.save(context.WithoutCancel(ctx), cart); err != nil {
		s.logger.Error("failed to save cart after partial checkout", zap.String("session_id", cart.SessionID), zap.Error(err))
	}
	s.logger.Warn("checkout stopped after partial commit",
		zap.String("session_id", cart.SessionID),
		zap.String("failed_package", item.PackageID.String()),
		zap.Int("committed", len(committed)),
		zap.Error(cause),
	)
	return &PartialCheckoutError{Committed: committed, Failed: item, Err: cause}
}

func (s *CartService) save(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = s.now().UTC()
	if err := s.store.SaveCart(ctx, cart); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

var _ CartUseCase = (*CartService)(nil)
