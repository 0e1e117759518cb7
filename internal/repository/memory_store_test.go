package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryFixture struct {
	store       *MemoryStore
	destination domain.Destination
	pkg         domain.Package
	customer    domain.Customer
}

func newMemoryFixture(t *testing.T, seats int) memoryFixture {
	t.Helper()
	ctx := context.Background()
	store := NewMemoryStore()

	dest := domain.Destination{ID: uuid.New(), CountryName: "Portugal", City: "Lisbon", IsoCode: "PT", DefaultCurrency: "EUR"}
	require.NoError(t, store.Destinations().Create(ctx, &dest))

	pkg := domain.Package{
		ID:             uuid.New(),
		DestinationID:  dest.ID,
		Title:          "Lisbon weekend",
		BasePrice:      decimal.RequireFromString("250.00"),
		StartDate:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC),
		TotalSeats:     seats,
		AvailableSeats: seats,
	}
	require.NoError(t, store.Packages().Create(ctx, &pkg))

	customer := domain.Customer{ID: uuid.New(), FirstName: "Ana", LastName: "Silva", Email: "ana@example.com"}
	require.NoError(t, store.Customers().Create(ctx, &customer))

	return memoryFixture{store: store, destination: dest, pkg: pkg, customer: customer}
}

func (f memoryFixture) booking(people int) *domain.Booking {
	ts := time.Now().UTC()
	return &domain.Booking{
		ID:             uuid.New(),
		PackageID:      f.pkg.ID,
		CustomerID:     f.customer.ID,
		PeopleCount:    people,
		TotalBasePrice: f.pkg.BasePrice.Mul(decimal.NewFromInt(int64(people))),
		Status:         domain.BookingStatusConfirmed,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
}

func TestMemoryPackages_GetByIDAttachesDestination(t *testing.T) {
	f := newMemoryFixture(t, 5)

	pkg, err := f.store.Packages().GetByID(context.Background(), f.pkg.ID)
	require.NoError(t, err)
	require.NotNil(t, pkg.Destination)
	assert.Equal(t, "Lisbon", pkg.Destination.City)

	_, err = f.store.Packages().GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryPackages_CreateRequiresDestination(t *testing.T) {
	store := NewMemoryStore()
	pkg := domain.Package{ID: uuid.New(), DestinationID: uuid.New(), Title: "Orphan"}

	err := store.Packages().Create(context.Background(), &pkg)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryPackages_ReserveAndRelease(t *testing.T) {
	f := newMemoryFixture(t, 3)
	ctx := context.Background()
	repo := f.store.Packages()

	left, err := repo.ReserveSeats(ctx, f.pkg.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, left)

	_, err = repo.ReserveSeats(ctx, f.pkg.ID, 2)
	var seatsErr *SeatsError
	require.ErrorAs(t, err, &seatsErr)
	assert.Equal(t, 1, seatsErr.Remaining)
	assert.ErrorIs(t, err, ErrInsufficientSeats)

	require.NoError(t, repo.ReleaseSeats(ctx, f.pkg.ID, 2))
	pkg, err := repo.GetByID(ctx, f.pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, pkg.AvailableSeats)

	_, err = repo.ReserveSeats(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryBookings_CreateWithReservation(t *testing.T) {
	f := newMemoryFixture(t, 4)
	ctx := context.Background()

	b := f.booking(3)
	require.NoError(t, f.store.Bookings().CreateWithReservation(ctx, b))

	stored, err := f.store.Bookings().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "750", stored.TotalBasePrice.String())
	require.NotNil(t, stored.Package)
	require.NotNil(t, stored.Customer)
	assert.Equal(t, "ana@example.com", stored.Customer.Email)
	assert.Equal(t, 1, stored.Package.AvailableSeats)

	err = f.store.Bookings().CreateWithReservation(ctx, f.booking(2))
	assert.ErrorIs(t, err, ErrInsufficientSeats)

	bookings, err := f.store.Bookings().List(ctx)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestMemoryBookings_CancelRestoresSeatsOnce(t *testing.T) {
	f := newMemoryFixture(t, 4)
	ctx := context.Background()

	b := f.booking(2)
	require.NoError(t, f.store.Bookings().CreateWithReservation(ctx, b))

	cancelled, changed, err := f.store.Bookings().Cancel(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)

	_, changed, err = f.store.Bookings().Cancel(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	pkg, err := f.store.Packages().GetByID(ctx, f.pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, pkg.AvailableSeats)

	booked, err := f.store.Bookings().CountBookedSeats(ctx, f.pkg.ID)
	require.NoError(t, err)
	assert.Zero(t, booked)

	_, err = f.store.Bookings().UpdateStatus(ctx, b.ID, domain.BookingStatusPaid)
	assert.ErrorIs(t, err, ErrBookingCancelled)
}

func TestMemoryBookings_ListByCustomerEmailIgnoresCase(t *testing.T) {
	f := newMemoryFixture(t, 10)
	ctx := context.Background()

	first := f.booking(1)
	require.NoError(t, f.store.Bookings().CreateWithReservation(ctx, first))
	second := f.booking(1)
	second.CreatedAt = first.CreatedAt.Add(time.Minute)
	require.NoError(t, f.store.Bookings().CreateWithReservation(ctx, second))

	bookings, err := f.store.Bookings().ListByCustomerEmail(ctx, "  ANA@Example.com ")
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, second.ID, bookings[0].ID)

	bookings, err = f.store.Bookings().ListByCustomerEmail(ctx, "other@example.com")
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestMemoryPackages_UpdateRecomputesCapacity(t *testing.T) {
	f := newMemoryFixture(t, 10)
	ctx := context.Background()
	require.NoError(t, f.store.Bookings().CreateWithReservation(ctx, f.booking(3)))

	edit := f.pkg
	edit.Title = "Lisbon long weekend"
	edit.AvailableSeats = 12
	edit.TotalSeats = 0
	require.NoError(t, f.store.Packages().Update(ctx, &edit))
	assert.Equal(t, 15, edit.TotalSeats)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.store.Bookings().CreateWithReservation(ctx, f.booking(1)))
		}()
		go func() {
			defer wg.Done()
			again := edit
			assert.NoError(t, f.store.Packages().Update(ctx, &again))
		}()
	}
	wg.Wait()

	pkg, err := f.store.Packages().GetByID(ctx, f.pkg.ID)
	require.NoError(t, err)
	booked, err := f.store.Bookings().CountBookedSeats(ctx, f.pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, 13, booked)
	assert.Equal(t, pkg.TotalSeats, pkg.AvailableSeats+booked)
}

func TestMemoryBookings_ConcurrentReservationsNeverOversell(t *testing.T) {
	const seats, attempts = 5, 40
	f := newMemoryFixture(t, seats)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		rejected  atomic.Int32
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.store.Bookings().CreateWithReservation(ctx, f.booking(1))
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, ErrInsufficientSeats):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, seats, succeeded.Load())
	assert.EqualValues(t, attempts-seats, rejected.Load())

	pkg, err := f.store.Packages().GetByID(ctx, f.pkg.ID)
	require.NoError(t, err)
	assert.Zero(t, pkg.AvailableSeats)
}

func TestMemoryCustomers_DeleteReleasesSeats(t *testing.T) {
	f := newMemoryFixture(t, 10)
	ctx := context.Background()

	held := f.booking(3)
	require.NoError(t, f.store.Bookings().CreateWithReservation(ctx, held))
	cancelled := f.booking(2)
	require.NoError(t, f.store.Bookings().CreateWithReservation(ctx, cancelled))
	_, _, err := f.store.Bookings().Cancel(ctx, cancelled.ID)
	require.NoError(t, err)

	require.NoError(t, f.store.Customers().Delete(ctx, f.customer.ID))

	pkg, err := f.store.Packages().GetByID(ctx, f.pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, pkg.AvailableSeats)
	_, err = f.store.Bookings().GetByID(ctx, held.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.store.Customers().Delete(ctx, f.customer.ID), ErrNotFound)
}

func TestMemoryCustomers_DeleteFailsWithoutPartialChanges(t *testing.T) {
	f := newMemoryFixture(t, 10)
	ctx := context.Background()

	orphan := f.booking(2)
	orphan.PackageID = uuid.New()
	f.store.mu.Lock()
	f.store.bookings[orphan.ID] = *orphan
	f.store.mu.Unlock()

	err := f.store.Customers().Delete(ctx, f.customer.ID)

	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.store.Customers().GetByID(ctx, f.customer.ID)
	assert.NoError(t, err)
	_, err = f.store.Bookings().GetByID(ctx, orphan.ID)
	assert.NoError(t, err)
}

func TestMemoryCustomers_UniqueEmailAndSearch(t *testing.T) {
	f := newMemoryFixture(t, 1)
	ctx := context.Background()
	repo := f.store.Customers()

	dup := domain.Customer{ID: uuid.New(), FirstName: "A", LastName: "B", Email: "ANA@example.com"}
	assert.ErrorIs(t, repo.Create(ctx, &dup), ErrDuplicate)

	bob := domain.Customer{ID: uuid.New(), FirstName: "Bob", LastName: "Marley", Email: "bob@example.com"}
	require.NoError(t, repo.Create(ctx, &bob))

	found, err := repo.Search(ctx, "SIL")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, f.customer.ID, found[0].ID)

	all, err := repo.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byEmail, err := repo.GetByEmail(ctx, "BOB@example.com")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, byEmail.ID)
}

func TestMemoryDestinations_FindAndCascade(t *testing.T) {
	f := newMemoryFixture(t, 2)
	ctx := context.Background()
	repo := f.store.Destinations()

	porto := domain.Destination{ID: uuid.New(), CountryName: "Portugal", City: "Porto", IsoCode: "PT"}
	require.NoError(t, repo.Create(ctx, &porto))

	dup := domain.Destination{ID: uuid.New(), CountryName: "Portugal", City: "Porto"}
	assert.ErrorIs(t, repo.Create(ctx, &dup), ErrDuplicate)

	byCountry, err := repo.Find(ctx, "Portugal", "")
	require.NoError(t, err)
	assert.Len(t, byCountry, 2)

	byCity, err := repo.Find(ctx, "", "Porto")
	require.NoError(t, err)
	require.Len(t, byCity, 1)
	assert.Equal(t, porto.ID, byCity[0].ID)

	exists, err := repo.ExistsByISO(ctx, "pt")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, f.store.Bookings().CreateWithReservation(ctx, f.booking(1)))
	require.NoError(t, repo.Delete(ctx, f.destination.ID))

	_, err = f.store.Packages().GetByID(ctx, f.pkg.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	bookings, err := f.store.Bookings().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}
