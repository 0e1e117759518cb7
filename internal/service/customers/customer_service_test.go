package customers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/Domenick1991/travelagency/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Search(ctx context.Context, term string) ([]domain.Customer, error) {
	args := m.Called(ctx, term)
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func TestCustomerService_Create(t *testing.T) {
	service := NewCustomerService(repository.NewMemoryStore().Customers(), nil)
	ctx := context.Background()

	customer, err := service.Create(ctx, CustomerInput{FirstName: " Grace ", LastName: "Hopper", Email: " Grace@Navy.MIL "})
	require.NoError(t, err)
	assert.Equal(t, "Grace", customer.FirstName)
	assert.Equal(t, "grace@navy.mil", customer.Email)

	_, err = service.Create(ctx, CustomerInput{FirstName: "Other", Email: "GRACE@navy.mil"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCustomerService_Create_Validation(t *testing.T) {
	service := NewCustomerService(repository.NewMemoryStore().Customers(), nil)

	tests := []struct {
		name  string
		input CustomerInput
		field string
	}{
		{name: "no first name", input: CustomerInput{Email: "a@b.c"}, field: "first_name"},
		{name: "no email", input: CustomerInput{FirstName: "A"}, field: "email"},
		{name: "bad email", input: CustomerInput{FirstName: "A", Email: "not-an-email"}, field: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), tt.input)

			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestCustomerService_UpdateAndDelete(t *testing.T) {
	service := NewCustomerService(repository.NewMemoryStore().Customers(), nil)
	ctx := context.Background()

	first, err := service.Create(ctx, CustomerInput{FirstName: "Alan", Email: "alan@example.com"})
	require.NoError(t, err)
	_, err = service.Create(ctx, CustomerInput{FirstName: "Kurt", Email: "kurt@example.com"})
	require.NoError(t, err)

	updated, err := service.Update(ctx, first.ID, CustomerInput{FirstName: "Alan", LastName: "Turing", Email: "alan@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Turing", updated.LastName)

	_, err = service.Update(ctx, first.ID, CustomerInput{FirstName: "Alan", Email: "kurt@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = service.Update(ctx, uuid.New(), CustomerInput{FirstName: "X", Email: "x@example.com"})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)

	require.NoError(t, service.Delete(ctx, first.ID))
	assert.ErrorIs(t, service.Delete(ctx, first.ID), domain.ErrCustomerNotFound)
	_, err = service.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestCustomerService_Delete_ReleasesHeldSeats(t *testing.T) {
	store := repository.NewMemoryStore()
	service := NewCustomerService(store.Customers(), nil)
	ctx := context.Background()

	dest := domain.Destination{ID: uuid.New(), CountryName: "Peru", City: "Cusco"}
	require.NoError(t, store.Destinations().Create(ctx, &dest))
	pkg := domain.Package{
		ID: uuid.New(), DestinationID: dest.ID, Title: "Inca Trail", BasePrice: decimal.NewFromInt(900),
		StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC),
		TotalSeats: 6, AvailableSeats: 6,
	}
	require.NoError(t, store.Packages().Create(ctx, &pkg))

	customer, err := service.Create(ctx, CustomerInput{FirstName: "Hiram", Email: "hiram@example.com"})
	require.NoError(t, err)
	require.NoError(t, store.Bookings().CreateWithReservation(ctx, &domain.Booking{
		ID: uuid.New(), PackageID: pkg.ID, CustomerID: customer.ID, PeopleCount: 4,
		TotalBasePrice: decimal.NewFromInt(3600), Status: domain.BookingStatusConfirmed,
	}))

	require.NoError(t, service.Delete(ctx, customer.ID))

	got, err := store.Packages().GetByID(ctx, pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.AvailableSeats)
	all, err := store.Bookings().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCustomerService_Search(t *testing.T) {
	service := NewCustomerService(repository.NewMemoryStore().Customers(), nil)
	ctx := context.Background()

	for _, in := range []CustomerInput{
		{FirstName: "Barbara", LastName: "Liskov", Email: "barbara@mit.edu"},
		{FirstName: "Edsger", LastName: "Dijkstra", Email: "ewd@utexas.edu"},
	} {
		_, err := service.Create(ctx, in)
		require.NoError(t, err)
	}

	found, err := service.Search(ctx, "LISK")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Barbara", found[0].FirstName)

	byEmail, err := service.Search(ctx, "utexas")
	require.NoError(t, err)
	assert.Len(t, byEmail, 1)

	everyone, err := service.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Len(t, everyone, 2)
}

func TestCustomerService_GetOrCreateByEmail(t *testing.T) {
	service := NewCustomerService(repository.NewMemoryStore().Customers(), nil)
	ctx := context.Background()

	created, err := service.GetOrCreateByEmail(ctx, " New@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", created.Email)
	assert.Equal(t, "new@example.com", created.FirstName)
	assert.Empty(t, created.LastName)

	again, err := service.GetOrCreateByEmail(ctx, "NEW@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	_, err = service.GetOrCreateByEmail(ctx, "")
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCustomerService_GetOrCreateByEmail_LostRace(t *testing.T) {
	repo := &MockCustomerRepository{}
	winner := &domain.Customer{ID: uuid.New(), Email: "race@example.com"}
	repo.On("GetByEmail", mock.Anything, "race@example.com").Return(nil, repository.ErrNotFound).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Customer")).Return(repository.ErrDuplicate).Once()
	repo.On("GetByEmail", mock.Anything, "race@example.com").Return(winner, nil).Once()
	service := NewCustomerService(repo, nil)

	got, err := service.GetOrCreateByEmail(context.Background(), "race@example.com")

	require.NoError(t, err)
	assert.Equal(t, winner.ID, got.ID)
	repo.AssertExpectations(t)
}

func TestCustomerService_GetByEmail_StorageError(t *testing.T) {
	repo := &MockCustomerRepository{}
	repo.On("GetByEmail", mock.Anything, "x@example.com").Return(nil, errors.New("connection reset"))
	service := NewCustomerService(repo, nil)

	_, err := service.GetOrCreateByEmail(context.Background(), "x@example.com")

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCustomerNotFound)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
