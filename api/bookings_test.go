package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/Domenick1991/travelagency/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CountBookedSeats(ctx context.Context, packageID uuid.UUID) (int, error) {
	args := m.Called(ctx, packageID)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingUseCase) ConvertTotal(ctx context.Context, bookingID uuid.UUID, targetCurrency string) (*domain.PriceQuote, error) {
	args := m.Called(ctx, bookingID, targetCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceQuote), args.Error(1)
}

func (m *MockBookingUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) List(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListByCustomerEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockLedgerUseCase struct {
	mock.Mock
}

func (m *MockLedgerUseCase) Remaining(ctx context.Context, packageID uuid.UUID) (int, error) {
	args := m.Called(ctx, packageID)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerUseCase) Reserve(ctx context.Context, packageID uuid.UUID, count int) error {
	return m.Called(ctx, packageID, count).Error(0)
}

func (m *MockLedgerUseCase) Release(ctx context.Context, packageID uuid.UUID, count int) error {
	return m.Called(ctx, packageID, count).Error(0)
}

func (m *MockLedgerUseCase) Audit(ctx context.Context, packageID uuid.UUID) (*domain.SeatAudit, error) {
	args := m.Called(ctx, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeatAudit), args.Error(1)
}

func (m *MockLedgerUseCase) ReconcileSeats(ctx context.Context) ([]domain.SeatAudit, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.SeatAudit), args.Error(1)
}

func newTestContext(method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, &MockLedgerUseCase{})

	input := booking.CreateBookingInput{CustomerID: uuid.New(), PackageID: uuid.New(), PeopleCount: 2}
	c, w := newTestContext(http.MethodPost, "/bookings", createBookingRequest{
		CustomerID: input.CustomerID, PackageID: input.PackageID, PeopleCount: 2,
	})

	created := &domain.Booking{
		ID:             uuid.New(),
		PackageID:      input.PackageID,
		CustomerID:     input.CustomerID,
		PeopleCount:    2,
		TotalBasePrice: decimal.RequireFromString("1999.90"),
		Status:         domain.BookingStatusConfirmed,
		Package:        &domain.Package{Title: "Alps", Destination: &domain.Destination{DefaultCurrency: "CHF"}},
	}
	mockService.On("CreateBooking", mock.Anything, input).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Confirmed", body["status"])
	assert.Equal(t, "1999.9", body["total_base_price"])
	assert.Equal(t, "CHF", body["currency"])
	assert.Equal(t, "Alps", body["package_title"])
	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_MissingPackage(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, &MockLedgerUseCase{})

	c, w := newTestContext(http.MethodPost, "/bookings", gin.H{"customer_id": uuid.New(), "people_count": 1})

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestBookingHandler_create_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "invalid quantity", err: domain.ErrInvalidQuantity, status: http.StatusBadRequest},
		{name: "unknown package", err: domain.ErrPackageNotFound, status: http.StatusNotFound},
		{name: "unknown customer", err: domain.ErrCustomerNotFound, status: http.StatusNotFound},
		{name: "capacity", err: &domain.CapacityError{Title: "Alps", Requested: 3, Remaining: 2}, status: http.StatusConflict},
		{name: "storage", err: errors.New("connection refused"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			mockService.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, tt.err)
			handler := NewBookingHandler(mockService, &MockLedgerUseCase{})
			c, w := newTestContext(http.MethodPost, "/bookings", gin.H{"customer_id": uuid.New(), "package_id": uuid.New(), "people_count": 3})

			handler.create(c)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestBookingHandler_create_CapacityDetails(t *testing.T) {
	mockService := &MockBookingUseCase{}
	mockService.On("CreateBooking", mock.Anything, mock.Anything).
		Return(nil, &domain.CapacityError{Title: "Alps", Requested: 3, Remaining: 2})
	handler := NewBookingHandler(mockService, &MockLedgerUseCase{})
	c, w := newTestContext(http.MethodPost, "/bookings", gin.H{"customer_id": uuid.New(), "package_id": uuid.New(), "people_count": 3})

	handler.create(c)

	body := decode(t, w)
	assert.Contains(t, body["error"], "Remaining: 2")
	details := body["details"].(map[string]any)
	assert.EqualValues(t, 2, details["remaining"])
	assert.EqualValues(t, 3, details["requested"])
}

func TestBookingHandler_list_ByEmail(t *testing.T) {
	mockService := &MockBookingUseCase{}
	mockService.On("ListByCustomerEmail", mock.Anything, "a@b.c").Return([]domain.Booking{{ID: uuid.New()}}, nil)
	handler := NewBookingHandler(mockService, &MockLedgerUseCase{})
	c, w := newTestContext(http.MethodGet, "/bookings?email=a@b.c", nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var list []bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)
	mockService.AssertNotCalled(t, "List", mock.Anything)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	id := uuid.New()
	mockService.On("CancelBooking", mock.Anything, id).Return(&domain.Booking{ID: id, Status: domain.BookingStatusCancelled}, nil)
	handler := NewBookingHandler(mockService, &MockLedgerUseCase{})
	c, w := newTestContext(http.MethodDelete, "/bookings/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Cancelled", decode(t, w)["status"])
}

func TestBookingHandler_cancel_BadID(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, &MockLedgerUseCase{})
	c, w := newTestContext(http.MethodDelete, "/bookings/nope", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	handler.cancel(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CancelBooking", mock.Anything, mock.Anything)
}

func TestBookingHandler_updateStatus_FromCancelled(t *testing.T) {
	mockService := &MockBookingUseCase{}
	id := uuid.New()
	mockService.On("UpdateStatus", mock.Anything, id, domain.BookingStatus("Paid")).Return(nil, domain.ErrInvalidStatusTransition)
	handler := NewBookingHandler(mockService, &MockLedgerUseCase{})
	c, w := newTestContext(http.MethodPut, "/bookings/"+id.String()+"/status", gin.H{"status": "Paid"})
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	handler.updateStatus(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_convert_Unavailable(t *testing.T) {
	mockService := &MockBookingUseCase{}
	id := uuid.New()
	mockService.On("ConvertTotal", mock.Anything, id, "USD").Return(nil, domain.ErrConversionUnavailable)
	handler := NewBookingHandler(mockService, &MockLedgerUseCase{})
	c, w := newTestContext(http.MethodGet, "/bookings/"+id.String()+"/convert?to=USD", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	handler.convert(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestBookingHandler_audit(t *testing.T) {
	ledger := &MockLedgerUseCase{}
	pkgID := uuid.New()
	ledger.On("Audit", mock.Anything, pkgID).Return(&domain.SeatAudit{PackageID: pkgID, TotalSeats: 10, AvailableSeats: 7, BookedSeats: 2}, nil)
	handler := NewBookingHandler(&MockBookingUseCase{}, ledger)
	c, w := newTestContext(http.MethodGet, "/bookings/audit/"+pkgID.String(), nil)
	c.Params = gin.Params{{Key: "packageId", Value: pkgID.String()}}

	handler.audit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 1, body["drift"])
	assert.Equal(t, false, body["consistent"])
}
