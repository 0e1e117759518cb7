package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/Domenick1991/travelagency/internal/service/booking"
	"github.com/Domenick1991/travelagency/internal/service/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingHandler struct {
	service booking.BookingUseCase
	ledger  inventory.LedgerUseCase
}

type createBookingRequest struct {
	CustomerID  uuid.UUID `json:"customer_id" binding:"required"`
	PackageID   uuid.UUID `json:"package_id" binding:"required"`
	PeopleCount int       `json:"people_count" binding:"omitempty,max=1000"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type bookingResponse struct {
	ID             uuid.UUID       `json:"id"`
	PackageID      uuid.UUID       `json:"package_id"`
	PackageTitle   string          `json:"package_title,omitempty"`
	CustomerID     uuid.UUID       `json:"customer_id"`
	CustomerEmail  string          `json:"customer_email,omitempty"`
	PeopleCount    int             `json:"people_count"`
	TotalBasePrice decimal.Decimal `json:"total_base_price"`
	Currency       string          `json:"currency"`
	Status         string          `json:"status"`
	CreatedAt      string          `json:"created_at"`
}

func newBookingResponse(b domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:             b.ID,
		PackageID:      b.PackageID,
		CustomerID:     b.CustomerID,
		PeopleCount:    b.PeopleCount,
		TotalBasePrice: b.TotalBasePrice,
		Currency:       domain.DefaultCurrency,
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
	}
	if b.Package != nil {
		resp.PackageTitle = b.Package.Title
		resp.Currency = b.Package.Currency()
	}
	if b.Customer != nil {
		resp.CustomerEmail = b.Customer.Email
	}
	return resp
}

func newBookingResponses(list []domain.Booking) []bookingResponse {
	resp := make([]bookingResponse, 0, len(list))
	for _, b := range list {
		resp = append(resp, newBookingResponse(b))
	}
	return resp
}

func NewBookingHandler(service booking.BookingUseCase, ledger inventory.LedgerUseCase) *BookingHandler {
	return &BookingHandler{service: service, ledger: ledger}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/audit/:packageId", h.audit)
	router.GET("/:id", h.get)
	router.GET("/:id/convert", h.convert)
	router.PUT("/:id/status", h.updateStatus)
	router.DELETE("/:id", h.cancel)
}

// create godoc
// @Summary Book seats on a package
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body createBookingRequest true "Booking"
// @Success 201 {object} bookingResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /bookings [post]
func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		CustomerID:  req.CustomerID,
		PackageID:   req.PackageID,
		PeopleCount: req.PeopleCount,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newBookingResponse(*created))
}

func (h *BookingHandler) list(c *gin.Context) {
	var (
		list []domain.Booking
		err  error
	)
	if email := c.Query("email"); email != "" {
		list, err = h.service.ListByCustomerEmail(c.Request.Context(), email)
	} else {
		list, err = h.service.List(c.Request.Context())
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponses(list))
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(*b))
}

func (h *BookingHandler) convert(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	quote, err := h.service.ConvertTotal(c.Request.Context(), id, c.Query("to"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.service.UpdateStatus(c.Request.Context(), id, domain.BookingStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(*b))
}

// cancel godoc
// @Summary Cancel a booking
// @Description The booking is kept with status Cancelled and its seats are released. Cancelling twice is a no-op.
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} bookingResponse
// @Failure 404 {object} errorResponse
// @Router /bookings/{id} [delete]
func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	b, err := h.service.CancelBooking(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(*b))
}

func (h *BookingHandler) audit(c *gin.Context) {
	id, ok := uuidParam(c, "packageId")
	if !ok {
		return
	}
	report, err := h.ledger.Audit(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"package_id":      report.PackageID,
		"title":           report.Title,
		"total_seats":     report.TotalSeats,
		"available_seats": report.AvailableSeats,
		"booked_seats":    report.BookedSeats,
		"drift":           report.Drift(),
		"consistent":      report.Consistent(),
	})
}
