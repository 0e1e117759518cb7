package api

import (
	"net/http"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/Domenick1991/travelagency/internal/service/cart"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionCookie carries the cart session id.
const SessionCookie = "cart_session"

type CartHandler struct {
	service      cart.CartUseCase
	cookieMaxAge int
}

type addItemRequest struct {
	PackageID   uuid.UUID `json:"package_id" binding:"required"`
	PeopleCount int       `json:"people_count" binding:"omitempty,max=1000"`
}

type checkoutRequest struct {
	CustomerID    uuid.UUID `json:"customer_id"`
	CustomerEmail string    `json:"customer_email"`
}

type cartItemResponse struct {
	PackageID   uuid.UUID       `json:"package_id"`
	Title       string          `json:"title"`
	PeopleCount int             `json:"people_count"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type cartResponse struct {
	SessionID string             `json:"session_id"`
	Items     []cartItemResponse `json:"items"`
	Total     decimal.Decimal    `json:"total"`
}

type checkoutResponse struct {
	Customer domain.Customer   `json:"customer"`
	Bookings []bookingResponse `json:"bookings"`
	Total    decimal.Decimal   `json:"total"`
}

func newCartResponse(c *domain.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, cartItemResponse{
			PackageID:   item.PackageID,
			Title:       item.Title,
			PeopleCount: item.PeopleCount,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		})
	}
	return cartResponse{SessionID: c.SessionID, Items: items, Total: c.Total()}
}

// NewCartHandler builds the cart endpoints. cookieMaxAge is the session
// cookie lifetime in seconds.
func NewCartHandler(service cart.CartUseCase, cookieMaxAge int) *CartHandler {
	return &CartHandler{service: service, cookieMaxAge: cookieMaxAge}
}

func (h *CartHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.get)
	router.POST("/items", h.add)
	router.DELETE("/items/:packageId", h.remove)
	router.POST("/checkout", h.checkout)
}

// sessionID returns the cart session of the caller, issuing a new cookie
// when there is none.
func (h *CartHandler) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, h.cookieMaxAge, "/", "", false, true)
	return id
}

func (h *CartHandler) get(c *gin.Context) {
	current, err := h.service.Get(c.Request.Context(), h.sessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(current))
}

func (h *CartHandler) add(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	updated, err := h.service.Add(c.Request.Context(), h.sessionID(c), req.PackageID, req.PeopleCount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(updated))
}

func (h *CartHandler) remove(c *gin.Context) {
	packageID, ok := uuidParam(c, "packageId")
	if !ok {
		return
	}
	updated, err := h.service.Remove(c.Request.Context(), h.sessionID(c), packageID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(updated))
}

// checkout godoc
// @Summary Book everything in the cart
// @Description Items are booked in the order they were added. If one fails after others were booked, the response is 409 and lists the bookings that were made.
// @Tags cart
// @Accept json
// @Produce json
// @Param request body checkoutRequest true "Customer"
// @Success 201 {object} checkoutResponse
// @Failure 409 {object} errorResponse
// @Router /cart/checkout [post]
func (h *CartHandler) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.service.Checkout(c.Request.Context(), cart.CheckoutInput{
		SessionID:     h.sessionID(c),
		CustomerID:    req.CustomerID,
		CustomerEmail: req.CustomerEmail,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, checkoutResponse{
		Customer: result.Customer,
		Bookings: newBookingResponses(result.Bookings),
		Total:    result.Total,
	})
}
