package api

import (
	"net/http"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/Domenick1991/travelagency/internal/service/inventory"
	"github.com/Domenick1991/travelagency/internal/service/packages"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PackageHandler struct {
	service packages.PackageUseCase
	ledger  inventory.LedgerUseCase
}

type packageRequest struct {
	DestinationID  uuid.UUID       `json:"destination_id" binding:"required"`
	Title          string          `json:"title" binding:"required"`
	Description    string          `json:"description"`
	BasePrice      decimal.Decimal `json:"base_price"`
	StartDate      string          `json:"start_date" binding:"required"`
	EndDate        string          `json:"end_date" binding:"required"`
	AvailableSeats int             `json:"available_seats"`
}

type packageResponse struct {
	ID             uuid.UUID           `json:"id"`
	DestinationID  uuid.UUID           `json:"destination_id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	BasePrice      decimal.Decimal     `json:"base_price"`
	Currency       string              `json:"currency"`
	StartDate      string              `json:"start_date"`
	EndDate        string              `json:"end_date"`
	TotalSeats     int                 `json:"total_seats"`
	AvailableSeats int                 `json:"available_seats"`
	RemainingSeats int                 `json:"remaining_seats"`
	Destination    *domain.Destination `json:"destination,omitempty"`
}

func newPackageResponse(pkg domain.Package) packageResponse {
	return packageResponse{
		ID:             pkg.ID,
		DestinationID:  pkg.DestinationID,
		Title:          pkg.Title,
		Description:    pkg.Description,
		BasePrice:      pkg.BasePrice,
		Currency:       pkg.Currency(),
		StartDate:      pkg.StartDate.Format(domain.DateLayout),
		EndDate:        pkg.EndDate.Format(domain.DateLayout),
		TotalSeats:     pkg.TotalSeats,
		AvailableSeats: pkg.AvailableSeats,
		RemainingSeats: pkg.Remaining(),
		Destination:    pkg.Destination,
	}
}

func NewPackageHandler(service packages.PackageUseCase, ledger inventory.LedgerUseCase) *PackageHandler {
	return &PackageHandler{service: service, ledger: ledger}
}

func (h *PackageHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
	router.GET("/:id/remaining", h.remaining)
	router.GET("/:id/quote", h.quote)
	router.GET("/:id/weather", h.weather)
	router.GET("/:id/holidays", h.holidays)
}

// list godoc
// @Summary List packages
// @Tags packages
// @Produce json
// @Param destination_id query string false "Destination ID"
// @Param from query string false "Start of date range (YYYY-MM-DD)"
// @Param to query string false "End of date range (YYYY-MM-DD)"
// @Success 200 {array} packageResponse
// @Router /packages [get]
func (h *PackageHandler) list(c *gin.Context) {
	var filter packages.PackageFilter
	if raw := c.Query("destination_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, err)
			return
		}
		filter.DestinationID = id
	}
	var err error
	if filter.From, err = parseDate("from", c.Query("from")); err != nil {
		writeError(c, err)
		return
	}
	if filter.To, err = parseDate("to", c.Query("to")); err != nil {
		writeError(c, err)
		return
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]packageResponse, 0, len(list))
	for _, pkg := range list {
		resp = append(resp, newPackageResponse(pkg))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PackageHandler) get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	details, err := h.service.Details(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPackageResponse(details.Package))
}

func (h *PackageHandler) create(c *gin.Context) {
	input, ok := bindPackage(c)
	if !ok {
		return
	}
	pkg, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPackageResponse(*pkg))
}

func (h *PackageHandler) update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	input, ok := bindPackage(c)
	if !ok {
		return
	}
	pkg, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPackageResponse(*pkg))
}

func (h *PackageHandler) delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// remaining godoc
// @Summary Seats left on a package
// @Tags packages
// @Produce json
// @Param id path string true "Package ID"
// @Success 200 {object} map[string]int
// @Router /packages/{id}/remaining [get]
func (h *PackageHandler) remaining(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	remaining, err := h.ledger.Remaining(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"package_id": id, "remaining": remaining})
}

func (h *PackageHandler) quote(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	quote, err := h.service.PriceQuote(c.Request.Context(), id, c.Query("to"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *PackageHandler) weather(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	window, err := h.service.WeatherWindow(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if window == nil {
		c.JSON(http.StatusOK, gin.H{"available": false})
		return
	}
	c.JSON(http.StatusOK, window)
}

func (h *PackageHandler) holidays(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	holidays, err := h.service.Holidays(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, holidays)
}

func bindPackage(c *gin.Context) (packages.PackageInput, bool) {
	var req packageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return packages.PackageInput{}, false
	}

	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		writeError(c, err)
		return packages.PackageInput{}, false
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		writeError(c, err)
		return packages.PackageInput{}, false
	}

	return packages.PackageInput{
		DestinationID:  req.DestinationID,
		Title:          req.Title,
		Description:    req.Description,
		BasePrice:      req.BasePrice,
		StartDate:      start,
		EndDate:        end,
		AvailableSeats: req.AvailableSeats,
	}, true
}
