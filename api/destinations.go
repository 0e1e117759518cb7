package api

import (
	"net/http"

	"github.com/Domenick1991/travelagency/internal/service/destinations"
	"github.com/gin-gonic/gin"
)

type DestinationHandler struct {
	service destinations.DestinationUseCase
}

func NewDestinationHandler(service destinations.DestinationUseCase) *DestinationHandler {
	return &DestinationHandler{service: service}
}

func (h *DestinationHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.POST("/import", h.importCountries)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
	router.GET("/:id/country", h.country)
}

// list godoc
// @Summary List destinations, optionally filtered by exact country and city
// @Tags destinations
// @Produce json
// @Param country query string false "Country name"
// @Param city query string false "City"
// @Success 200 {array} domain.Destination
// @Router /destinations [get]
func (h *DestinationHandler) list(c *gin.Context) {
	country, city := c.Query("country"), c.Query("city")
	list, err := h.service.Find(c.Request.Context(), country, city)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *DestinationHandler) get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	dest, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dest)
}

func (h *DestinationHandler) create(c *gin.Context) {
	var input destinations.DestinationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	dest, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dest)
}

func (h *DestinationHandler) update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var input destinations.DestinationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	dest, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dest)
}

func (h *DestinationHandler) delete(c *gin.Context) {
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

func (h *DestinationHandler) country(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	snapshot, err := h.service.CountrySnapshot(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *DestinationHandler) importCountries(c *gin.Context) {
	created, err := h.service.ImportCountries(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": len(created), "destinations": created})
}
