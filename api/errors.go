package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/Domenick1991/travelagency/internal/service/cart"
	"github.com/Domenick1991/travelagency/internal/service/customers"
	"github.com/Domenick1991/travelagency/internal/service/destinations"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

type capacityDetails struct {
	PackageID string `json:"package_id"`
	Title     string `json:"title,omitempty"`
	Requested int    `json:"requested"`
	Remaining int    `json:"remaining"`
}

type partialCheckoutDetails struct {
	Committed     []domain.Booking `json:"committed"`
	FailedPackage string           `json:"failed_package_id"`
}

// writeError maps service errors onto HTTP statuses. Anything unrecognised is
// a 500 and is attached to the context for the request logger.
func writeError(c *gin.Context, err error) {
	var (
		partial    *cart.PartialCheckoutError
		capacity   *domain.CapacityError
		validation *domain.ValidationError
	)

	switch {
	case errors.As(err, &partial):
		c.JSON(http.StatusConflict, errorResponse{
			Error: err.Error(),
			Details: partialCheckoutDetails{
				Committed:     partial.Committed,
				FailedPackage: partial.Failed.PackageID.String(),
			},
		})
	case errors.As(err, &capacity):
		c.JSON(http.StatusConflict, errorResponse{
			Error: err.Error(),
			Details: capacityDetails{
				PackageID: capacity.PackageID.String(),
				Title:     capacity.Title,
				Requested: capacity.Requested,
				Remaining: capacity.Remaining,
			},
		})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Details: gin.H{"field": validation.Field}})
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidDateRange):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrPackageNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrDestinationNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInsufficientCapacity),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrCheckoutInProgress),
		errors.Is(err, domain.ErrInvalidStatusTransition),
		errors.Is(err, customers.ErrEmailTaken),
		errors.Is(err, destinations.ErrDestinationExists):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrConversionUnavailable),
		errors.Is(err, destinations.ErrCountryUnavailable):
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}
