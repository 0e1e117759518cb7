package api

import (
	"fmt"
	"time"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, fmt.Errorf("invalid %s: %q", name, c.Param(name)))
		return uuid.Nil, false
	}
	return id, true
}

// parseDate reads a calendar date in domain.DateLayout. Blank is the zero time.
func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: field, Message: "must be a date in YYYY-MM-DD format"}
	}
	return t, nil
}
