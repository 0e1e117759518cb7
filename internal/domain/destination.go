package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCurrency is used when a destination has no currency configured.
const DefaultCurrency = "EUR"

type Destination struct {
	ID              uuid.UUID `json:"id"`
	CountryName     string    `json:"country_name"`
	City            string    `json:"city"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	IsoCode         string    `json:"iso_code"`
	DefaultCurrency string    `json:"default_currency"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
