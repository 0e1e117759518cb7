package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceQuote is the result of converting an amount between currencies.
type PriceQuote struct {
	FromCurrency    string          `json:"from_currency"`
	ToCurrency      string          `json:"to_currency"`
	Rate            decimal.Decimal `json:"rate"`
	AmountBase      decimal.Decimal `json:"amount_base"`
	AmountConverted decimal.Decimal `json:"amount_converted"`
	Timestamp       time.Time       `json:"timestamp"`
}

type WeatherWindow struct {
	StartDate                       time.Time `json:"start_date"`
	EndDate                         time.Time `json:"end_date"`
	AverageMaxTempC                 float64   `json:"average_max_temp_c"`
	AverageMinTempC                 float64   `json:"average_min_temp_c"`
	AveragePrecipitationProbability float64   `json:"average_precipitation_probability"`
	Recommendation                  string    `json:"recommendation"`
}

type Holiday struct {
	Date      time.Time `json:"date"`
	LocalName string    `json:"local_name"`
	Name      string    `json:"name"`
}

type CountrySnapshot struct {
	Name               string  `json:"name"`
	Region             string  `json:"region"`
	PrimaryLanguage    string  `json:"primary_language"`
	CurrencyCode       string  `json:"currency_code"`
	PopulationMillions float64 `json:"population_millions"`
	FlagURL            string  `json:"flag_url"`
}

// CountryImport is one row of the bulk country feed used to seed destinations.
type CountryImport struct {
	Name               string
	IsoCode            string
	Capital            string
	CurrencyCode       string
	Latitude           float64
	Longitude          float64
	Region             string
	FlagURL            string
	PrimaryLanguage    string
	PopulationMillions float64
}
