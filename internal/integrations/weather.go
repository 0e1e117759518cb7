package integrations

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Domenick1991/travelagency/internal/domain"
	"go.uber.org/zap"
)

const (
	RecommendationGood  = "Good window"
	RecommendationMixed = "Mixed"
	RecommendationRainy = "Rainy/Unstable"
)

// WeatherClient summarizes the Open-Meteo daily forecast over a date range.
type WeatherClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewWeatherClient(baseURL string, client *http.Client, logger *zap.Logger) *WeatherClient {
	return &WeatherClient{baseURL: baseURL, http: client, logger: nopIfNil(logger)}
}

type openMeteoResponse struct {
	Daily struct {
		Time                        []string  `json:"time"`
		Temperature2mMax            []float64 `json:"temperature_2m_max"`
		Temperature2mMin            []float64 `json:"temperature_2m_min"`
		PrecipitationProbabilityMax []float64 `json:"precipitation_probability_max"`
	} `json:"daily"`
}

// Window returns nil when the forecast is unavailable or empty.
func (c *WeatherClient) Window(ctx context.Context, lat, lon float64, from, to time.Time) *domain.WeatherWindow {
	query := url.Values{
		"latitude":   []string{strconv.FormatFloat(lat, 'f', 6, 64)},
		"longitude":  []string{strconv.FormatFloat(lon, 'f', 6, 64)},
		"daily":      []string{"temperature_2m_max,temperature_2m_min,precipitation_probability_max"},
		"timezone":   []string{"auto"},
		"start_date": []string{from.Format(domain.DateLayout)},
		"end_date":   []string{to.Format(domain.DateLayout)},
	}

	var forecast openMeteoResponse
	if err := getJSON(ctx, c.http, joinURL(c.baseURL, "/v1/forecast")+"?"+query.Encode(), &forecast); err != nil {
		c.logger.Warn("weather lookup failed", zap.Float64("lat", lat), zap.Float64("lon", lon), zap.Error(err))
		return nil
	}

	daily := forecast.Daily
	if len(daily.Time) == 0 || len(daily.Temperature2mMax) == 0 || len(daily.Temperature2mMin) == 0 {
		return nil
	}

	avgMax := average(daily.Temperature2mMax)
	avgMin := average(daily.Temperature2mMin)
	avgPrecip := average(daily.PrecipitationProbabilityMax)

	return &domain.WeatherWindow{
		StartDate:                       from,
		EndDate:                         to,
		AverageMaxTempC:                 roundTo(avgMax, 1),
		AverageMinTempC:                 roundTo(avgMin, 1),
		AveragePrecipitationProbability: roundTo(avgPrecip, 0),
		Recommendation:                  Recommend(avgMax, avgPrecip),
	}
}

// Recommend grades a trip window from its average high and rain probability.
func Recommend(avgMaxTemp, avgPrecipProbability float64) string {
	switch {
	case avgPrecipProbability <= 30 && avgMaxTemp >= 18 && avgMaxTemp <= 32:
		return RecommendationGood
	case avgPrecipProbability <= 50:
		return RecommendationMixed
	default:
		return RecommendationRainy
	}
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
