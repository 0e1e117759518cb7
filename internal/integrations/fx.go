package integrations

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/Domenick1991/travelagency/internal/pricing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FXClient converts amounts with the latest rates from a Frankfurter API.
type FXClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewFXClient(baseURL string, client *http.Client, logger *zap.Logger) *FXClient {
	return &FXClient{baseURL: baseURL, http: client, logger: nopIfNil(logger)}
}

type frankfurterLatest struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// Rate returns how many units of to one unit of from buys.
func (c *FXClient) Rate(ctx context.Context, from, to string) (decimal.Decimal, bool) {
	from, to = normalizeCurrency(from), normalizeCurrency(to)
	if from == "" || to == "" {
		return decimal.Zero, false
	}
	if from == to {
		return decimal.NewFromInt(1), true
	}

	query := url.Values{"from": []string{from}, "to": []string{to}}
	var latest frankfurterLatest
	if err := getJSON(ctx, c.http, joinURL(c.baseURL, "/latest")+"?"+query.Encode(), &latest); err != nil {
		c.logger.Warn("exchange rate lookup failed", zap.String("from", from), zap.String("to", to), zap.Error(err))
		return decimal.Zero, false
	}

	rate, ok := latest.Rates[to]
	return rate, ok
}

// Convert quotes amount in currency to. It returns nil when no rate is available.
func (c *FXClient) Convert(ctx context.Context, from, to string, amount decimal.Decimal) *domain.PriceQuote {
	rate, ok := c.Rate(ctx, from, to)
	if !ok {
		return nil
	}
	return &domain.PriceQuote{
		FromCurrency:    normalizeCurrency(from),
		ToCurrency:      normalizeCurrency(to),
		Rate:            rate,
		AmountBase:      amount,
		AmountConverted: pricing.Convert(amount, rate),
		Timestamp:       time.Now().UTC(),
	}
}

func normalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
