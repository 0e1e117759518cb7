package integrations

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Domenick1991/travelagency/internal/domain"
	"go.uber.org/zap"
)

// HolidayClient reads public holidays from a Nager.Date API.
type HolidayClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewHolidayClient(baseURL string, client *http.Client, logger *zap.Logger) *HolidayClient {
	return &HolidayClient{baseURL: baseURL, http: client, logger: nopIfNil(logger)}
}

type nagerHoliday struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

// InRange returns the holidays of country iso2 between from and to inclusive,
// ordered by date. Years that cannot be fetched are skipped.
func (c *HolidayClient) InRange(ctx context.Context, iso2 string, from, to time.Time) []domain.Holiday {
	iso2 = strings.ToUpper(strings.TrimSpace(iso2))
	holidays := make([]domain.Holiday, 0)
	if iso2 == "" || to.Before(from) {
		return holidays
	}

	first, last := dateOnly(from), dateOnly(to)
	for year := first.Year(); year <= last.Year(); year++ {
		var items []nagerHoliday
		path := fmt.Sprintf("/api/v3/PublicHolidays/%d/%s", year, url.PathEscape(iso2))
		if err := getJSON(ctx, c.http, joinURL(c.baseURL, path), &items); err != nil {
			c.logger.Warn("holiday lookup failed", zap.String("country", iso2), zap.Int("year", year), zap.Error(err))
			continue
		}

		for _, item := range items {
			date, err := time.Parse(domain.DateLayout, item.Date)
			if err != nil {
				continue
			}
			if date.Before(first) || date.After(last) {
				continue
			}
			holidays = append(holidays, domain.Holiday{Date: date, LocalName: item.LocalName, Name: item.Name})
		}
	}

	sort.SliceStable(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
	return holidays
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
