package integrations

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/Domenick1991/travelagency/internal/domain"
	"go.uber.org/zap"
)

// CountryClient reads country facts from a REST Countries API.
type CountryClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewCountryClient(baseURL string, client *http.Client, logger *zap.Logger) *CountryClient {
	return &CountryClient{baseURL: baseURL, http: client, logger: nopIfNil(logger)}
}

type restCountry struct {
	Name struct {
		Common   string `json:"common"`
		Official string `json:"official"`
	} `json:"name"`
	Cca2       string              `json:"cca2"`
	Capital    []string            `json:"capital"`
	Currencies map[string]struct{} `json:"currencies"`
	Latlng     []float64           `json:"latlng"`
	Region     string              `json:"region"`
	Languages  map[string]string   `json:"languages"`
	Population int64               `json:"population"`
	Flags      struct {
		Png string `json:"png"`
		Svg string `json:"svg"`
	} `json:"flags"`
}

func (rc restCountry) name() string {
	switch {
	case rc.Name.Common != "":
		return rc.Name.Common
	case rc.Name.Official != "":
		return rc.Name.Official
	default:
		return "N/A"
	}
}

// currency is the alphabetically first currency code, for a stable result.
func (rc restCountry) currency() string {
	codes := make([]string, 0, len(rc.Currencies))
	for code := range rc.Currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	if len(codes) == 0 {
		return ""
	}
	return codes[0]
}

func (rc restCountry) language() string {
	keys := make([]string, 0, len(rc.Languages))
	for k := range rc.Languages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return ""
	}
	return rc.Languages[keys[0]]
}

func (rc restCountry) flag() string {
	if rc.Flags.Png != "" {
		return rc.Flags.Png
	}
	return rc.Flags.Svg
}

func (rc restCountry) populationMillions() float64 {
	if rc.Population <= 0 {
		return 0
	}
	return math.Round(float64(rc.Population)/1_000_000*100) / 100
}

const (
	snapshotFields = "name,region,languages,currencies,population,flags"
	importFields   = "name,cca2,capital,currencies,latlng,region,languages,population,flags"
)

// Snapshot looks a country up by ISO code (up to three letters) or by full
// name. It returns nil when the country is unknown or the API fails.
func (c *CountryClient) Snapshot(ctx context.Context, nameOrISO string) *domain.CountrySnapshot {
	key := strings.TrimSpace(nameOrISO)
	if key == "" {
		return nil
	}

	var endpoint string
	if len(key) <= 3 {
		endpoint = joinURL(c.baseURL, "/v3.1/alpha/"+url.PathEscape(key)) + "?" + url.Values{"fields": []string{snapshotFields}}.Encode()
	} else {
		endpoint = joinURL(c.baseURL, "/v3.1/name/"+url.PathEscape(key)) + "?" + url.Values{"fullText": []string{"true"}, "fields": []string{snapshotFields}}.Encode()
	}

	var items []restCountry
	if err := getJSON(ctx, c.http, endpoint, &items); err != nil {
		c.logger.Warn("country lookup failed", zap.String("country", key), zap.Error(err))
		return nil
	}
	if len(items) == 0 {
		return nil
	}

	rc := items[0]
	return &domain.CountrySnapshot{
		Name:               rc.name(),
		Region:             rc.Region,
		PrimaryLanguage:    rc.language(),
		CurrencyCode:       rc.currency(),
		PopulationMillions: rc.populationMillions(),
		FlagURL:            rc.flag(),
	}
}

// All returns every country in the feed, in feed order.
func (c *CountryClient) All(ctx context.Context) ([]domain.CountryImport, error) {
	var items []restCountry
	endpoint := joinURL(c.baseURL, "/v3.1/all") + "?" + url.Values{"fields": []string{importFields}}.Encode()
	if err := getJSON(ctx, c.http, endpoint, &items); err != nil {
		return nil, err
	}

	countries := make([]domain.CountryImport, 0, len(items))
	for _, rc := range items {
		ci := domain.CountryImport{
			Name:               rc.name(),
			IsoCode:            rc.Cca2,
			CurrencyCode:       rc.currency(),
			Region:             rc.Region,
			FlagURL:            rc.flag(),
			PrimaryLanguage:    rc.language(),
			PopulationMillions: rc.populationMillions(),
		}
		if len(rc.Capital) > 0 {
			ci.Capital = rc.Capital[0]
		}
		if len(rc.Latlng) >= 2 {
			ci.Latitude, ci.Longitude = rc.Latlng[0], rc.Latlng[1]
		}
		countries = append(countries, ci)
	}
	return countries, nil
}
