package destinations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/Domenick1991/travelagency/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrCountryUnavailable = errors.New("country data unavailable")
	ErrDestinationExists  = errors.New("destination already exists for this country and city")
)

const (
	defaultImportLimit       = 5
	importedCityFallback     = "N/A"
	importedCurrencyFallback = "USD"
)

type DestinationUseCase interface {
	List(ctx context.Context) ([]domain.Destination, error)
	Find(ctx context.Context, country, city string) ([]domain.Destination, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Destination, error)
	GetByCityCountry(ctx context.Context, city, country string) (*domain.Destination, error)
	Create(ctx context.Context, input DestinationInput) (*domain.Destination, error)
	Update(ctx context.Context, id uuid.UUID, input DestinationInput) (*domain.Destination, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountrySnapshot(ctx context.Context, id uuid.UUID) (*domain.CountrySnapshot, error)
	ImportCountries(ctx context.Context) ([]domain.Destination, error)
}

type CountryDirectory interface {
	Snapshot(ctx context.Context, nameOrISO string) *domain.CountrySnapshot
	All(ctx context.Context) ([]domain.CountryImport, error)
}

// PackageCache is dropped when destinations change because cached packages
// embed their destination.
type PackageCache interface {
	InvalidatePackages(ctx context.Context) error
}

type DestinationInput struct {
	CountryName     string  `json:"country_name"`
	City            string  `json:"city"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	IsoCode         string  `json:"iso_code"`
	DefaultCurrency string  `json:"default_currency"`
}

type DestinationService struct {
	repo        repository.DestinationRepository
	countries   CountryDirectory
	cache       PackageCache
	importLimit int
	logger      *zap.Logger
}

type DestinationServiceOption func(*DestinationService)

func WithCountries(countries CountryDirectory) DestinationServiceOption {
	return func(s *DestinationService) {
		s.countries = countries
	}
}

func WithPackageCache(cache PackageCache) DestinationServiceOption {
	return func(s *DestinationService) {
		s.cache = cache
	}
}

func WithImportLimit(limit int) DestinationServiceOption {
	return func(s *DestinationService) {
		if limit > 0 {
			s.importLimit = limit
		}
	}
}

func WithLogger(logger *zap.Logger) DestinationServiceOption {
	return func(s *DestinationService) {
		s.logger = logger
	}
}

func NewDestinationService(repo repository.DestinationRepository, opts ...DestinationServiceOption) *DestinationService {
	service := &DestinationService{
		repo:        repo,
		importLimit: defaultImportLimit,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *DestinationService) List(ctx context.Context) ([]domain.Destination, error) {
	return s.repo.List(ctx)
}

func (s *DestinationService) Find(ctx context.Context, country, city string) ([]domain.Destination, error) {
	return s.repo.Find(ctx, strings.TrimSpace(country), strings.TrimSpace(city))
}

func (s *DestinationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Destination, error) {
	return mapNotFound(s.repo.GetByID(ctx, id))
}

func (s *DestinationService) GetByCityCountry(ctx context.Context, city, country string) (*domain.Destination, error) {
	return mapNotFound(s.repo.GetByCityCountry(ctx, strings.TrimSpace(city), strings.TrimSpace(country)))
}

func (s *DestinationService) Create(ctx context.Context, input DestinationInput) (*domain.Destination, error) {
	if err := normalize(&input); err != nil {
		return nil, err
	}

	dest := fromInput(uuid.New(), input)
	if err := s.repo.Create(ctx, dest); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDestinationExists
		}
		return nil, err
	}
	return dest, nil
}

func (s *DestinationService) Update(ctx context.Context, id uuid.UUID, input DestinationInput) (*domain.Destination, error) {
	if err := normalize(&input); err != nil {
		return nil, err
	}

	dest := fromInput(id, input)
	if err := s.repo.Update(ctx, dest); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, domain.ErrDestinationNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrDestinationExists
		}
		return nil, err
	}
	s.invalidate(ctx)
	return dest, nil
}

// Delete removes the destination along with its packages and their bookings.
func (s *DestinationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrDestinationNotFound
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *DestinationService) CountrySnapshot(ctx context.Context, id uuid.UUID) (*domain.CountrySnapshot, error) {
	dest, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.countries == nil {
		return nil, ErrCountryUnavailable
	}

	key := dest.IsoCode
	if key == "" {
		key = dest.CountryName
	}
	snapshot := s.countries.Snapshot(ctx, key)
	if snapshot == nil {
		return nil, ErrCountryUnavailable
	}
	return snapshot, nil
}

// ImportCountries seeds destinations from the country directory. Countries
// whose ISO code is already present are skipped; at most importLimit new
// destinations are created per call.
func (s *DestinationService) ImportCountries(ctx context.Context) ([]domain.Destination, error) {
	if s.countries == nil {
		return nil, ErrCountryUnavailable
	}
	feed, err := s.countries.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCountryUnavailable, err)
	}

	created := make([]domain.Destination, 0, s.importLimit)
	for _, country := range feed {
		if len(created) >= s.importLimit {
			break
		}
		iso := strings.ToUpper(strings.TrimSpace(country.IsoCode))
		if iso == "" {
			continue
		}
		exists, err := s.repo.ExistsByISO(ctx, iso)
		if err != nil {
			return created, fmt.Errorf("check iso %s: %w", iso, err)
		}
		if exists {
			continue
		}

		dest := &domain.Destination{
			ID:              uuid.New(),
			CountryName:     strings.TrimSpace(country.Name),
			City:            firstNonBlank(country.Capital, importedCityFallback),
			Latitude:        country.Latitude,
			Longitude:       country.Longitude,
			IsoCode:         iso,
			DefaultCurrency: strings.ToUpper(firstNonBlank(country.CurrencyCode, importedCurrencyFallback)),
		}
		if err := s.repo.Create(ctx, dest); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return created, fmt.Errorf("create destination %s: %w", iso, err)
		}
		created = append(created, *dest)
	}

	s.logger.Info("countries imported", zap.Int("created", len(created)), zap.Int("feed", len(feed)))
	return created, nil
}

func (s *DestinationService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePackages(ctx); err != nil {
		s.logger.Warn("failed to invalidate packages cache", zap.Error(err))
	}
}

func normalize(input *DestinationInput) error {
	input.CountryName = strings.TrimSpace(input.CountryName)
	input.City = strings.TrimSpace(input.City)
	input.IsoCode = strings.ToUpper(strings.TrimSpace(input.IsoCode))
	input.DefaultCurrency = strings.ToUpper(strings.TrimSpace(input.DefaultCurrency))

	switch {
	case input.CountryName == "":
		return &domain.ValidationError{Field: "country_name", Message: "is required"}
	case input.City == "":
		return &domain.ValidationError{Field: "city", Message: "is required"}
	case input.Latitude < -90 || input.Latitude > 90:
		return &domain.ValidationError{Field: "latitude", Message: "must be between -90 and 90"}
	case input.Longitude < -180 || input.Longitude > 180:
		return &domain.ValidationError{Field: "longitude", Message: "must be between -180 and 180"}
	case len(input.IsoCode) > 3:
		return &domain.ValidationError{Field: "iso_code", Message: "must be at most 3 characters"}
	case input.DefaultCurrency != "" && len(input.DefaultCurrency) != 3:
		return &domain.ValidationError{Field: "default_currency", Message: "must be a 3-letter code"}
	}
	if input.DefaultCurrency == "" {
		input.DefaultCurrency = domain.DefaultCurrency
	}
	return nil
}

func fromInput(id uuid.UUID, input DestinationInput) *domain.Destination {
	return &domain.Destination{
		ID:              id,
		CountryName:     input.CountryName,
		City:            input.City,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		IsoCode:         input.IsoCode,
		DefaultCurrency: input.DefaultCurrency,
	}
}

func firstNonBlank(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func mapNotFound(dest *domain.Destination, err error) (*domain.Destination, error) {
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrDestinationNotFound
		}
		return nil, err
	}
	return dest, nil
}

var _ DestinationUseCase = (*DestinationService)(nil)
