package packages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/Domenick1991/travelagency/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type PackageUseCase interface {
	List(ctx context.Context, filter PackageFilter) ([]domain.Package, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Package, error)
	Details(ctx context.Context, id uuid.UUID) (*Details, error)
	Create(ctx context.Context, input PackageInput) (*domain.Package, error)
	Update(ctx context.Context, id uuid.UUID, input PackageInput) (*domain.Package, error)
	Delete(ctx context.Context, id uuid.UUID) error
	PriceQuote(ctx context.Context, id uuid.UUID, targetCurrency string) (*domain.PriceQuote, error)
	WeatherWindow(ctx context.Context, id uuid.UUID) (*domain.WeatherWindow, error)
	Holidays(ctx context.Context, id uuid.UUID) ([]domain.Holiday, error)
}

type PackageCache interface {
	GetPackages(ctx context.Context) ([]domain.Package, error)
	SetPackages(ctx context.Context, packages []domain.Package) error
	InvalidatePackages(ctx context.Context) error
}

type CurrencyConverter interface {
	Convert(ctx context.Context, from, to string, amount decimal.Decimal) *domain.PriceQuote
}

type WeatherForecaster interface {
	Window(ctx context.Context, lat, lon float64, from, to time.Time) *domain.WeatherWindow
}

type HolidayCalendar interface {
	InRange(ctx context.Context, iso2 string, from, to time.Time) []domain.Holiday
}

// PackageFilter narrows List. Zero values match everything; From and To
// select packages whose dates overlap the inclusive range.
type PackageFilter struct {
	DestinationID uuid.UUID
	From          time.Time
	To            time.Time
}

type PackageInput struct {
	DestinationID  uuid.UUID       `json:"destination_id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	BasePrice      decimal.Decimal `json:"base_price"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	AvailableSeats int             `json:"available_seats"`
}

// Details is a package with its destination and the seats left to sell.
type Details struct {
	domain.Package
	RemainingSeats int `json:"remaining_seats"`
}

type PackageService struct {
	packages     repository.PackageRepository
	destinations repository.DestinationRepository
	cache        PackageCache
	converter    CurrencyConverter
	weather      WeatherForecaster
	holidays     HolidayCalendar
	logger       *zap.Logger
	sfg          singleflight.Group
}

type PackageServiceOption func(*PackageService)

func WithCache(cache PackageCache) PackageServiceOption {
	return func(s *PackageService) {
		s.cache = cache
	}
}

func WithConverter(converter CurrencyConverter) PackageServiceOption {
	return func(s *PackageService) {
		s.converter = converter
	}
}

func WithWeather(weather WeatherForecaster) PackageServiceOption {
	return func(s *PackageService) {
		s.weather = weather
	}
}

func WithHolidays(holidays HolidayCalendar) PackageServiceOption {
	return func(s *PackageService) {
		s.holidays = holidays
	}
}

func WithLogger(logger *zap.Logger) PackageServiceOption {
	return func(s *PackageService) {
		s.logger = logger
	}
}

func NewPackageService(
	packages repository.PackageRepository,
	destinations repository.DestinationRepository,
	opts ...PackageServiceOption,
) *PackageService {
	service := &PackageService{
		packages:     packages,
		destinations: destinations,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *PackageService) List(ctx context.Context, filter PackageFilter) ([]domain.Package, error) {
	all, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Package, 0, len(all))
	for _, pkg := range all {
		if filter.DestinationID != uuid.Nil && pkg.DestinationID != filter.DestinationID {
			continue
		}
		if !filter.From.IsZero() && pkg.EndDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && pkg.StartDate.After(filter.To) {
			continue
		}
		result = append(result, pkg)
	}
	return result, nil
}

// listAll serves the full catalogue from cache. Concurrent misses share one
// database read.
func (s *PackageService) listAll(ctx context.Context) ([]domain.Package, error) {
	v, err, _ := s.sfg.Do("packages", func() (any, error) {
		if s.cache != nil {
			cached, err := s.cache.GetPackages(ctx)
			if err == nil && cached != nil {
				return cached, nil
			}
			if err != nil {
				s.logger.Warn("packages cache read failed", zap.Error(err))
			}
		}

		all, err := s.packages.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list packages: %w", err)
		}
		if s.cache != nil {
			if err := s.cache.SetPackages(ctx, all); err != nil {
				s.logger.Warn("packages cache write failed", zap.Error(err))
			}
		}
		return all, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Package), nil
}

func (s *PackageService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Package, error) {
	pkg, err := s.packages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrPackageNotFound
		}
		return nil, err
	}
	return pkg, nil
}

func (s *PackageService) Details(ctx context.Context, id uuid.UUID) (*Details, error) {
	pkg, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Details{Package: *pkg, RemainingSeats: pkg.Remaining()}, nil
}

func (s *PackageService) Create(ctx context.Context, input PackageInput) (*domain.Package, error) {
	if err := s.validate(ctx, &input); err != nil {
		return nil, err
	}

	pkg := &domain.Package{
		ID:             uuid.New(),
		DestinationID:  input.DestinationID,
		Title:          input.Title,
		Description:    input.Description,
		BasePrice:      input.BasePrice,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		TotalSeats:     input.AvailableSeats,
		AvailableSeats: input.AvailableSeats,
	}
	if err := s.packages.Create(ctx, pkg); err != nil {
		return nil, s.mapWriteError(err)
	}

	s.invalidate(ctx)
	return s.GetByID(ctx, pkg.ID)
}

// Update replaces the editable fields of a package. The seat figure given is
// the new live counter; the repository recomputes capacity from it and the
// seats already booked while holding the package row.
func (s *PackageService) Update(ctx context.Context, id uuid.UUID, input PackageInput) (*domain.Package, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &input); err != nil {
		return nil, err
	}

	pkg := &domain.Package{
		ID:             id,
		DestinationID:  input.DestinationID,
		Title:          input.Title,
		Description:    input.Description,
		BasePrice:      input.BasePrice,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		AvailableSeats: input.AvailableSeats,
	}
	if err := s.packages.Update(ctx, pkg); err != nil {
		return nil, s.mapWriteError(err)
	}

	s.invalidate(ctx)
	return s.GetByID(ctx, id)
}

func (s *PackageService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.packages.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrPackageNotFound
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *PackageService) PriceQuote(ctx context.Context, id uuid.UUID, targetCurrency string) (*domain.PriceQuote, error) {
	pkg, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.converter == nil {
		return nil, domain.ErrConversionUnavailable
	}

	from := pkg.Currency()
	to := strings.ToUpper(strings.TrimSpace(targetCurrency))
	if to == "" {
		to = from
	}
	quote := s.converter.Convert(ctx, from, to, pkg.BasePrice)
	if quote == nil {
		return nil, domain.ErrConversionUnavailable
	}
	return quote, nil
}

// WeatherWindow returns nil without error when no forecast is available.
func (s *PackageService) WeatherWindow(ctx context.Context, id uuid.UUID) (*domain.WeatherWindow, error) {
	pkg, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.weather == nil || pkg.Destination == nil {
		return nil, nil
	}
	return s.weather.Window(ctx, pkg.Destination.Latitude, pkg.Destination.Longitude, pkg.StartDate, pkg.EndDate), nil
}

func (s *PackageService) Holidays(ctx context.Context, id uuid.UUID) ([]domain.Holiday, error) {
	pkg, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.holidays == nil || pkg.Destination == nil || pkg.Destination.IsoCode == "" {
		return []domain.Holiday{}, nil
	}
	return s.holidays.InRange(ctx, pkg.Destination.IsoCode, pkg.StartDate, pkg.EndDate), nil
}

func (s *PackageService) validate(ctx context.Context, input *PackageInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	switch {
	case input.Title == "":
		return &domain.ValidationError{Field: "title", Message: "is required"}
	case input.BasePrice.IsNegative():
		return &domain.ValidationError{Field: "base_price", Message: "must not be negative"}
	case input.AvailableSeats < 0:
		return &domain.ValidationError{Field: "available_seats", Message: "must not be negative"}
	case input.StartDate.IsZero() || input.EndDate.IsZero():
		return &domain.ValidationError{Field: "start_date", Message: "start and end dates are required"}
	case input.EndDate.Before(input.StartDate):
		return domain.ErrInvalidDateRange
	}

	if _, err := s.destinations.GetByID(ctx, input.DestinationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrDestinationNotFound
		}
		return err
	}
	return nil
}

func (s *PackageService) mapWriteError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.ErrDestinationNotFound
	}
	return err
}

func (s *PackageService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePackages(ctx); err != nil {
		s.logger.Warn("failed to invalidate packages cache", zap.Error(err))
	}
}

var _ PackageUseCase = (*PackageService)(nil)
