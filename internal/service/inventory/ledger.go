package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/Domenick1991/travelagency/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerUseCase exposes the live seat counter of each package. The counter
// is the only authority on capacity; Audit cross-checks it against the
// bookings that hold seats.
type LedgerUseCase interface {
	Remaining(ctx context.Context, packageID uuid.UUID) (int, error)
	Reserve(ctx context.Context, packageID uuid.UUID, count int) error
	Release(ctx context.Context, packageID uuid.UUID, count int) error
	Audit(ctx context.Context, packageID uuid.UUID) (*domain.SeatAudit, error)
	ReconcileSeats(ctx context.Context) ([]domain.SeatAudit, error)
}

type SeatCounter interface {
	CountBookedSeats(ctx context.Context, packageID uuid.UUID) (int, error)
}

type Ledger struct {
	packages repository.PackageRepository
	bookings SeatCounter
	logger   *zap.Logger
}

func NewLedger(packages repository.PackageRepository, bookings SeatCounter, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{packages: packages, bookings: bookings, logger: logger}
}

// Remaining is zero for unknown packages.
func (l *Ledger) Remaining(ctx context.Context, packageID uuid.UUID) (int, error) {
	pkg, err := l.packages.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return pkg.Remaining(), nil
}

func (l *Ledger) Reserve(ctx context.Context, packageID uuid.UUID, count int) error {
	if count <= 0 {
		return domain.ErrInvalidQuantity
	}
	if _, err := l.packages.ReserveSeats(ctx, packageID, count); err != nil {
		return MapSeatError(err, packageID, "", count)
	}
	return nil
}

func (l *Ledger) Release(ctx context.Context, packageID uuid.UUID, count int) error {
	if count <= 0 {
		return domain.ErrInvalidQuantity
	}
	if err := l.packages.ReleaseSeats(ctx, packageID, count); err != nil {
		return MapSeatError(err, packageID, "", count)
	}
	return nil
}

func (l *Ledger) Audit(ctx context.Context, packageID uuid.UUID) (*domain.SeatAudit, error) {
	pkg, err := l.packages.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrPackageNotFound
		}
		return nil, err
	}
	audit, err := l.audit(ctx, *pkg)
	if err != nil {
		return nil, err
	}
	return &audit, nil
}

// ReconcileSeats audits every package and logs the ones whose counter drifted.
func (l *Ledger) ReconcileSeats(ctx context.Context) ([]domain.SeatAudit, error) {
	packages, err := l.packages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}

	audits := make([]domain.SeatAudit, 0, len(packages))
	for _, pkg := range packages {
		if err := ctx.Err(); err != nil {
			return audits, err
		}
		audit, err := l.audit(ctx, pkg)
		if err != nil {
			return audits, err
		}
		if !audit.Consistent() {
			l.logger.Warn("seat counter drift",
				zap.String("package_id", pkg.ID.String()),
				zap.String("title", pkg.Title),
				zap.Int("total", audit.TotalSeats),
				zap.Int("booked", audit.BookedSeats),
				zap.Int("available", audit.AvailableSeats),
				zap.Int("drift", audit.Drift()),
			)
		}
		audits = append(audits, audit)
	}
	return audits, nil
}

func (l *Ledger) audit(ctx context.Context, pkg domain.Package) (domain.SeatAudit, error) {
	booked, err := l.bookings.CountBookedSeats(ctx, pkg.ID)
	if err != nil {
		return domain.SeatAudit{}, fmt.Errorf("count booked seats: %w", err)
	}
	return domain.SeatAudit{
		PackageID:      pkg.ID,
		Title:          pkg.Title,
		TotalSeats:     pkg.TotalSeats,
		AvailableSeats: pkg.AvailableSeats,
		BookedSeats:    booked,
	}, nil
}

// MapSeatError turns repository seat errors into domain errors.
func MapSeatError(err error, packageID uuid.UUID, title string, requested int) error {
	var seatsErr *repository.SeatsError
	switch {
	case errors.As(err, &seatsErr):
		return &domain.CapacityError{PackageID: packageID, Title: title, Requested: requested, Remaining: seatsErr.Remaining}
	case errors.Is(err, repository.ErrNotFound):
		return domain.ErrPackageNotFound
	default:
		return err
	}
}

var _ LedgerUseCase = (*Ledger)(nil)
