package repository

import (
	"context"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PackageRepository interface {
	List(ctx context.Context) ([]domain.Package, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Package, error)
	Create(ctx context.Context, pkg *domain.Package) error
	// Update writes the editable fields and sets the live counter to
	// pkg.AvailableSeats. TotalSeats is recomputed as that counter plus the
	// seats held by bookings, under the same lock reservations take, and is
	// written back to pkg.
	Update(ctx context.Context, pkg *domain.Package) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ReserveSeats atomically takes count seats and returns what is left.
	// It fails with *SeatsError when fewer than count seats remain.
	ReserveSeats(ctx context.Context, id uuid.UUID, count int) (int, error)
	ReleaseSeats(ctx context.Context, id uuid.UUID, count int) error
}

type PGPackageRepository struct {
	db *pgxpool.Pool
}

func NewPackageRepository(db *pgxpool.Pool) PackageRepository {
	return &PGPackageRepository{db: db}
}

const selectPackages = `SELECT ` + packageColumns + ` FROM packages p JOIN destinations d ON d.id = p.destination_id`

func (r *PGPackageRepository) List(ctx context.Context) ([]domain.Package, error) {
	rows, err := r.db.Query(ctx, selectPackages+` ORDER BY p.start_date, p.title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	packages := make([]domain.Package, 0)
	for rows.Next() {
		var p domain.Package
		if err := rows.Scan(packageDest(&p)...); err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}

func (r *PGPackageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Package, error) {
	var p domain.Package
	if err := r.db.QueryRow(ctx, selectPackages+` WHERE p.id = $1`, id).Scan(packageDest(&p)...); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *PGPackageRepository) Create(ctx context.Context, pkg *domain.Package) error {
	return r.db.QueryRow(ctx, `INSERT INTO packages (id, destination_id, title, description, base_price, start_date, end_date, total_seats, available_seats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		pkg.ID, pkg.DestinationID, pkg.Title, pkg.Description, pkg.BasePrice, pkg.StartDate, pkg.EndDate, pkg.TotalSeats, pkg.AvailableSeats).
		Scan(&pkg.CreatedAt, &pkg.UpdatedAt)
}

func (r *PGPackageRepository) Update(ctx context.Context, pkg *domain.Package) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Reservations decrement this row before inserting their booking, so
	// holding it keeps the booked count stable until commit.
	var locked uuid.UUID
	if err := tx.QueryRow(ctx, `SELECT id FROM packages WHERE id = $1 FOR UPDATE`, pkg.ID).Scan(&locked); err != nil {
		return notFound(err)
	}

	var booked int
	if err := tx.QueryRow(ctx, `SELECT COALESCE(SUM(people_count), 0) FROM bookings WHERE package_id = $1 AND status <> $2`,
		pkg.ID, domain.BookingStatusCancelled).Scan(&booked); err != nil {
		return err
	}
	pkg.TotalSeats = pkg.AvailableSeats + booked

	err = tx.QueryRow(ctx, `UPDATE packages
		SET destination_id = $2, title = $3, description = $4, base_price = $5, start_date = $6, end_date = $7,
		    total_seats = $8, available_seats = $9, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		pkg.ID, pkg.DestinationID, pkg.Title, pkg.Description, pkg.BasePrice, pkg.StartDate, pkg.EndDate, pkg.TotalSeats, pkg.AvailableSeats).
		Scan(&pkg.CreatedAt, &pkg.UpdatedAt)
	if err != nil {
		return notFound(err)
	}
	return tx.Commit(ctx)
}

func (r *PGPackageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGPackageRepository) ReserveSeats(ctx context.Context, id uuid.UUID, count int) (int, error) {
	return reserveSeats(ctx, r.db, id, count)
}

func (r *PGPackageRepository) ReleaseSeats(ctx context.Context, id uuid.UUID, count int) error {
	return releaseSeats(ctx, r.db, id, count)
}

var _ PackageRepository = (*PGPackageRepository)(nil)
