package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrBookingCancelled is returned when a status change targets a cancelled booking.
var ErrBookingCancelled = errors.New("booking is cancelled")

type BookingRepository interface {
	// CreateWithReservation takes booking.PeopleCount seats from the package and
	// inserts the booking in one transaction. Either both happen or neither does.
	CreateWithReservation(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	ListByCustomerEmail(ctx context.Context, email string) ([]domain.Booking, error)
	CountBookedSeats(ctx context.Context, packageID uuid.UUID) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (*domain.Booking, error)
	// Cancel marks the booking cancelled and gives its seats back. The bool is
	// false when the booking was already cancelled.
	Cancel(ctx context.Context, id uuid.UUID) (*domain.Booking, bool, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const selectBookings = `SELECT b.id, b.package_id, b.customer_id, b.people_count, b.total_base_price, b.status, b.created_at, b.updated_at, ` +
	packageColumns + `, ` + customerColumns + `
	FROM bookings b
	JOIN packages p ON p.id = b.package_id
	JOIN destinations d ON d.id = p.destination_id
	JOIN customers c ON c.id = b.customer_id`

func bookingDest(b *domain.Booking) []any {
	b.Package = &domain.Package{}
	b.Customer = &domain.Customer{}
	dest := []any{&b.ID, &b.PackageID, &b.CustomerID, &b.PeopleCount, &b.TotalBasePrice, &b.Status, &b.CreatedAt, &b.UpdatedAt}
	dest = append(dest, packageDest(b.Package)...)
	return append(dest, customerDest(b.Customer)...)
}

func (r *PGBookingRepository) CreateWithReservation(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := reserveSeats(ctx, tx, booking.PackageID, booking.PeopleCount); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `INSERT INTO bookings (id, package_id, customer_id, people_count, total_base_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		booking.ID, booking.PackageID, booking.CustomerID, booking.PeopleCount, booking.TotalBasePrice, booking.Status, booking.CreatedAt, booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.QueryRow(ctx, selectBookings+` WHERE b.id = $1`, id).Scan(bookingDest(&b)...); err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *PGBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	return r.query(ctx, selectBookings+` ORDER BY b.created_at DESC`)
}

func (r *PGBookingRepository) ListByCustomerEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	return r.query(ctx, selectBookings+` WHERE lower(c.email) = lower($1) ORDER BY b.created_at DESC`, email)
}

func (r *PGBookingRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(bookingDest(&b)...); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) CountBookedSeats(ctx context.Context, packageID uuid.UUID) (int, error) {
	var seats int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(people_count), 0) FROM bookings WHERE package_id = $1 AND status <> $2`,
		packageID, domain.BookingStatusCancelled).Scan(&seats)
	return seats, err
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (*domain.Booking, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1 AND status <> $3`,
		id, status, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrBookingCancelled
	}
	return r.GetByID(ctx, id)
}

func (r *PGBookingRepository) Cancel(ctx context.Context, id uuid.UUID) (*domain.Booking, bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	var (
		packageID uuid.UUID
		people    int
		status    domain.BookingStatus
	)
	if err := tx.QueryRow(ctx, `SELECT package_id, people_count, status FROM bookings WHERE id = $1 FOR UPDATE`, id).
		Scan(&packageID, &people, &status); err != nil {
		return nil, false, notFound(err)
	}

	changed := status != domain.BookingStatusCancelled
	if !changed {
		_ = tx.Rollback(ctx)
	} else {
		if _, err := tx.Exec(ctx, `UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`, id, domain.BookingStatusCancelled); err != nil {
			return nil, false, err
		}
		if err := releaseSeats(ctx, tx, packageID, people); err != nil {
			return nil, false, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, false, err
		}
	}

	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return b, changed, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
