package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is the subset shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

const destinationColumns = `d.id, d.country_name, d.city, d.latitude, d.longitude, d.iso_code, d.default_currency, d.created_at, d.updated_at`

func destinationDest(d *domain.Destination) []any {
	return []any{&d.ID, &d.CountryName, &d.City, &d.Latitude, &d.Longitude, &d.IsoCode, &d.DefaultCurrency, &d.CreatedAt, &d.UpdatedAt}
}

const packageColumns = `p.id, p.destination_id, p.title, p.description, p.base_price, p.start_date, p.end_date, p.total_seats, p.available_seats, p.created_at, p.updated_at, ` + destinationColumns

func packageDest(p *domain.Package) []any {
	p.Destination = &domain.Destination{}
	dest := []any{&p.ID, &p.DestinationID, &p.Title, &p.Description, &p.BasePrice, &p.StartDate, &p.EndDate, &p.TotalSeats, &p.AvailableSeats, &p.CreatedAt, &p.UpdatedAt}
	return append(dest, destinationDest(p.Destination)...)
}

const customerColumns = `c.id, c.first_name, c.last_name, c.email, c.phone, c.created_at, c.updated_at`

func customerDest(c *domain.Customer) []any {
	return []any{&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt}
}

// reserveSeats decrements the live counter only when enough seats remain.
// The check and the write are one statement, so concurrent callers can never
// drive the counter below zero.
func reserveSeats(ctx context.Context, q querier, packageID uuid.UUID, count int) (int, error) {
	var remaining int
	err := q.QueryRow(ctx, `UPDATE packages SET available_seats = available_seats - $2, updated_at = now() WHERE id = $1 AND available_seats >= $2 RETURNING available_seats`, packageID, count).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	if err := q.QueryRow(ctx, `SELECT available_seats FROM packages WHERE id = $1`, packageID).Scan(&remaining); err != nil {
		return 0, notFound(err)
	}
	return 0, &SeatsError{Remaining: remaining}
}

func releaseSeats(ctx context.Context, q querier, packageID uuid.UUID, count int) error {
	cmd, err := q.Exec(ctx, `UPDATE packages SET available_seats = available_seats + $2, updated_at = now() WHERE id = $1`, packageID, count)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
