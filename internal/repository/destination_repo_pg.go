package repository

import (
	"context"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DestinationRepository interface {
	List(ctx context.Context) ([]domain.Destination, error)
	// Find filters by exact country and city; an empty value matches everything.
	Find(ctx context.Context, country, city string) ([]domain.Destination, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Destination, error)
	GetByCityCountry(ctx context.Context, city, country string) (*domain.Destination, error)
	ExistsByISO(ctx context.Context, isoCode string) (bool, error)
	Create(ctx context.Context, dest *domain.Destination) error
	Update(ctx context.Context, dest *domain.Destination) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PGDestinationRepository struct {
	db *pgxpool.Pool
}

func NewDestinationRepository(db *pgxpool.Pool) DestinationRepository {
	return &PGDestinationRepository{db: db}
}

const selectDestinations = `SELECT ` + destinationColumns + ` FROM destinations d`

func (r *PGDestinationRepository) List(ctx context.Context) ([]domain.Destination, error) {
	return r.Find(ctx, "", "")
}

func (r *PGDestinationRepository) Find(ctx context.Context, country, city string) ([]domain.Destination, error) {
	rows, err := r.db.Query(ctx, selectDestinations+`
		WHERE ($1::text = '' OR d.country_name = $1::text) AND ($2::text = '' OR d.city = $2::text)
		ORDER BY d.country_name, d.city`, country, city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	destinations := make([]domain.Destination, 0)
	for rows.Next() {
		var d domain.Destination
		if err := rows.Scan(destinationDest(&d)...); err != nil {
			return nil, err
		}
		destinations = append(destinations, d)
	}
	return destinations, rows.Err()
}

func (r *PGDestinationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Destination, error) {
	var d domain.Destination
	if err := r.db.QueryRow(ctx, selectDestinations+` WHERE d.id = $1`, id).Scan(destinationDest(&d)...); err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (r *PGDestinationRepository) GetByCityCountry(ctx context.Context, city, country string) (*domain.Destination, error) {
	var d domain.Destination
	if err := r.db.QueryRow(ctx, selectDestinations+` WHERE d.city = $1 AND d.country_name = $2`, city, country).Scan(destinationDest(&d)...); err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (r *PGDestinationRepository) ExistsByISO(ctx context.Context, isoCode string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM destinations WHERE upper(iso_code) = upper($1))`, isoCode).Scan(&exists)
	return exists, err
}

func (r *PGDestinationRepository) Create(ctx context.Context, dest *domain.Destination) error {
	err := r.db.QueryRow(ctx, `INSERT INTO destinations (id, country_name, city, latitude, longitude, iso_code, default_currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		dest.ID, dest.CountryName, dest.City, dest.Latitude, dest.Longitude, dest.IsoCode, dest.DefaultCurrency).
		Scan(&dest.CreatedAt, &dest.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PGDestinationRepository) Update(ctx context.Context, dest *domain.Destination) error {
	err := r.db.QueryRow(ctx, `UPDATE destinations
		SET country_name = $2, city = $3, latitude = $4, longitude = $5, iso_code = $6, default_currency = $7, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		dest.ID, dest.CountryName, dest.City, dest.Latitude, dest.Longitude, dest.IsoCode, dest.DefaultCurrency).
		Scan(&dest.CreatedAt, &dest.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return notFound(err)
}

func (r *PGDestinationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM destinations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ DestinationRepository = (*PGDestinationRepository)(nil)
