package repository

import (
	"context"
	"strings"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository interface {
	List(ctx context.Context) ([]domain.Customer, error)
	// Search matches term case-insensitively against email and both names.
	Search(ctx context.Context, term string) ([]domain.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PGCustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) CustomerRepository {
	return &PGCustomerRepository{db: db}
}

const selectCustomers = `SELECT ` + customerColumns + ` FROM customers c`

func (r *PGCustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	return r.query(ctx, selectCustomers+` ORDER BY c.last_name, c.first_name`)
}

func (r *PGCustomerRepository) Search(ctx context.Context, term string) ([]domain.Customer, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(term))) + "%"
	return r.query(ctx, selectCustomers+`
		WHERE lower(c.email) LIKE $1 OR lower(c.first_name) LIKE $1 OR lower(c.last_name) LIKE $1
		ORDER BY c.last_name, c.first_name`, pattern)
}

func (r *PGCustomerRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Customer, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(customerDest(&c)...); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *PGCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var c domain.Customer
	if err := r.db.QueryRow(ctx, selectCustomers+` WHERE c.id = $1`, id).Scan(customerDest(&c)...); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *PGCustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var c domain.Customer
	if err := r.db.QueryRow(ctx, selectCustomers+` WHERE lower(c.email) = lower($1)`, strings.TrimSpace(email)).Scan(customerDest(&c)...); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *PGCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	err := r.db.QueryRow(ctx, `INSERT INTO customers (id, first_name, last_name, email, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		customer.ID, customer.FirstName, customer.LastName, customer.Email, customer.Phone).
		Scan(&customer.CreatedAt, &customer.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PGCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	err := r.db.QueryRow(ctx, `UPDATE customers
		SET first_name = $2, last_name = $3, email = $4, phone = $5, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		customer.ID, customer.FirstName, customer.LastName, customer.Email, customer.Phone).
		Scan(&customer.CreatedAt, &customer.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return notFound(err)
}

// Delete removes the customer and their bookings. Seats held by those
// bookings go back to their packages in the same transaction.
func (r *PGCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `UPDATE packages p
		SET available_seats = p.available_seats + held.seats, updated_at = now()
		FROM (
			SELECT package_id, SUM(people_count) AS seats
			FROM bookings
			WHERE customer_id = $1 AND status <> 'Cancelled'
			GROUP BY package_id
		) held
		WHERE p.id = held.package_id`, id)
	if err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

var _ CustomerRepository = (*PGCustomerRepository)(nil)
