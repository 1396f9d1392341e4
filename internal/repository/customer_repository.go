package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growflow/backend/internal/domain"
)

// CustomerFilter captures staff directory search parameters.
type CustomerFilter struct {
	Search *string
	Status *domain.CustomerStatus
	City   *string
	Limit  int
	Offset int
}

// CustomerRepository encapsulates customer persistence.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
	UpdateStatus(ctx context.Context, id string, status domain.CustomerStatus) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Customer, error)
	GetByResetToken(ctx context.Context, token string) (*domain.Customer, error)
	SetResetToken(ctx context.Context, id, token string, expires time.Time) error
	ResetPassword(ctx context.Context, id, passwordHash string) error
	List(ctx context.Context, filter CustomerFilter) ([]domain.Customer, error)
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a Postgres-backed implementation.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

const customerColumns = `id, full_name, phone, email, password_hash, city, community, landmark,
               waste_type, frequency, status, created_at, reset_token, reset_token_expires`

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	const query = `
        INSERT INTO customers (full_name, phone, email, password_hash, city, community, landmark, waste_type, frequency, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		customer.FullName,
		customer.Phone,
		customer.Email,
		customer.PasswordHash,
		customer.City,
		customer.Community,
		customer.Landmark,
		customer.WasteType,
		customer.Frequency,
		customer.Status,
	).Scan(&customer.ID, &customer.CreatedAt)
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	const query = `
        UPDATE customers
        SET full_name=$1, phone=$2, city=$3, community=$4, landmark=$5,
            waste_type=$6, frequency=$7, status=$8
        WHERE id=$9`

	cmd, err := r.pool.Exec(ctx, query,
		customer.FullName,
		customer.Phone,
		customer.City,
		customer.Community,
		customer.Landmark,
		customer.WasteType,
		customer.Frequency,
		customer.Status,
		customer.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepository) UpdateStatus(ctx context.Context, id string, status domain.CustomerStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE customers SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE phone=$1`
	return r.fetchSingle(ctx, query, phone)
}

// GetByResetToken resolves a customer by an unexpired reset token. Expired or
// unknown tokens are indistinguishable: both return pgx.ErrNoRows.
func (r *customerRepository) GetByResetToken(ctx context.Context, token string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE reset_token=$1 AND reset_token_expires > NOW()`
	return r.fetchSingle(ctx, query, token)
}

func (r *customerRepository) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE customers SET reset_token=$1, reset_token_expires=$2 WHERE id=$3`,
		token, expires, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepository) ResetPassword(ctx context.Context, id, passwordHash string) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE customers SET password_hash=$1, reset_token=NULL, reset_token_expires=NULL WHERE id=$2`,
		passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Customer, error) {
	var customer domain.Customer
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&customer.ID,
		&customer.FullName,
		&customer.Phone,
		&customer.Email,
		&customer.PasswordHash,
		&customer.City,
		&customer.Community,
		&customer.Landmark,
		&customer.WasteType,
		&customer.Frequency,
		&customer.Status,
		&customer.CreatedAt,
		&customer.ResetToken,
		&customer.ResetTokenExpires,
	); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context, filter CustomerFilter) ([]domain.Customer, error) {
	base := `SELECT ` + customerColumns + ` FROM customers`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.TrimSpace(*filter.Search) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(full_name ILIKE %s OR phone ILIKE %s OR email ILIKE %s OR city ILIKE %s OR community ILIKE %s)",
			placeholder, placeholder, placeholder, placeholder, placeholder))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.City != nil {
		args = append(args, *filter.City)
		clauses = append(clauses, fmt.Sprintf("city=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Customer
	for rows.Next() {
		var customer domain.Customer
		if err := rows.Scan(
			&customer.ID,
			&customer.FullName,
			&customer.Phone,
			&customer.Email,
			&customer.PasswordHash,
			&customer.City,
			&customer.Community,
			&customer.Landmark,
			&customer.WasteType,
			&customer.Frequency,
			&customer.Status,
			&customer.CreatedAt,
			&customer.ResetToken,
			&customer.ResetTokenExpires,
		); err != nil {
			return nil, err
		}
		result = append(result, customer)
	}
	return result, rows.Err()
}
