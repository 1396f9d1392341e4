package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growflow/backend/internal/domain"
)

// StaffUserRepository handles persistence for internal operators.
type StaffUserRepository interface {
	Create(ctx context.Context, staff *domain.StaffUser) error
	GetByID(ctx context.Context, id string) (*domain.StaffUser, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error)
	List(ctx context.Context) ([]domain.StaffUser, error)
}

type staffUserRepository struct {
	pool *pgxpool.Pool
}

// NewStaffUserRepository instantiates the repository.
func NewStaffUserRepository(pool *pgxpool.Pool) StaffUserRepository {
	return &staffUserRepository{pool: pool}
}

func (r *staffUserRepository) Create(ctx context.Context, staff *domain.StaffUser) error {
	const query = `
        INSERT INTO users (name, email, role, password_hash)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		staff.Name,
		staff.Email,
		staff.Role,
		staff.PasswordHash,
	).Scan(&staff.ID, &staff.CreatedAt)
}

func (r *staffUserRepository) GetByID(ctx context.Context, id string) (*domain.StaffUser, error) {
	const query = `
        SELECT id, name, email, role, password_hash, created_at
        FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *staffUserRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error) {
	const query = `
        SELECT id, name, email, role, password_hash, created_at
        FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *staffUserRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.StaffUser, error) {
	var staff domain.StaffUser
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&staff.ID,
		&staff.Name,
		&staff.Email,
		&staff.Role,
		&staff.PasswordHash,
		&staff.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffUserRepository) List(ctx context.Context) ([]domain.StaffUser, error) {
	const query = `
        SELECT id, name, email, role, password_hash, created_at
        FROM users ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffUser
	for rows.Next() {
		var staff domain.StaffUser
		if err := rows.Scan(
			&staff.ID,
			&staff.Name,
			&staff.Email,
			&staff.Role,
			&staff.PasswordHash,
			&staff.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, staff)
	}
	return result, rows.Err()
}
