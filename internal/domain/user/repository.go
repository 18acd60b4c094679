package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campmarket/campmarket-api/internal/perm"
)

// Repository defines user data access
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByName(ctx context.Context, name string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, error)
	Count(ctx context.Context) (int, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role perm.Role, extraCaps []string) error
	SumBalances(ctx context.Context) (int64, error)
	ResetBalances(ctx context.Context) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates user repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (id, name, display_name, password_hash, role, extra_caps, balance, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Name, u.DisplayName, u.PasswordHash, u.Role, u.ExtraCaps,
		u.Balance, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT * FROM users WHERE id = $1`
	var u User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetByName(ctx context.Context, name string) (*User, error) {
	query := `SELECT * FROM users WHERE name = $1`
	var u User
	err := r.db.GetContext(ctx, &u, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]*User, error) {
	query := `
		SELECT * FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	var users []*User
	err := r.db.SelectContext(ctx, &users, query, limit, offset)
	return users, err
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	return count, err
}

func (r *repository) UpdateRole(ctx context.Context, id uuid.UUID, role perm.Role, extraCaps []string) error {
	query := `UPDATE users SET role = $2, extra_caps = $3, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, role, pq.StringArray(extraCaps))
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SumBalances(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.GetContext(ctx, &sum, `SELECT COALESCE(SUM(balance), 0) FROM users`)
	return sum, err
}

func (r *repository) ResetBalances(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET balance = 0, updated_at = NOW()`)
	return err
}
