package booth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines booth data access
type Repository interface {
	Create(ctx context.Context, b *Booth) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booth, error)
	List(ctx context.Context) ([]*Booth, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	InsertRedemption(ctx context.Context, r *Redemption) error
	DeleteRedemption(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates booth repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Booth) error {
	query := `
		INSERT INTO booths (id, name, reward, is_active, created_at)
		VALUES (:id, :name, :reward, :is_active, :created_at)`
	_, err := r.db.NamedExecContext(ctx, query, b)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booth, error) {
	var b Booth
	err := r.db.GetContext(ctx, &b, `SELECT * FROM booths WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) List(ctx context.Context) ([]*Booth, error) {
	booths := []*Booth{}
	err := r.db.SelectContext(ctx, &booths, `SELECT * FROM booths ORDER BY created_at DESC`)
	return booths, err
}

func (r *repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE booths SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertRedemption records a claim. The unique constraint on
// (booth_id, user_id) enforces one redemption per booth per user.
func (r *repository) InsertRedemption(ctx context.Context, red *Redemption) error {
	query := `
		INSERT INTO booth_redemptions (id, booth_id, user_id, created_at)
		VALUES (:id, :booth_id, :user_id, :created_at)`
	_, err := r.db.NamedExecContext(ctx, query, red)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyRedeemed
		}
		return err
	}
	return nil
}

// DeleteRedemption releases a claim so it can be retried. Used to roll
// back a redemption whose reward could not be written.
func (r *repository) DeleteRedemption(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM booth_redemptions WHERE id = $1`, id)
	return err
}

func (r *repository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM booth_redemptions`)
	return err
}
