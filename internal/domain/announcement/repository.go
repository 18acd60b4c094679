package announcement

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines announcement data access
type Repository interface {
	Create(ctx context.Context, a *Announcement) error
	GetByID(ctx context.Context, id uuid.UUID) (*Announcement, error)
	List(ctx context.Context, limit int) ([]*Announcement, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates announcement repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Announcement) error {
	query := `
		INSERT INTO announcements (id, title, body, author_id, author_name, pinned, created_at)
		VALUES (:id, :title, :body, :author_id, :author_name, :pinned, :created_at)`
	_, err := r.db.NamedExecContext(ctx, query, a)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Announcement, error) {
	var a Announcement
	query := `SELECT * FROM announcements WHERE id = $1`
	err := r.db.GetContext(ctx, &a, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) List(ctx context.Context, limit int) ([]*Announcement, error) {
	announcements := []*Announcement{}
	query := `
		SELECT * FROM announcements
		ORDER BY pinned DESC, created_at DESC
		LIMIT $1`
	err := r.db.SelectContext(ctx, &announcements, query, limit)
	return announcements, err
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM announcements`)
	return count, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
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

func (r *repository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM announcements`)
	return err
}
