package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines notification data access
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	CreateForAll(ctx context.Context, kind, message string, expiresAt time.Time) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates notification repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, kind, message, is_read, created_at, expires_at)
		VALUES (:id, :user_id, :kind, :message, :is_read, :created_at, :expires_at)`
	_, err := r.db.NamedExecContext(ctx, query, n)
	return err
}

// CreateForAll fans a notification out to every active user in one statement
func (r *repository) CreateForAll(ctx context.Context, kind, message string, expiresAt time.Time) error {
	query := `
		INSERT INTO notifications (id, user_id, kind, message, is_read, created_at, expires_at)
		SELECT gen_random_uuid(), id, $1, $2, false, NOW(), $3
		FROM users WHERE is_active = true`
	_, err := r.db.ExecContext(ctx, query, kind, message, expiresAt)
	return err
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Notification, error) {
	notifications := []*Notification{}
	query := `
		SELECT * FROM notifications
		WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT $2`
	err := r.db.SelectContext(ctx, &notifications, query, userID, limit)
	return notifications, err
}

func (r *repository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	query := `
		SELECT COUNT(*) FROM notifications
		WHERE user_id = $1 AND is_read = false AND expires_at > NOW()`
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}

func (r *repository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`, id, userID)
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

func (r *repository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`, userID)
	return err
}

func (r *repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
