package adminpanel

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Repository defines audit log data access
type Repository interface {
	InsertAudit(ctx context.Context, entry *AuditLog) error
	ListAudit(ctx context.Context, limit int) ([]*AuditLog, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates admin panel repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) InsertAudit(ctx context.Context, entry *AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, actor_id, action, entity, created_at)
		VALUES (:id, :actor_id, :action, :entity, :created_at)`
	_, err := r.db.NamedExecContext(ctx, query, entry)
	return err
}

func (r *repository) ListAudit(ctx context.Context, limit int) ([]*AuditLog, error) {
	logs := []*AuditLog{}
	query := `SELECT * FROM audit_logs ORDER BY created_at DESC LIMIT $1`
	err := r.db.SelectContext(ctx, &logs, query, limit)
	return logs, err
}
