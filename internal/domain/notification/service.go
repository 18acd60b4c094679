package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service handles notification business logic. Notify and Broadcast are
// fire-and-forget: callers never fail their own operation because a
// notification could not be written.
type Service struct {
	repo Repository
	ttl  time.Duration
}

// NewService creates notification service
func NewService(repo Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &Service{repo: repo, ttl: ttl}
}

// Notify creates a notification for a single user
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, kind, message string) {
	n := &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create notification")
	}
}

// Broadcast creates a notification for every active user
func (s *Service) Broadcast(ctx context.Context, kind, message string) {
	if err := s.repo.CreateForAll(ctx, kind, message, time.Now().Add(s.ttl)); err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("Failed to broadcast notification")
	}
}

// List returns the user's unexpired notifications, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit int) ([]*Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

// CountUnread returns the user's unread badge count
func (s *Service) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead marks a single notification read
func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, id)
}

// MarkAllRead marks all of the user's notifications read
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}
