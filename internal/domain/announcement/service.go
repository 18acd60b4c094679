package announcement

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/campmarket/campmarket-api/internal/domain/user"
)

// Broadcaster publishes a notification to every active user
type Broadcaster interface {
	Broadcast(ctx context.Context, kind, message string)
}

// Auditor records administrative actions
type Auditor interface {
	Record(ctx context.Context, actorID uuid.UUID, action, entity string)
}

// Service handles announcement business logic
type Service struct {
	repo        Repository
	users       user.Repository
	broadcaster Broadcaster // may be nil
	auditor     Auditor     // may be nil
}

// NewService creates announcement service
func NewService(repo Repository, users user.Repository, broadcaster Broadcaster, auditor Auditor) *Service {
	return &Service{repo: repo, users: users, broadcaster: broadcaster, auditor: auditor}
}

// List returns recent announcements, pinned first
func (s *Service) List(ctx context.Context, limit int) ([]*Announcement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.List(ctx, limit)
}

// Count returns the total number of announcements
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Create publishes a new announcement and notifies every user
func (s *Service) Create(ctx context.Context, authorID uuid.UUID, req *CreateRequest) (*Announcement, error) {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, user.ErrNotFound
	}

	a := &Announcement{
		ID:         uuid.New(),
		Title:      req.Title,
		Body:       req.Body,
		AuthorID:   authorID,
		AuthorName: author.DisplayName,
		Pinned:     req.Pinned,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(ctx, "announcement", a.Title)
	}
	if s.auditor != nil {
		s.auditor.Record(ctx, authorID, "announcement.create", a.ID.String())
	}
	return a, nil
}

// Delete removes an announcement
func (s *Service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.auditor != nil {
		s.auditor.Record(ctx, actorID, "announcement.delete", id.String())
	}
	return nil
}
