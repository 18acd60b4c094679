package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/campmarket/campmarket-api/internal/domain/user"
	"github.com/campmarket/campmarket-api/internal/pkg/password"
	"github.com/campmarket/campmarket-api/internal/pkg/token"
)

// Service handles authentication. It is the sole writer of the session
// store; login creates a session, logout deletes it, nothing else writes.
type Service struct {
	users     user.Repository
	tokens    *token.Service
	sessions  SessionStore
	resolver  Resolver
	staleness time.Duration
}

// NewService creates auth service
func NewService(users user.Repository, tokens *token.Service, sessions SessionStore, resolver Resolver, staleness time.Duration) *Service {
	return &Service{
		users:     users,
		tokens:    tokens,
		sessions:  sessions,
		resolver:  resolver,
		staleness: staleness,
	}
}

// Login authenticates a community account and opens a session
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	u, err := s.users.GetByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if u == nil || !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, user.ErrInactive
	}

	session := &Session{
		ID:        uuid.New(),
		UserID:    u.ID,
		Role:      u.Role,
		CreatedAt: time.Now(),
		Source:    req.Source,
	}
	if err := s.sessions.Put(ctx, session, s.staleness); err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.Generate(u.ID, session.ID)
	if err != nil {
		return nil, err
	}

	snap := u.Snapshot()
	return &LoginResponse{
		AccessToken:  accessToken,
		UserID:       u.ID,
		DisplayName:  u.DisplayName,
		Role:         snap.Role,
		Capabilities: snap.Capabilities,
	}, nil
}

// Logout closes the session
func (s *Service) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return s.sessions.Delete(ctx, sessionID)
}

// ResolveSession loads the session and applies the staleness window.
// A stale or missing session is treated as absent.
func (s *Service) ResolveSession(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.IsStale(s.staleness) {
		return nil, ErrSessionStale
	}
	return session, nil
}

// Permissions resolves the caller's current snapshot
func (s *Service) Permissions(ctx context.Context, userID uuid.UUID) (*PermissionsResponse, error) {
	snap, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &PermissionsResponse{Role: snap.Role, Capabilities: snap.Capabilities}, nil
}
