package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/campmarket/campmarket-api/internal/perm"
)

// Session is the server-side record behind a bearer credential.
// The auth service is the only writer; everything else reads.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      perm.Role `json:"role"`
	CreatedAt time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// IsStale reports whether the session's timestamp is older than the window.
// A stale session is treated as absent.
func (s *Session) IsStale(window time.Duration) bool {
	return time.Since(s.CreatedAt) > window
}

// SessionStore persists sessions for the lifetime of the staleness window
type SessionStore interface {
	Put(ctx context.Context, s *Session, ttl time.Duration) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const sessionKeyPrefix = "session:"

// NewSessionStore returns a Redis-backed store, or an in-memory one
// when Redis is not configured.
func NewSessionStore(client *redis.Client) SessionStore {
	if client == nil {
		return newMemorySessionStore()
	}
	return &redisSessionStore{client: client}
}

type redisSessionStore struct {
	client *redis.Client
}

func (r *redisSessionStore) Put(ctx context.Context, s *Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKeyPrefix+s.ID.String(), data, ttl).Err()
}

func (r *redisSessionStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+id.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *redisSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	return r.client.Del(ctx, sessionKeyPrefix+id.String()).Err()
}

type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	expiry   map[uuid.UUID]time.Time
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{
		sessions: make(map[uuid.UUID]*Session),
		expiry:   make(map[uuid.UUID]time.Time),
	}
}

func (m *memorySessionStore) Put(ctx context.Context, s *Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *s
	m.sessions[s.ID] = &copied
	m.expiry[s.ID] = time.Now().Add(ttl)
	return nil
}

func (m *memorySessionStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	if time.Now().After(m.expiry[id]) {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (m *memorySessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.expiry, id)
	return nil
}
