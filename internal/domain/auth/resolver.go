package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/campmarket/campmarket-api/internal/domain/user"
	"github.com/campmarket/campmarket-api/internal/perm"
)

const (
	snapshotKeyPrefix = "perm:snap:"
	snapshotCacheTTL  = time.Minute
)

// Resolver produces the permission snapshot for a credential.
// Resolution is two-phase: a fast cache lookup, then the user store.
// A cached entry that resolved empty while the credential is live does
// not deny; it falls through to the slow path before any denial.
type Resolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (perm.Snapshot, error)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

type resolver struct {
	users user.Repository
	redis *redis.Client // nil when Redis disabled
}

// NewResolver creates a permission resolver
func NewResolver(users user.Repository, redisClient *redis.Client) Resolver {
	return &resolver{users: users, redis: redisClient}
}

type cachedSnapshot struct {
	Role         perm.Role         `json:"role"`
	Capabilities []perm.Capability `json:"capabilities"`
}

func (r *resolver) Resolve(ctx context.Context, userID uuid.UUID) (perm.Snapshot, error) {
	if snap, ok := r.fromCache(ctx, userID); ok && !snap.IsEmpty() {
		return snap, nil
	}

	// Slow path: authoritative lookup
	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return perm.Snapshot{}, err
	}
	if u == nil {
		return perm.Snapshot{}, ErrSessionNotFound
	}
	if !u.IsActive {
		return perm.Snapshot{}, user.ErrInactive
	}

	snap := u.Snapshot()
	r.toCache(ctx, userID, snap)
	return snap, nil
}

func (r *resolver) Invalidate(ctx context.Context, userID uuid.UUID) {
	if r.redis == nil {
		return
	}
	if err := r.redis.Del(ctx, snapshotKeyPrefix+userID.String()).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to invalidate permission cache")
	}
}

func (r *resolver) fromCache(ctx context.Context, userID uuid.UUID) (perm.Snapshot, bool) {
	if r.redis == nil {
		return perm.Snapshot{}, false
	}
	data, err := r.redis.Get(ctx, snapshotKeyPrefix+userID.String()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("Permission cache read failed")
		}
		return perm.Snapshot{}, false
	}
	var c cachedSnapshot
	if err := json.Unmarshal(data, &c); err != nil {
		return perm.Snapshot{}, false
	}
	return perm.Snapshot{Role: c.Role, Capabilities: c.Capabilities}, true
}

func (r *resolver) toCache(ctx context.Context, userID uuid.UUID, snap perm.Snapshot) {
	if r.redis == nil {
		return
	}
	data, err := json.Marshal(cachedSnapshot{Role: snap.Role, Capabilities: snap.Capabilities})
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, snapshotKeyPrefix+userID.String(), data, snapshotCacheTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("Permission cache write failed")
	}
}
