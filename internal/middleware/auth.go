package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/campmarket/campmarket-api/internal/perm"
	"github.com/campmarket/campmarket-api/internal/pkg/response"
	"github.com/campmarket/campmarket-api/internal/pkg/token"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	SessionIDKey contextKey = "session_id"
	RoleKey      contextKey = "role"
	SnapshotKey  contextKey = "snapshot"
)

// Identity is the resolved session behind a bearer credential
type Identity struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Role      perm.Role
}

// SessionResolver loads the session behind a credential.
// A stale or missing session resolves to (nil, nil): treated as absent.
type SessionResolver interface {
	ResolveSession(ctx context.Context, sessionID uuid.UUID) (*Identity, error)
}

// SnapshotResolver produces the permission snapshot for a user
type SnapshotResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (perm.Snapshot, error)
}

// Auth returns middleware that validates the bearer credential, applies
// the staleness window via the session resolver, and attaches the
// permission snapshot to the request context. Every guard downstream of
// one request evaluates against this single snapshot.
func Auth(tokens *token.Service, sessions SessionResolver, snapshots SnapshotResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				if err == token.ErrExpiredToken {
					response.Unauthorized(w, "Token expired")
				} else {
					response.Unauthorized(w, "Invalid token")
				}
				return
			}

			identity, err := sessions.ResolveSession(r.Context(), claims.SessionID)
			if err != nil {
				response.Unauthorized(w, "Session lookup failed")
				return
			}
			if identity == nil {
				// Stale sessions are treated as absent
				response.Unauthorized(w, "Session expired, please log in again")
				return
			}

			snap, err := snapshots.Resolve(r.Context(), identity.UserID)
			if err != nil {
				// Fail closed: an unresolvable permission fetch denies
				response.Forbidden(w, "Insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, identity.UserID)
			ctx = context.WithValue(ctx, SessionIDKey, identity.SessionID)
			ctx = context.WithValue(ctx, RoleKey, snap.Role)
			ctx = context.WithValue(ctx, SnapshotKey, snap)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetSessionID extracts session ID from context
func GetSessionID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(SessionIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetRole extracts role from context
func GetRole(ctx context.Context) perm.Role {
	if role, ok := ctx.Value(RoleKey).(perm.Role); ok {
		return role
	}
	return ""
}

// GetSnapshot extracts the permission snapshot from context
func GetSnapshot(ctx context.Context) perm.Snapshot {
	if snap, ok := ctx.Value(SnapshotKey).(perm.Snapshot); ok {
		return snap
	}
	return perm.Snapshot{}
}
