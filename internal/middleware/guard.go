package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/campmarket/campmarket-api/internal/perm"
	"github.com/campmarket/campmarket-api/internal/pkg/response"
)

// SwitchChecker reports whether a named action is administratively enabled.
// It is the explicit disabled override consulted before any capability check.
type SwitchChecker interface {
	Enabled(ctx context.Context, name string) (bool, error)
}

// Guards builds capability-gated middleware over the per-request snapshot
type Guards struct {
	Snapshots SnapshotResolver
	Switches  SwitchChecker // nil means every action is enabled
}

// Require gates a subtree on a permission requirement. Denied requests
// never reach the wrapped handler. An empty snapshot with a live
// credential is re-resolved once against the slow path before denial,
// so a slow secondary authorization path never surfaces as a premature
// denial.
func (g *Guards) Require(req perm.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap, ok := g.resolve(r)
			if !ok {
				response.Forbidden(w, "Insufficient permissions")
				return
			}
			if !req.Allows(snap) {
				response.Forbidden(w, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAction gates a mutating action: the named switch is the explicit
// disabled override, checked first; a disabled switch suppresses the
// handler regardless of capability state.
func (g *Guards) RequireAction(req perm.Requirement, switchName string) func(http.Handler) http.Handler {
	capGuard := g.Require(req)
	return func(next http.Handler) http.Handler {
		guarded := capGuard(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.Switches != nil && switchName != "" {
				enabled, err := g.Switches.Enabled(r.Context(), switchName)
				if err != nil {
					// Fail closed
					log.Warn().Err(err).Str("switch", switchName).Msg("Action switch check failed")
					response.ActionDisabled(w, "Action is currently unavailable")
					return
				}
				if !enabled {
					response.ActionDisabled(w, "Action is disabled by an administrator")
					return
				}
			}
			guarded.ServeHTTP(w, r)
		})
	}
}

// resolve returns the request's snapshot, retrying an empty one against
// the authoritative path when a credential is present.
func (g *Guards) resolve(r *http.Request) (perm.Snapshot, bool) {
	snap := GetSnapshot(r.Context())
	userID := GetUserID(r.Context())

	if !snap.IsEmpty() {
		return snap, true
	}
	if userID == uuid.Nil || g.Snapshots == nil {
		return snap, !snap.IsEmpty()
	}

	resolved, err := g.Snapshots.Resolve(r.Context(), userID)
	if err != nil {
		return perm.Snapshot{}, false
	}
	return resolved, true
}
