package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/campmarket/campmarket-api/internal/perm"
)

// User represents a camp participant or community account
type User struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	DisplayName  string         `db:"display_name" json:"display_name"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Role         perm.Role      `db:"role" json:"role"`
	ExtraCaps    pq.StringArray `db:"extra_caps" json:"extra_caps,omitempty"`
	Balance      int64          `db:"balance" json:"balance"`
	IsActive     bool           `db:"is_active" json:"is_active"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// Snapshot builds the user's permission snapshot from the role's default
// capability set plus any per-user extras. Role and capabilities remain
// independently checkable downstream.
func (u *User) Snapshot() perm.Snapshot {
	extras := make([]perm.Capability, 0, len(u.ExtraCaps))
	for _, c := range u.ExtraCaps {
		if perm.IsValidCapability(c) {
			extras = append(extras, perm.Capability(c))
		}
	}
	return perm.SnapshotForRole(u.Role, extras...)
}
