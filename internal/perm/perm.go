package perm

// Capability is a named permission unlocking one administrative action or view
type Capability string

const (
	CapGivePoints         Capability = "give_points"
	CapManageUsers        Capability = "manage_users"
	CapCreateAnnouncement Capability = "create_announcement"
	CapManageMarket       Capability = "manage_market"
	CapSystemAdmin        Capability = "system_admin"
	CapRedeemBooth        Capability = "redeem_booth"
)

// Role is a coarse label implying a default bundle of capabilities
type Role string

const (
	RoleParticipant  Role = "participant"
	RolePointManager Role = "point_manager"
	RoleAnnouncer    Role = "announcer"
	RoleAdmin        Role = "admin"
)

// RoleCapabilities maps roles to their default capabilities
var RoleCapabilities = map[Role][]Capability{
	RoleParticipant: {
		CapRedeemBooth,
	},
	RolePointManager: {
		CapGivePoints,
		CapRedeemBooth,
	},
	RoleAnnouncer: {
		CapCreateAnnouncement,
		CapRedeemBooth,
	},
	RoleAdmin: {
		CapGivePoints, CapManageUsers, CapCreateAnnouncement,
		CapManageMarket, CapSystemAdmin, CapRedeemBooth,
	},
}

// IsValidRole reports whether s is a known role
func IsValidRole(s string) bool {
	_, ok := RoleCapabilities[Role(s)]
	return ok
}

// IsValidCapability reports whether s is a known capability
func IsValidCapability(s string) bool {
	switch Capability(s) {
	case CapGivePoints, CapManageUsers, CapCreateAnnouncement,
		CapManageMarket, CapSystemAdmin, CapRedeemBooth:
		return true
	}
	return false
}

// Snapshot is the resolved permission state of one credential.
// Role and capabilities are checked independently; the two can disagree
// when a user carries capabilities beyond the role's defaults.
type Snapshot struct {
	Role         Role
	Capabilities []Capability
}

// Has checks capability membership
func (s Snapshot) Has(c Capability) bool {
	for _, have := range s.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

// IsEmpty reports whether nothing has been resolved yet
func (s Snapshot) IsEmpty() bool {
	return s.Role == "" && len(s.Capabilities) == 0
}

// SnapshotForRole builds a snapshot from a role's default capability set
func SnapshotForRole(role Role, extra ...Capability) Snapshot {
	defaults := RoleCapabilities[role]
	caps := make([]Capability, 0, len(defaults)+len(extra))
	caps = append(caps, defaults...)
	for _, c := range extra {
		if !(Snapshot{Capabilities: caps}).Has(c) {
			caps = append(caps, c)
		}
	}
	return Snapshot{Role: role, Capabilities: caps}
}

// Mode selects how a capability list is evaluated
type Mode string

const (
	ModeAll Mode = "all"
	ModeAny Mode = "any"
)

// Requirement describes what a guard demands. Zero-valued fields are
// unspecified and vacuously satisfied; an empty requirement always allows.
type Requirement struct {
	Capability   Capability
	Capabilities []Capability
	Mode         Mode
	Role         Role
}

// Allows is the pure decision function over (snapshot, requirement).
// Every specified part must be satisfied.
func (r Requirement) Allows(s Snapshot) bool {
	if r.Capability != "" && !s.Has(r.Capability) {
		return false
	}
	if len(r.Capabilities) > 0 {
		switch r.Mode {
		case ModeAny:
			found := false
			for _, c := range r.Capabilities {
				if s.Has(c) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default: // ModeAll
			for _, c := range r.Capabilities {
				if !s.Has(c) {
					return false
				}
			}
		}
	}
	if r.Role != "" && s.Role != r.Role {
		return false
	}
	return true
}

// IsZero reports whether the requirement specifies nothing
func (r Requirement) IsZero() bool {
	return r.Capability == "" && len(r.Capabilities) == 0 && r.Role == ""
}

// RequireCapability builds a single-capability requirement
func RequireCapability(c Capability) Requirement {
	return Requirement{Capability: c}
}

// RequireAll builds an ALL-mode requirement over a capability list
func RequireAll(caps ...Capability) Requirement {
	return Requirement{Capabilities: caps, Mode: ModeAll}
}

// RequireAny builds an ANY-mode requirement over a capability list
func RequireAny(caps ...Capability) Requirement {
	return Requirement{Capabilities: caps, Mode: ModeAny}
}

// RequireRole builds a role requirement
func RequireRole(role Role) Requirement {
	return Requirement{Role: role}
}
