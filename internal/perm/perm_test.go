package perm

import "testing"

func TestRequireCapabilityMembership(t *testing.T) {
	snap := Snapshot{Capabilities: []Capability{CapGivePoints, CapRedeemBooth}}

	if !RequireCapability(CapGivePoints).Allows(snap) {
		t.Fatal("expected give_points to be allowed")
	}
	if RequireCapability(CapManageMarket).Allows(snap) {
		t.Fatal("expected manage_market to be denied")
	}
	if RequireCapability(CapGivePoints).Allows(Snapshot{}) {
		t.Fatal("empty snapshot must deny any capability")
	}
}

func TestEmptyRequirementAlwaysAllows(t *testing.T) {
	var req Requirement
	if !req.Allows(Snapshot{}) {
		t.Fatal("empty requirement must allow empty snapshot")
	}
	if !req.Allows(Snapshot{Role: RoleAdmin, Capabilities: []Capability{CapSystemAdmin}}) {
		t.Fatal("empty requirement must allow any snapshot")
	}
}

func TestRequireAllNeedsSubset(t *testing.T) {
	snap := Snapshot{Capabilities: []Capability{CapGivePoints, CapManageUsers}}

	if !RequireAll(CapGivePoints, CapManageUsers).Allows(snap) {
		t.Fatal("expected ALL over present capabilities to allow")
	}
	if RequireAll(CapGivePoints, CapSystemAdmin).Allows(snap) {
		t.Fatal("expected ALL with a missing capability to deny")
	}
}

func TestRequireAnyNeedsIntersection(t *testing.T) {
	snap := Snapshot{Capabilities: []Capability{CapCreateAnnouncement}}

	if !RequireAny(CapSystemAdmin, CapCreateAnnouncement).Allows(snap) {
		t.Fatal("expected ANY with one present capability to allow")
	}
	if RequireAny(CapSystemAdmin, CapManageMarket).Allows(snap) {
		t.Fatal("expected ANY with no present capability to deny")
	}
}

func TestRoleAndCapabilityCheckedIndependently(t *testing.T) {
	// role and capability set may disagree; both specified parts must pass
	snap := Snapshot{Role: RolePointManager, Capabilities: []Capability{CapGivePoints}}

	if RequireRole(RoleAdmin).Allows(snap) {
		t.Fatal("expected admin role requirement to deny point_manager")
	}
	if !RequireRole(RolePointManager).Allows(snap) {
		t.Fatal("expected matching role requirement to allow")
	}

	both := Requirement{Capability: CapGivePoints, Role: RoleAdmin}
	if both.Allows(snap) {
		t.Fatal("combined requirement must deny when role part fails")
	}
}

func TestSnapshotForRoleDeduplicatesExtras(t *testing.T) {
	snap := SnapshotForRole(RolePointManager, CapGivePoints, CapManageMarket)

	count := 0
	for _, c := range snap.Capabilities {
		if c == CapGivePoints {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected give_points once, got %d", count)
	}
	if !snap.Has(CapManageMarket) {
		t.Fatal("expected extra capability to be present")
	}
}

func TestIsValidRoleAndCapability(t *testing.T) {
	if !IsValidRole("point_manager") || IsValidRole("superuser") {
		t.Fatal("role validation mismatch")
	}
	if !IsValidCapability("system_admin") || IsValidCapability("fly") {
		t.Fatal("capability validation mismatch")
	}
}
