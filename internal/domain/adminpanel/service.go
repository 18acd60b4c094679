package adminpanel

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/campmarket/campmarket-api/internal/domain/market"
	"github.com/campmarket/campmarket-api/internal/domain/user"
	"github.com/campmarket/campmarket-api/internal/perm"
)

// MarketSource provides the current market state for the overview
type MarketSource interface {
	Status(ctx context.Context) (*market.State, error)
}

// AnnouncementCounter provides the announcement total for the overview
type AnnouncementCounter interface {
	Count(ctx context.Context) (int64, error)
}

// SnapshotInvalidator drops a user's cached permission snapshot after a
// role change so the new capabilities take effect immediately.
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID)
}

// Service handles admin panel business logic
type Service struct {
	repo          Repository
	users         user.Repository
	switches      SwitchStore
	marketSrc     MarketSource
	announcements AnnouncementCounter
	invalidator   SnapshotInvalidator
	environment   string
}

// NewService creates admin panel service
func NewService(repo Repository, users user.Repository, switches SwitchStore,
	marketSrc MarketSource, announcements AnnouncementCounter,
	invalidator SnapshotInvalidator, environment string) *Service {
	return &Service{
		repo:          repo,
		users:         users,
		switches:      switches,
		marketSrc:     marketSrc,
		announcements: announcements,
		invalidator:   invalidator,
		environment:   environment,
	}
}

// Record writes an audit log entry. Failures are logged, never
// propagated: an audit write must not fail the action it records.
func (s *Service) Record(ctx context.Context, actorID uuid.UUID, action, entity string) {
	entry := &AuditLog{
		ID:        uuid.New(),
		ActorID:   actorID,
		Action:    action,
		Entity:    entity,
		CreatedAt: time.Now(),
	}
	if err := s.repo.InsertAudit(ctx, entry); err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to write audit log")
	}
}

// Overview builds the admin dashboard summary
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalBalance, err := s.users.SumBalances(ctx)
	if err != nil {
		return nil, err
	}
	state, err := s.marketSrc.Status(ctx)
	if err != nil {
		return nil, err
	}
	announcementCount, err := s.announcements.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &Overview{
		UserCount:         int64(userCount),
		TotalBalance:      totalBalance,
		MarketOpen:        state.IsOpen,
		LastPrice:         state.LastPrice,
		AnnouncementCount: announcementCount,
		Environment:       s.environment,
	}, nil
}

// Sections derives which panel areas the caller may enter from their
// permission snapshot. Every section is listed; disallowed ones are
// flagged rather than omitted so the panel can render them disabled.
func (s *Service) Sections(snap perm.Snapshot) []Section {
	return []Section{
		{Name: "overview", Label: "Overview", Allowed: true},
		{Name: "points", Label: "Points", Allowed: snap.Has(perm.CapGivePoints)},
		{Name: "users", Label: "Users", Allowed: snap.Has(perm.CapManageUsers)},
		{Name: "market", Label: "Market", Allowed: snap.Has(perm.CapManageMarket)},
		{Name: "announcements", Label: "Announcements", Allowed: snap.Has(perm.CapCreateAnnouncement)},
		{Name: "booth", Label: "Booths", Allowed: snap.Has(perm.CapRedeemBooth)},
		{Name: "audit", Label: "Audit Log", Allowed: snap.Has(perm.CapSystemAdmin)},
		{Name: "switches", Label: "Action Switches", Allowed: snap.Has(perm.CapSystemAdmin)},
	}
}

// ListUsers returns a page of users
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*user.User, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SetRole changes a user's role and drops their cached snapshot
func (s *Service) SetRole(ctx context.Context, actorID, userID uuid.UUID, req *SetRoleRequest) error {
	if err := s.users.UpdateRole(ctx, userID, perm.Role(req.Role), req.ExtraCaps); err != nil {
		return err
	}
	s.invalidator.Invalidate(ctx, userID)
	s.Record(ctx, actorID, "user.set_role", userID.String())
	return nil
}

// Audit returns recent audit log entries, newest first
func (s *Service) Audit(ctx context.Context, limit int) ([]*AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListAudit(ctx, limit)
}

// Switches returns the state of every known action switch
func (s *Service) Switches(ctx context.Context) (map[string]bool, error) {
	return s.switches.All(ctx)
}

// SetSwitch toggles an action switch
func (s *Service) SetSwitch(ctx context.Context, actorID uuid.UUID, name string, enabled bool) error {
	if err := s.switches.Set(ctx, name, enabled); err != nil {
		return err
	}
	action := "switch.enable"
	if !enabled {
		action = "switch.disable"
	}
	s.Record(ctx, actorID, action, name)
	return nil
}
