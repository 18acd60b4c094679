package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/campmarket/campmarket-api/internal/domain/user"
	"github.com/campmarket/campmarket-api/internal/perm"
	"github.com/campmarket/campmarket-api/internal/pkg/password"
	"github.com/campmarket/campmarket-api/internal/pkg/token"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*user.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	f.users[u.ID] = u
	return nil
}
func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return f.users[id], nil
}
func (f *fakeUserRepo) GetByName(ctx context.Context, name string) (*user.User, error) {
	for _, u := range f.users {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, nil
}
func (f *fakeUserRepo) List(ctx context.Context, limit, offset int) ([]*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Count(ctx context.Context) (int, error) { return len(f.users), nil }
func (f *fakeUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role perm.Role, extraCaps []string) error {
	return nil
}
func (f *fakeUserRepo) SumBalances(ctx context.Context) (int64, error) { return 0, nil }
func (f *fakeUserRepo) ResetBalances(ctx context.Context) error       { return nil }

type fakeResolver struct {
	snap perm.Snapshot
	err  error
}

func (f *fakeResolver) Resolve(ctx context.Context, userID uuid.UUID) (perm.Snapshot, error) {
	return f.snap, f.err
}
func (f *fakeResolver) Invalidate(ctx context.Context, userID uuid.UUID) {}

func testUser(t *testing.T, name, pass string, role perm.Role) *user.User {
	t.Helper()
	hash, err := password.Hash(pass)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return &user.User{
		ID:           uuid.New(),
		Name:         name,
		DisplayName:  name,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func newTestService(t *testing.T, users *fakeUserRepo, staleness time.Duration) *Service {
	t.Helper()
	tokens := token.NewService("test-secret", staleness)
	store := NewSessionStore(nil)
	return NewService(users, tokens, store, &fakeResolver{}, staleness)
}

func TestLoginSuccess(t *testing.T) {
	u := testUser(t, "alice", "hunter22", perm.RolePointManager)
	svc := newTestService(t, newFakeUserRepo(u), 24*time.Hour)

	resp, err := svc.Login(context.Background(), &LoginRequest{Name: "alice", Password: "hunter22"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("no access token issued")
	}
	if resp.UserID != u.ID {
		t.Errorf("user id = %s, want %s", resp.UserID, u.ID)
	}
	if resp.Role != perm.RolePointManager {
		t.Errorf("role = %s, want point_manager", resp.Role)
	}

	found := false
	for _, c := range resp.Capabilities {
		if c == perm.CapGivePoints {
			found = true
		}
	}
	if !found {
		t.Error("login response is missing the role's capabilities")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	u := testUser(t, "alice", "hunter22", perm.RoleParticipant)
	svc := newTestService(t, newFakeUserRepo(u), 24*time.Hour)

	_, err := svc.Login(context.Background(), &LoginRequest{Name: "alice", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(t, newFakeUserRepo(), 24*time.Hour)

	_, err := svc.Login(context.Background(), &LoginRequest{Name: "ghost", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	u := testUser(t, "alice", "hunter22", perm.RoleParticipant)
	u.IsActive = false
	svc := newTestService(t, newFakeUserRepo(u), 24*time.Hour)

	_, err := svc.Login(context.Background(), &LoginRequest{Name: "alice", Password: "hunter22"})
	if !errors.Is(err, user.ErrInactive) {
		t.Fatalf("err = %v, want ErrInactive", err)
	}
}

func TestResolveSessionAppliesStalenessWindow(t *testing.T) {
	u := testUser(t, "alice", "hunter22", perm.RoleParticipant)
	users := newFakeUserRepo(u)
	tokens := token.NewService("test-secret", time.Hour)
	store := NewSessionStore(nil)
	svc := NewService(users, tokens, store, &fakeResolver{}, time.Hour)

	stale := &Session{
		ID:        uuid.New(),
		UserID:    u.ID,
		Role:      u.Role,
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	if err := store.Put(context.Background(), stale, 24*time.Hour); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	_, err := svc.ResolveSession(context.Background(), stale.ID)
	if !errors.Is(err, ErrSessionStale) {
		t.Fatalf("err = %v, want ErrSessionStale", err)
	}

	fresh := &Session{
		ID:        uuid.New(),
		UserID:    u.ID,
		Role:      u.Role,
		CreatedAt: time.Now(),
	}
	if err := store.Put(context.Background(), fresh, 24*time.Hour); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	got, err := svc.ResolveSession(context.Background(), fresh.ID)
	if err != nil {
		t.Fatalf("fresh session did not resolve: %v", err)
	}
	if got.UserID != u.ID {
		t.Errorf("resolved user = %s, want %s", got.UserID, u.ID)
	}
}

func TestLogoutDeletesSession(t *testing.T) {
	u := testUser(t, "alice", "hunter22", perm.RoleParticipant)
	svc := newTestService(t, newFakeUserRepo(u), 24*time.Hour)

	resp, err := svc.Login(context.Background(), &LoginRequest{Name: "alice", Password: "hunter22"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims, err := token.NewService("test-secret", 24*time.Hour).Validate(resp.AccessToken)
	if err != nil {
		t.Fatalf("token did not validate: %v", err)
	}

	if err := svc.Logout(context.Background(), claims.SessionID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	_, err = svc.ResolveSession(context.Background(), claims.SessionID)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}
