package booth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/campmarket/campmarket-api/internal/domain/ledger"
	"github.com/campmarket/campmarket-api/internal/domain/user"
	"github.com/campmarket/campmarket-api/internal/perm"
)

type fakeBoothRepo struct {
	booths      map[uuid.UUID]*Booth
	redemptions map[uuid.UUID]*Redemption
}

func newFakeBoothRepo() *fakeBoothRepo {
	return &fakeBoothRepo{
		booths:      make(map[uuid.UUID]*Booth),
		redemptions: make(map[uuid.UUID]*Redemption),
	}
}

func (f *fakeBoothRepo) Create(_ context.Context, b *Booth) error {
	f.booths[b.ID] = b
	return nil
}

func (f *fakeBoothRepo) GetByID(_ context.Context, id uuid.UUID) (*Booth, error) {
	return f.booths[id], nil
}

func (f *fakeBoothRepo) List(_ context.Context) ([]*Booth, error) {
	out := []*Booth{}
	for _, b := range f.booths {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBoothRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	b, ok := f.booths[id]
	if !ok {
		return ErrNotFound
	}
	b.IsActive = active
	return nil
}

func (f *fakeBoothRepo) InsertRedemption(_ context.Context, red *Redemption) error {
	for _, existing := range f.redemptions {
		if existing.BoothID == red.BoothID && existing.UserID == red.UserID {
			return ErrAlreadyRedeemed
		}
	}
	f.redemptions[red.ID] = red
	return nil
}

func (f *fakeBoothRepo) DeleteRedemption(_ context.Context, id uuid.UUID) error {
	delete(f.redemptions, id)
	return nil
}

func (f *fakeBoothRepo) DeleteAll(_ context.Context) error {
	f.redemptions = make(map[uuid.UUID]*Redemption)
	return nil
}

// fakeRewardRepo implements ledger.Repository; only CreateRedemption
// matters here, optionally failing a set number of times.
type fakeRewardRepo struct {
	failures int
	written  []uuid.UUID
}

func (f *fakeRewardRepo) CreateRedemption(_ context.Context, userID uuid.UUID, amount int64, _ string, txID uuid.UUID) (*ledger.Record, error) {
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("connection reset by peer")
	}
	f.written = append(f.written, txID)
	return &ledger.Record{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      ledger.TypeQRRedeem,
		Amount:    amount,
		Balance:   amount,
		CreatedAt: time.Now(),
	}, nil
}

func (f *fakeRewardRepo) ListByUser(_ context.Context, _ uuid.UUID, _ int) ([]*ledger.Record, error) {
	return nil, nil
}

func (f *fakeRewardRepo) ListAll(_ context.Context, _ int) ([]*ledger.Record, error) {
	return nil, nil
}

func (f *fakeRewardRepo) CreateAdjustment(_ context.Context, _ uuid.UUID, _ int64, _, _ string) (*ledger.Record, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRewardRepo) CreateTransfer(_ context.Context, _, _ uuid.UUID, _, _ int64, _, _, _ string) (uuid.UUID, int64, error) {
	return uuid.Nil, 0, errors.New("not implemented")
}

func (f *fakeRewardRepo) DeleteAll(_ context.Context) error { return nil }

type fakeUserDir struct {
	users map[uuid.UUID]*user.User
}

func (f *fakeUserDir) Create(_ context.Context, u *user.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserDir) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	return f.users[id], nil
}

func (f *fakeUserDir) GetByName(_ context.Context, _ string) (*user.User, error) {
	return nil, nil
}

func (f *fakeUserDir) List(_ context.Context, _, _ int) ([]*user.User, error) {
	return nil, nil
}

func (f *fakeUserDir) Count(_ context.Context) (int, error) { return len(f.users), nil }

func (f *fakeUserDir) UpdateRole(_ context.Context, _ uuid.UUID, _ perm.Role, _ []string) error {
	return nil
}

func (f *fakeUserDir) SumBalances(_ context.Context) (int64, error) { return 0, nil }

func (f *fakeUserDir) ResetBalances(_ context.Context) error { return nil }

func newRedeemFixture(t *testing.T, rewards *fakeRewardRepo) (*Service, *fakeBoothRepo, *Booth, uuid.UUID) {
	t.Helper()

	repo := newFakeBoothRepo()
	b := &Booth{ID: uuid.New(), Name: "Archery Range", Reward: 50, IsActive: true, CreatedAt: time.Now()}
	repo.booths[b.ID] = b

	participantID := uuid.New()
	users := &fakeUserDir{users: map[uuid.UUID]*user.User{
		participantID: {ID: participantID, Name: "alice", DisplayName: "Alice", IsActive: true},
	}}

	svc := NewService(repo, users, rewards, NewSigner("test-secret"), nil, nil)
	return svc, repo, b, participantID
}

func TestRedeemGrantsReward(t *testing.T) {
	rewards := &fakeRewardRepo{}
	svc, repo, b, participantID := newRedeemFixture(t, rewards)

	resp, err := svc.Redeem(context.Background(), &RedeemRequest{
		Code:   svc.signer.Encode(b.ID),
		UserID: participantID,
	})
	if err != nil {
		t.Fatalf("Redeem() error = %v", err)
	}
	if resp.Amount != 50 {
		t.Errorf("Amount = %d, want 50", resp.Amount)
	}
	if len(rewards.written) != 1 {
		t.Fatalf("reward records written = %d, want 1", len(rewards.written))
	}
	if len(repo.redemptions) != 1 {
		t.Errorf("redemptions stored = %d, want 1", len(repo.redemptions))
	}
}

func TestRedeemSecondClaimRejected(t *testing.T) {
	rewards := &fakeRewardRepo{}
	svc, _, b, participantID := newRedeemFixture(t, rewards)

	code := svc.signer.Encode(b.ID)
	if _, err := svc.Redeem(context.Background(), &RedeemRequest{Code: code, UserID: participantID}); err != nil {
		t.Fatalf("first Redeem() error = %v", err)
	}
	_, err := svc.Redeem(context.Background(), &RedeemRequest{Code: code, UserID: participantID})
	if !errors.Is(err, ErrAlreadyRedeemed) {
		t.Fatalf("second Redeem() error = %v, want ErrAlreadyRedeemed", err)
	}
	if len(rewards.written) != 1 {
		t.Errorf("reward records written = %d, want 1", len(rewards.written))
	}
}

func TestRedeemRewardFailureReleasesClaim(t *testing.T) {
	rewards := &fakeRewardRepo{failures: 1}
	svc, repo, b, participantID := newRedeemFixture(t, rewards)

	code := svc.signer.Encode(b.ID)
	_, err := svc.Redeem(context.Background(), &RedeemRequest{Code: code, UserID: participantID})
	if err == nil {
		t.Fatal("Redeem() error = nil, want reward write failure")
	}
	if errors.Is(err, ErrAlreadyRedeemed) {
		t.Fatalf("Redeem() error = %v, want the underlying write failure", err)
	}
	if len(repo.redemptions) != 0 {
		t.Fatalf("redemptions left behind = %d, want 0", len(repo.redemptions))
	}

	// The claim was rolled back, so a retry must succeed and grant points.
	resp, err := svc.Redeem(context.Background(), &RedeemRequest{Code: code, UserID: participantID})
	if err != nil {
		t.Fatalf("retry Redeem() error = %v", err)
	}
	if resp.Amount != 50 {
		t.Errorf("retry Amount = %d, want 50", resp.Amount)
	}
	if len(rewards.written) != 1 {
		t.Errorf("reward records written = %d, want 1", len(rewards.written))
	}
}

func TestRedeemInactiveBooth(t *testing.T) {
	rewards := &fakeRewardRepo{}
	svc, repo, b, participantID := newRedeemFixture(t, rewards)
	repo.booths[b.ID].IsActive = false

	_, err := svc.Redeem(context.Background(), &RedeemRequest{
		Code:   svc.signer.Encode(b.ID),
		UserID: participantID,
	})
	if !errors.Is(err, ErrInactive) {
		t.Fatalf("Redeem() error = %v, want ErrInactive", err)
	}
}
