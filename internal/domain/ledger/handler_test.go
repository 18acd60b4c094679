package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/campmarket/campmarket-api/internal/middleware"
	"github.com/campmarket/campmarket-api/internal/perm"
)

// fakeLedgerRepo serves canned records; mutations are not exercised here.
type fakeLedgerRepo struct {
	all []*Record
}

func (f *fakeLedgerRepo) ListByUser(_ context.Context, userID uuid.UUID, _ int) ([]*Record, error) {
	out := []*Record{}
	for _, rec := range f.all {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) ListAll(_ context.Context, _ int) ([]*Record, error) {
	return f.all, nil
}

func (f *fakeLedgerRepo) CreateAdjustment(_ context.Context, _ uuid.UUID, _ int64, _, _ string) (*Record, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeLedgerRepo) CreateRedemption(_ context.Context, _ uuid.UUID, _ int64, _ string, _ uuid.UUID) (*Record, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeLedgerRepo) CreateTransfer(_ context.Context, _, _ uuid.UUID, _, _ int64, _, _, _ string) (uuid.UUID, int64, error) {
	return uuid.Nil, 0, errors.New("not implemented")
}

func (f *fakeLedgerRepo) DeleteAll(_ context.Context) error { return nil }

type fakeSnapshots struct {
	snap perm.Snapshot
}

func (f *fakeSnapshots) Resolve(_ context.Context, _ uuid.UUID) (perm.Snapshot, error) {
	return f.snap, nil
}

// stubAuth injects an already-resolved identity the way the auth
// middleware does, so routes can be exercised without real tokens.
func stubAuth(userID uuid.UUID, snap perm.Snapshot) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			ctx = context.WithValue(ctx, middleware.SnapshotKey, snap)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// transferLegs builds the paired outbound/inbound records of one
// transfer between two users, as CreateTransfer writes them.
func transferLegs(senderID, recipientID uuid.UUID) []*Record {
	txID := uuid.New()
	now := time.Now()
	return []*Record{
		{
			ID:           uuid.New(),
			UserID:       senderID,
			Type:         TypeTransferOut,
			Amount:       -110,
			Balance:      890,
			Counterparty: sql.NullString{String: "Bob", Valid: true},
			TxID:         uuid.NullUUID{UUID: txID, Valid: true},
			CreatedAt:    now,
		},
		{
			ID:           uuid.New(),
			UserID:       recipientID,
			Type:         TypeTransferIn,
			Amount:       100,
			Balance:      400,
			Counterparty: sql.NullString{String: "Alice", Valid: true},
			TxID:         uuid.NullUUID{UUID: txID, Valid: true},
			CreatedAt:    now,
		},
	}
}

func decodeEntries(t *testing.T, body []byte) []Entry {
	t.Helper()
	var envelope struct {
		Success bool    `json:"success"`
		Data    []Entry `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestListAllMergesTransferPairs(t *testing.T) {
	senderID := uuid.New()
	recipientID := uuid.New()
	repo := &fakeLedgerRepo{all: transferLegs(senderID, recipientID)}
	svc := NewService(repo, nil, nil, nil)

	adminID := uuid.New()
	snap := perm.SnapshotForRole(perm.RoleAdmin)
	guards := &middleware.Guards{Snapshots: &fakeSnapshots{snap: snap}}
	router := NewHandler(svc).Routes(stubAuth(adminID, snap), guards)

	req := httptest.NewRequest(http.MethodGet, "/all?merge=transfers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	entries := decodeEntries(t, rec.Body.Bytes())
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1 merged entry", len(entries))
	}
	got := entries[0]
	if !got.Merged {
		t.Error("entry not marked merged")
	}
	if got.Counterparty != "Alice -> Bob" {
		t.Errorf("Counterparty = %q, want %q", got.Counterparty, "Alice -> Bob")
	}
	if got.Amount != 100 {
		t.Errorf("Amount = %d, want 100", got.Amount)
	}
}

func TestListAllRequiresSystemAdmin(t *testing.T) {
	repo := &fakeLedgerRepo{all: transferLegs(uuid.New(), uuid.New())}
	svc := NewService(repo, nil, nil, nil)

	callerID := uuid.New()
	snap := perm.SnapshotForRole(perm.RolePointManager)
	guards := &middleware.Guards{Snapshots: &fakeSnapshots{snap: snap}}
	router := NewHandler(svc).Routes(stubAuth(callerID, snap), guards)

	req := httptest.NewRequest(http.MethodGet, "/all", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
