package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/campmarket/campmarket-api/internal/domain/user"
)

// FeeProvider supplies the configured transfer fee in basis points
type FeeProvider interface {
	TransferFeeBps(ctx context.Context) (int64, error)
}

// Notifier publishes user-facing notifications for ledger events
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, message string)
}

// ListQuery captures the presentation controls of a ledger view
type ListQuery struct {
	Limit  int
	Search string
	SortBy string
	Order  string
	Merge  bool
}

// Service handles ledger business logic
type Service struct {
	repo     Repository
	users    user.Repository
	fees     FeeProvider
	notifier Notifier // may be nil
}

// NewService creates ledger service
func NewService(repo Repository, users user.Repository, fees FeeProvider, notifier Notifier) *Service {
	return &Service{repo: repo, users: users, fees: fees, notifier: notifier}
}

// List returns the caller's ledger view with filtering, sorting and
// optional transfer merging applied.
func (s *Service) List(ctx context.Context, userID uuid.UUID, q ListQuery) ([]Entry, error) {
	if q.Limit <= 0 || q.Limit > 500 {
		q.Limit = 100
	}
	records, err := s.repo.ListByUser(ctx, userID, q.Limit)
	if err != nil {
		return nil, err
	}
	return s.present(records, q), nil
}

// ListAll returns the ledger view across all users (admin surface)
func (s *Service) ListAll(ctx context.Context, q ListQuery) ([]Entry, error) {
	if q.Limit <= 0 || q.Limit > 2000 {
		q.Limit = 500
	}
	records, err := s.repo.ListAll(ctx, q.Limit)
	if err != nil {
		return nil, err
	}
	return s.present(records, q), nil
}

func (s *Service) present(records []*Record, q ListQuery) []Entry {
	entries := make([]Entry, len(records))
	for i, rec := range records {
		entries[i] = EntryFromRecord(rec)
	}
	if q.Merge {
		entries = MergeTransfers(entries)
	}
	entries = Filter(entries, q.Search)
	if q.SortBy != "" || q.Order != "" {
		entries = Sort(entries, q.SortBy, q.Order)
	}
	return entries
}

// Grant applies an administrative point adjustment
func (s *Service) Grant(ctx context.Context, req *GrantRequest, actorID uuid.UUID) (*Record, error) {
	if req.Amount == 0 {
		return nil, ErrInvalidAmount
	}
	target, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, user.ErrNotFound
	}

	actorName := ""
	if actor, err := s.users.GetByID(ctx, actorID); err == nil && actor != nil {
		actorName = actor.DisplayName
	}

	rec, err := s.repo.CreateAdjustment(ctx, req.UserID, req.Amount, req.Note, actorName)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, req.UserID, "points_received", rec.Type.Label())
	}
	return rec, nil
}

// Transfer moves points between users, applying the configured fee
func (s *Service) Transfer(ctx context.Context, senderID uuid.UUID, req *TransferRequest) (*TransferResponse, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if senderID == req.RecipientID {
		return nil, ErrSelfTransfer
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, user.ErrNotFound
	}
	recipient, err := s.users.GetByID(ctx, req.RecipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, ErrRecipientNotFound
	}

	feeBps, err := s.fees.TransferFeeBps(ctx)
	if err != nil {
		return nil, err
	}
	fee := req.Amount * feeBps / 10000

	txID, balance, err := s.repo.CreateTransfer(ctx,
		senderID, req.RecipientID, req.Amount, fee,
		sender.DisplayName, recipient.DisplayName, req.Note)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, req.RecipientID, "points_received", "Transfer from "+sender.DisplayName)
	}

	return &TransferResponse{TxID: txID, Amount: req.Amount, Fee: fee, Balance: balance}, nil
}
