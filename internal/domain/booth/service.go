package booth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/campmarket/campmarket-api/internal/domain/ledger"
	"github.com/campmarket/campmarket-api/internal/domain/user"
)

// Auditor records administrative actions
type Auditor interface {
	Record(ctx context.Context, actorID uuid.UUID, action, entity string)
}

// Service handles booth business logic
type Service struct {
	repo     Repository
	users    user.Repository
	rewards  ledger.Repository
	signer   *Signer
	notifier ledger.Notifier // may be nil
	auditor  Auditor         // may be nil
}

// NewService creates booth service
func NewService(repo Repository, users user.Repository, rewards ledger.Repository, signer *Signer, notifier ledger.Notifier, auditor Auditor) *Service {
	return &Service{repo: repo, users: users, rewards: rewards, signer: signer, notifier: notifier, auditor: auditor}
}

// List returns all registered booths
func (s *Service) List(ctx context.Context) ([]*Booth, error) {
	return s.repo.List(ctx)
}

// Create registers a booth and returns its signed QR code
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req *CreateRequest) (*CreateResponse, error) {
	b := &Booth{
		ID:        uuid.New(),
		Name:      req.Name,
		Reward:    req.Reward,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	if s.auditor != nil {
		s.auditor.Record(ctx, actorID, "booth.create", b.ID.String())
	}
	return &CreateResponse{Booth: b, Code: s.signer.Encode(b.ID)}, nil
}

// Code reissues the signed QR code for an existing booth
func (s *Service) Code(ctx context.Context, id uuid.UUID) (string, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if b == nil {
		return "", ErrNotFound
	}
	return s.signer.Encode(b.ID), nil
}

// SetActive toggles whether a booth can be redeemed
func (s *Service) SetActive(ctx context.Context, actorID, id uuid.UUID, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return err
	}
	if s.auditor != nil {
		s.auditor.Record(ctx, actorID, "booth.set_active", id.String())
	}
	return nil
}

// Redeem verifies a scanned code and grants the booth reward to the
// participant. Each participant can redeem a given booth once.
func (s *Service) Redeem(ctx context.Context, req *RedeemRequest) (*RedeemResponse, error) {
	boothID, err := s.signer.Decode(req.Code)
	if err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, boothID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	if !b.IsActive {
		return nil, ErrInactive
	}

	target, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, user.ErrNotFound
	}

	red := &Redemption{
		ID:        uuid.New(),
		BoothID:   b.ID,
		UserID:    req.UserID,
		CreatedAt: time.Now(),
	}
	if err := s.repo.InsertRedemption(ctx, red); err != nil {
		return nil, err
	}

	rec, err := s.rewards.CreateRedemption(ctx, req.UserID, b.Reward, b.Name, red.ID)
	if err != nil {
		// Release the claim so the participant can scan again;
		// leaving it would block retries behind the unique constraint.
		if delErr := s.repo.DeleteRedemption(ctx, red.ID); delErr != nil {
			log.Error().Err(delErr).
				Str("redemption_id", red.ID.String()).
				Msg("Failed to roll back redemption after reward write failure")
		}
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, req.UserID, "points_received", "Reward from "+b.Name)
	}

	return &RedeemResponse{
		BoothName: b.Name,
		Amount:    b.Reward,
		Balance:   rec.Balance,
		TxID:      red.ID,
	}, nil
}
