package market

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// DataWiper clears one domain's data during a full reset
type DataWiper interface {
	DeleteAll(ctx context.Context) error
}

// Auditor records admin actions; may be nil
type Auditor interface {
	Record(ctx context.Context, actorID uuid.UUID, action, entity string)
}

// Service handles market state operations
type Service struct {
	repo    Repository
	hub     *Hub // may be nil
	auditor Auditor
	wipers  []DataWiper
}

// NewService creates market service
func NewService(repo Repository, hub *Hub, auditor Auditor, wipers ...DataWiper) *Service {
	return &Service{repo: repo, hub: hub, auditor: auditor, wipers: wipers}
}

// Status returns the current market state
func (s *Service) Status(ctx context.Context) (*State, error) {
	return s.repo.GetState(ctx)
}

// TransferFeeBps implements the ledger fee provider
func (s *Service) TransferFeeBps(ctx context.Context) (int64, error) {
	state, err := s.repo.GetState(ctx)
	if err != nil {
		return 0, err
	}
	return state.TransferFeeBps, nil
}

// Open opens the market
func (s *Service) Open(ctx context.Context, actorID uuid.UUID) (*State, error) {
	state, err := s.repo.GetState(ctx)
	if err != nil {
		return nil, err
	}
	if state.IsOpen {
		return nil, ErrAlreadyOpen
	}
	state.IsOpen = true
	state.UpdatedBy = uuid.NullUUID{UUID: actorID, Valid: true}
	if err := s.repo.SaveState(ctx, state); err != nil {
		return nil, err
	}
	s.broadcast(ctx, Event{Type: EventMarketOpened})
	s.audit(ctx, actorID, "market.open")
	return state, nil
}

// Close closes the market
func (s *Service) Close(ctx context.Context, actorID uuid.UUID) (*State, error) {
	state, err := s.repo.GetState(ctx)
	if err != nil {
		return nil, err
	}
	if !state.IsOpen {
		return nil, ErrAlreadyClosed
	}
	state.IsOpen = false
	state.UpdatedBy = uuid.NullUUID{UUID: actorID, Valid: true}
	if err := s.repo.SaveState(ctx, state); err != nil {
		return nil, err
	}
	s.broadcast(ctx, Event{Type: EventMarketClosed})
	s.audit(ctx, actorID, "market.close")
	return state, nil
}

// UpdateIPO replaces the IPO parameters
func (s *Service) UpdateIPO(ctx context.Context, actorID uuid.UUID, req *IPORequest) (*State, error) {
	state, err := s.repo.GetState(ctx)
	if err != nil {
		return nil, err
	}
	state.IPOPrice = req.Price
	state.IPOShares = req.Shares
	state.IPOUserCap = req.UserCap
	state.UpdatedBy = uuid.NullUUID{UUID: actorID, Valid: true}
	if err := s.repo.SaveState(ctx, state); err != nil {
		return nil, err
	}
	s.broadcast(ctx, Event{Type: EventIPOUpdated})
	s.audit(ctx, actorID, "market.ipo.update")
	return state, nil
}

// ResetIPO restores the default IPO parameters
func (s *Service) ResetIPO(ctx context.Context, actorID uuid.UUID) (*State, error) {
	return s.UpdateIPO(ctx, actorID, &IPORequest{
		Price:   DefaultIPOPrice,
		Shares:  DefaultIPOShares,
		UserCap: DefaultIPOUserCap,
	})
}

// SetTradingLimit updates the per-trade limit
func (s *Service) SetTradingLimit(ctx context.Context, actorID uuid.UUID, limit int64) (*State, error) {
	state, err := s.repo.GetState(ctx)
	if err != nil {
		return nil, err
	}
	state.TradingLimit = limit
	state.UpdatedBy = uuid.NullUUID{UUID: actorID, Valid: true}
	if err := s.repo.SaveState(ctx, state); err != nil {
		return nil, err
	}
	s.audit(ctx, actorID, "market.limit.update")
	return state, nil
}

// SetTransferFee updates the transfer fee configuration
func (s *Service) SetTransferFee(ctx context.Context, actorID uuid.UUID, feeBps int64) (*State, error) {
	state, err := s.repo.GetState(ctx)
	if err != nil {
		return nil, err
	}
	state.TransferFeeBps = feeBps
	state.UpdatedBy = uuid.NullUUID{UUID: actorID, Valid: true}
	if err := s.repo.SaveState(ctx, state); err != nil {
		return nil, err
	}
	s.audit(ctx, actorID, "market.fee.update")
	return state, nil
}

// SetTradingHours updates the trading-hours configuration
func (s *Service) SetTradingHours(ctx context.Context, actorID uuid.UUID, req *TradingHoursRequest) (*State, error) {
	if req.CloseTime <= req.OpenTime {
		return nil, ErrInvalidHours
	}
	state, err := s.repo.GetState(ctx)
	if err != nil {
		return nil, err
	}
	state.OpenTime = req.OpenTime
	state.CloseTime = req.CloseTime
	state.UpdatedBy = uuid.NullUUID{UUID: actorID, Valid: true}
	if err := s.repo.SaveState(ctx, state); err != nil {
		return nil, err
	}
	s.audit(ctx, actorID, "market.hours.update")
	return state, nil
}

// RecordPrice ingests a trade price and pushes it to the ticker
func (s *Service) RecordPrice(ctx context.Context, req *PriceRequest) (*PricePoint, error) {
	point := &PricePoint{
		ID:        uuid.New(),
		Price:     req.Price,
		Volume:    req.Volume,
		CreatedAt: time.Now(),
	}
	if err := s.repo.InsertPrice(ctx, point); err != nil {
		return nil, err
	}

	state, err := s.repo.GetState(ctx)
	if err == nil {
		state.LastPrice = req.Price
		_ = s.repo.SaveState(ctx, state)
	}

	s.broadcast(ctx, Event{Type: EventPriceUpdate, Price: req.Price, Volume: req.Volume})
	return point, nil
}

// Candles aggregates recorded prices into OHLC candles
func (s *Service) Candles(ctx context.Context, intervalName string, since time.Time) ([]Candle, error) {
	interval, err := ParseInterval(intervalName)
	if err != nil {
		return nil, err
	}
	points, err := s.repo.ListPrices(ctx, since)
	if err != nil {
		return nil, err
	}
	return BuildCandles(points, interval), nil
}

// ForceSettle closes the market and stamps the settlement time.
// Requires explicit confirmation.
func (s *Service) ForceSettle(ctx context.Context, actorID uuid.UUID, confirm bool) (*State, error) {
	if !confirm {
		return nil, ErrConfirmationRequired
	}
	state, err := s.repo.GetState(ctx)
	if err != nil {
		return nil, err
	}
	state.IsOpen = false
	state.SettledAt = sql.NullTime{Time: time.Now(), Valid: true}
	state.UpdatedBy = uuid.NullUUID{UUID: actorID, Valid: true}
	if err := s.repo.SaveState(ctx, state); err != nil {
		return nil, err
	}
	s.broadcast(ctx, Event{Type: EventSettlement})
	s.audit(ctx, actorID, "market.settle")
	return state, nil
}

// ResetAll wipes ledger and price data and restores market defaults.
// Requires explicit confirmation.
func (s *Service) ResetAll(ctx context.Context, actorID uuid.UUID, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}

	for _, w := range s.wipers {
		if err := w.DeleteAll(ctx); err != nil {
			return err
		}
	}
	if err := s.repo.DeleteAllPrices(ctx); err != nil {
		return err
	}

	state, err := s.repo.GetState(ctx)
	if err != nil {
		return err
	}
	state.IsOpen = false
	state.OpenTime = DefaultOpenTime
	state.CloseTime = DefaultCloseTime
	state.TradingLimit = DefaultTradingLimit
	state.TransferFeeBps = DefaultFeeBps
	state.IPOPrice = DefaultIPOPrice
	state.IPOShares = DefaultIPOShares
	state.IPOUserCap = DefaultIPOUserCap
	state.LastPrice = DefaultIPOPrice
	state.SettledAt = sql.NullTime{}
	state.UpdatedBy = uuid.NullUUID{UUID: actorID, Valid: true}
	if err := s.repo.SaveState(ctx, state); err != nil {
		return err
	}

	s.broadcast(ctx, Event{Type: EventMarketClosed})
	s.audit(ctx, actorID, "market.reset_all")
	return nil
}

func (s *Service) broadcast(ctx context.Context, ev Event) {
	if s.hub != nil {
		s.hub.Broadcast(ctx, ev)
	}
}

func (s *Service) audit(ctx context.Context, actorID uuid.UUID, action string) {
	if s.auditor != nil {
		s.auditor.Record(ctx, actorID, action, "market")
	}
}
