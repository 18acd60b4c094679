package market

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines market state data access
type Repository interface {
	GetState(ctx context.Context) (*State, error)
	SaveState(ctx context.Context, s *State) error
	InsertPrice(ctx context.Context, p *PricePoint) error
	ListPrices(ctx context.Context, since time.Time) ([]*PricePoint, error)
	DeleteAllPrices(ctx context.Context) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates market repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetState(ctx context.Context) (*State, error) {
	var s State
	err := r.db.GetContext(ctx, &s, `SELECT * FROM market_state WHERE id = 1`)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) SaveState(ctx context.Context, s *State) error {
	query := `
		UPDATE market_state SET
			is_open = $1, open_time = $2, close_time = $3,
			trading_limit = $4, transfer_fee_bps = $5,
			ipo_price = $6, ipo_shares = $7, ipo_user_cap = $8,
			last_price = $9, settled_at = $10, updated_by = $11, updated_at = $12
		WHERE id = 1
	`
	_, err := r.db.ExecContext(ctx, query,
		s.IsOpen, s.OpenTime, s.CloseTime,
		s.TradingLimit, s.TransferFeeBps,
		s.IPOPrice, s.IPOShares, s.IPOUserCap,
		s.LastPrice, s.SettledAt, s.UpdatedBy, time.Now(),
	)
	return err
}

func (r *repository) InsertPrice(ctx context.Context, p *PricePoint) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO price_points (id, price, volume, created_at)
		VALUES ($1, $2, $3, $4)
	`, p.ID, p.Price, p.Volume, p.CreatedAt)
	return err
}

func (r *repository) ListPrices(ctx context.Context, since time.Time) ([]*PricePoint, error) {
	var points []*PricePoint
	err := r.db.SelectContext(ctx, &points, `
		SELECT * FROM price_points
		WHERE created_at >= $1
		ORDER BY created_at ASC
	`, since)
	return points, err
}

func (r *repository) DeleteAllPrices(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `TRUNCATE price_points`)
	return err
}
