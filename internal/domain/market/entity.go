package market

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Default IPO parameters, restored by a reset
const (
	DefaultIPOPrice     int64 = 100
	DefaultIPOShares    int64 = 10000
	DefaultIPOUserCap   int64 = 50
	DefaultTradingLimit int64 = 1000
	DefaultFeeBps       int64 = 100 // 1%
	DefaultOpenTime           = "09:00"
	DefaultCloseTime          = "21:00"
)

// State is the single-row market configuration
type State struct {
	ID             int           `db:"id" json:"-"`
	IsOpen         bool          `db:"is_open" json:"is_open"`
	OpenTime       string        `db:"open_time" json:"open_time"`
	CloseTime      string        `db:"close_time" json:"close_time"`
	TradingLimit   int64         `db:"trading_limit" json:"trading_limit"`
	TransferFeeBps int64         `db:"transfer_fee_bps" json:"transfer_fee_bps"`
	IPOPrice       int64         `db:"ipo_price" json:"ipo_price"`
	IPOShares      int64         `db:"ipo_shares" json:"ipo_shares"`
	IPOUserCap     int64         `db:"ipo_user_cap" json:"ipo_user_cap"`
	LastPrice      int64         `db:"last_price" json:"last_price"`
	SettledAt      sql.NullTime  `db:"settled_at" json:"settled_at,omitempty"`
	UpdatedBy      uuid.NullUUID `db:"updated_by" json:"-"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// PricePoint is one recorded trade price
type PricePoint struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Price     int64     `db:"price" json:"price"`
	Volume    int64     `db:"volume" json:"volume"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Candle is one OHLC aggregate over an interval
type Candle struct {
	Start  time.Time `json:"start"`
	Open   int64     `json:"open"`
	High   int64     `json:"high"`
	Low    int64     `json:"low"`
	Close  int64     `json:"close"`
	Volume int64     `json:"volume"`
}
