package ledger

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Type tags a point-balance-affecting event
type Type string

const (
	TypeTransferIn  Type = "transfer_in"
	TypeTransferOut Type = "transfer_out"
	TypeMarketBuy   Type = "market_buy"
	TypeMarketSell  Type = "market_sell"
	TypeQRRedeem    Type = "qr_redeem"
	TypeAdminAdjust Type = "admin_adjust"
)

// typeLabels are the human-readable event names shown in history views
var typeLabels = map[Type]string{
	TypeTransferIn:  "Transfer received",
	TypeTransferOut: "Transfer sent",
	TypeMarketBuy:   "Market buy",
	TypeMarketSell:  "Market sell",
	TypeQRRedeem:    "Booth redemption",
	TypeAdminAdjust: "Points adjustment",
}

// Label returns the display name of the event type
func (t Type) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

// Record represents one immutable point-balance-affecting event.
// Records are never mutated after insertion; merged transfer entries
// are a presentation-only derivation.
type Record struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	UserID       uuid.UUID      `db:"user_id" json:"user_id"`
	Type         Type           `db:"type" json:"type"`
	Amount       int64          `db:"amount" json:"amount"` // signed
	Balance      int64          `db:"balance" json:"balance"`
	Counterparty sql.NullString `db:"counterparty" json:"counterparty,omitempty"`
	Note         sql.NullString `db:"note" json:"note,omitempty"`
	TxID         uuid.NullUUID  `db:"tx_id" json:"tx_id,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}
