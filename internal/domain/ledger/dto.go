package ledger

import (
	"time"

	"github.com/google/uuid"
)

// GrantRequest for POST /points/grant
type GrantRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Amount int64     `json:"amount" validate:"required"`
	Note   string    `json:"note,omitempty" validate:"max=256"`
}

// TransferRequest for POST /points/transfer
type TransferRequest struct {
	RecipientID uuid.UUID `json:"recipient_id" validate:"required"`
	Amount      int64     `json:"amount" validate:"required,gt=0"`
	Note        string    `json:"note,omitempty" validate:"max=256"`
}

// TransferResponse after a successful transfer
type TransferResponse struct {
	TxID    uuid.UUID `json:"tx_id"`
	Amount  int64     `json:"amount"`
	Fee     int64     `json:"fee"`
	Balance int64     `json:"balance"`
}

// Entry is one presentation row of the ledger view. A merged transfer
// entry carries both sides of a paired transfer.
type Entry struct {
	ID           uuid.UUID  `json:"id"`
	DisplayName  string     `json:"display_name"`
	Type         string     `json:"type"`
	Amount       int64      `json:"amount"`
	Balance      int64      `json:"balance"`
	Counterparty string     `json:"counterparty,omitempty"`
	Note         string     `json:"note,omitempty"`
	TxID         *uuid.UUID `json:"tx_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	Merged       bool       `json:"merged,omitempty"`
}

// EntryFromRecord converts a record to a presentation entry
func EntryFromRecord(rec *Record) Entry {
	e := Entry{
		ID:          rec.ID,
		DisplayName: rec.Type.Label(),
		Type:        string(rec.Type),
		Amount:      rec.Amount,
		Balance:     rec.Balance,
		CreatedAt:   rec.CreatedAt,
	}
	if rec.Counterparty.Valid {
		e.Counterparty = rec.Counterparty.String
	}
	if rec.Note.Valid {
		e.Note = rec.Note.String
	}
	if rec.TxID.Valid {
		id := rec.TxID.UUID
		e.TxID = &id
	}
	return e
}
