package booth

import "github.com/google/uuid"

// CreateRequest is the payload for registering a booth
type CreateRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=100"`
	Reward int64  `json:"reward" validate:"required,gt=0"`
}

// CreateResponse includes the signed QR code for printing
type CreateResponse struct {
	Booth *Booth `json:"booth"`
	Code  string `json:"code"`
}

// RedeemRequest is the payload for redeeming a scanned QR code on
// behalf of a participant.
type RedeemRequest struct {
	Code   string    `json:"code" validate:"required"`
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// RedeemResponse confirms the reward that was granted
type RedeemResponse struct {
	BoothName string    `json:"booth_name"`
	Amount    int64     `json:"amount"`
	Balance   int64     `json:"balance"`
	TxID      uuid.UUID `json:"tx_id"`
}
