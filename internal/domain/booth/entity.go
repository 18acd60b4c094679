package booth

import (
	"time"

	"github.com/google/uuid"
)

// Booth represents an activity booth that rewards points via QR code
type Booth struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Reward    int64     `json:"reward" db:"reward"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Redemption records a user claiming a booth reward. A user may redeem
// each booth exactly once.
type Redemption struct {
	ID        uuid.UUID `json:"id" db:"id"`
	BoothID   uuid.UUID `json:"booth_id" db:"booth_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
