package adminpanel

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records a privileged action for after-the-fact review
type AuditLog struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ActorID   uuid.UUID `json:"actor_id" db:"actor_id"`
	Action    string    `json:"action" db:"action"`
	Entity    string    `json:"entity" db:"entity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Overview is the admin dashboard summary
type Overview struct {
	UserCount         int64  `json:"user_count"`
	TotalBalance      int64  `json:"total_balance"`
	MarketOpen        bool   `json:"market_open"`
	LastPrice         int64  `json:"last_price"`
	AnnouncementCount int64  `json:"announcement_count"`
	Environment       string `json:"environment"`
}

// Section describes one admin panel area and whether the caller may
// enter it. The panel renders only the allowed sections.
type Section struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Allowed bool   `json:"allowed"`
}
