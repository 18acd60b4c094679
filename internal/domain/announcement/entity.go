package announcement

import (
	"time"

	"github.com/google/uuid"
)

// Announcement represents a camp-wide announcement
type Announcement struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Body       string    `json:"body" db:"body"`
	AuthorID   uuid.UUID `json:"author_id" db:"author_id"`
	AuthorName string    `json:"author_name" db:"author_name"`
	Pinned     bool      `json:"pinned" db:"pinned"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
