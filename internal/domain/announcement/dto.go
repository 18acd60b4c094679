package announcement

// CreateRequest is the payload for creating an announcement
type CreateRequest struct {
	Title  string `json:"title" validate:"required,min=1,max=200"`
	Body   string `json:"body" validate:"required,min=1,max=5000"`
	Pinned bool   `json:"pinned"`
}
