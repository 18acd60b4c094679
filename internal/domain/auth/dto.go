package auth

import (
	"github.com/google/uuid"

	"github.com/campmarket/campmarket-api/internal/perm"
)

// LoginRequest for POST /auth/login
type LoginRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=64"`
	Password string `json:"password" validate:"required,min=6"`
	Source   string `json:"source,omitempty" validate:"max=32"`
}

// LoginResponse after successful login
type LoginResponse struct {
	AccessToken  string            `json:"access_token"`
	UserID       uuid.UUID         `json:"user_id"`
	DisplayName  string            `json:"display_name"`
	Role         perm.Role         `json:"role"`
	Capabilities []perm.Capability `json:"capabilities"`
}

// PermissionsResponse for GET /auth/permissions
type PermissionsResponse struct {
	Role         perm.Role         `json:"role"`
	Capabilities []perm.Capability `json:"capabilities"`
}
