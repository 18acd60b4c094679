package adminpanel

// SetRoleRequest changes a user's role and extra capabilities
type SetRoleRequest struct {
	Role      string   `json:"role" validate:"required,role"`
	ExtraCaps []string `json:"extra_caps" validate:"dive,capability"`
}

// SetSwitchRequest toggles an action switch
type SetSwitchRequest struct {
	Enabled bool `json:"enabled"`
}
