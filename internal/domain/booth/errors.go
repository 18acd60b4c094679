package booth

import "errors"

var (
	ErrNotFound        = errors.New("booth not found")
	ErrInactive        = errors.New("booth is not active")
	ErrAlreadyRedeemed = errors.New("booth already redeemed by this user")
	ErrInvalidCode     = errors.New("invalid or tampered QR code")
)
