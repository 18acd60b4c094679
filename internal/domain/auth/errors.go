package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid name or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionStale       = errors.New("session is stale")
)
