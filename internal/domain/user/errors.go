package user

import "errors"

var (
	ErrNotFound     = errors.New("user not found")
	ErrNameTaken    = errors.New("name already in use")
	ErrInactive     = errors.New("account is inactive")
	ErrInvalidRole  = errors.New("invalid role")
	ErrInsufficient = errors.New("insufficient balance")
)
