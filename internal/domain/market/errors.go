package market

import "errors"

var (
	ErrAlreadyOpen          = errors.New("market is already open")
	ErrAlreadyClosed        = errors.New("market is already closed")
	ErrConfirmationRequired = errors.New("explicit confirmation required")
	ErrInvalidHours         = errors.New("close time must be after open time")
	ErrInvalidInterval      = errors.New("unsupported candle interval")
)
