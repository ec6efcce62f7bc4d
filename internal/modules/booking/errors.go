package booking

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("booking not found")
	ErrRoomTypeNotFound = errors.New("room type not found")
	ErrMethodDisabled   = errors.New("payment method disabled")
	ErrNotAvailable     = errors.New("room type not available for requested dates")
	ErrNotCancelled     = errors.New("only cancelled bookings can be deleted")
)
