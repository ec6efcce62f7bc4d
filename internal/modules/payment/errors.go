package payment

import "errors"

var (
	ErrInvalidSignature = errors.New("invalid check value")
	ErrAmountMismatch   = errors.New("amount mismatch")
	ErrAlreadyPaid      = errors.New("booking already paid")
)
