package game

import "errors"

var (
	ErrSessionEnded      = errors.New("session has ended")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must not be negative")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrInventoryDisabled = errors.New("inventory is disabled")
)
