package models

import "errors"

// Domain errors. Every one is local and recoverable; the message is the
// text shown to the account holder.
var (
	ErrNotAuthenticated = errors.New("please log in first")
	ErrNotFound         = errors.New("account not found")

	ErrInvalidAmount                    = errors.New("please enter a valid amount")
	ErrInsufficientFunds                = errors.New("insufficient funds")
	ErrDailyLimitExceeded               = errors.New("daily withdrawal limit exceeded")
	ErrInvalidRecipient                 = errors.New("invalid recipient pin")
	ErrInsufficientFundsOrInvalidAmount = errors.New("insufficient funds or invalid amount")

	ErrInvalidOrDuplicatePin = errors.New("invalid or duplicate pin")
	ErrInvalidName           = errors.New("please enter a valid name")
)
