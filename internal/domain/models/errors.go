package models

import "errors"

var (
	// ErrValidation marks a missing or invalid required field.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a referenced record or location that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuantity marks a non-positive quantity where a positive one is required.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInsufficientStock marks a use request larger than the record balance.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidOperation marks a request the record state does not allow.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrConfirmationRequired marks a destructive request sent without confirmation.
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrRepository marks a transport or store failure.
	ErrRepository = errors.New("repository error")
)
