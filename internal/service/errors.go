package service

import "errors"

// Sentinel errors the handler layer maps onto HTTP statuses.
var (
	ErrNotFound           = errors.New("record not found")
	ErrForbidden          = errors.New("not allowed to modify this record")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)
