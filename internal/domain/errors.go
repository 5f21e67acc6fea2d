package domain

import "errors"

var (
	ErrItemNotFound       = errors.New("item not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("unknown role")
	ErrNoItems            = errors.New("no items provided")
	ErrInvalidQuantity    = errors.New("quantities must be positive")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrDuplicateReceipt   = errors.New("receipt number is not unique")
	ErrNotJobOrder        = errors.New("order does not contain any deferred-fulfillment items")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrNothingToUpdate    = errors.New("nothing to update")
	ErrInvalidMonth       = errors.New("month must be between 1 and 12")
	ErrInvalidID          = errors.New("invalid id")
	ErrLockTimeout        = errors.New("lock wait timed out")
)
