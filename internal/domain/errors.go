package domain

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateEmail     = errors.New("a customer with this email already exists")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrHasDependentOrders = errors.New("customer has existing orders and cannot be deleted")
	ErrInvalidAmount      = errors.New("amount must be a non-negative number")
	ErrValidation         = errors.New("validation failed")
	ErrPasswordTooLong    = errors.New("password is too long")
)
