package db

import "errors"

// DuplicateKeyError is an error type for duplicate key errors
type DuplicateKeyError struct {
	Key     string
	Message string
}

func (e *DuplicateKeyError) Error() string {
	return e.Message
}

func IsDuplicateKeyError(err error) bool {
	var target *DuplicateKeyError
	return errors.As(err, &target)
}

// Not found Error
type NotFoundError struct {
	Key     string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// InsufficientBalanceError is returned by conditional debits
type InsufficientBalanceError struct {
	Key     string
	Message string
}

func (e *InsufficientBalanceError) Error() string {
	return e.Message
}

func IsInsufficientBalanceError(err error) bool {
	var target *InsufficientBalanceError
	return errors.As(err, &target)
}

// AmountOverflowError is returned when a credit would exceed MaxAmount
type AmountOverflowError struct {
	Key     string
	Message string
}

func (e *AmountOverflowError) Error() string {
	return e.Message
}

func IsAmountOverflowError(err error) bool {
	var target *AmountOverflowError
	return errors.As(err, &target)
}
