package types

import (
	"errors"
	"net/http"
)

type ErrorCode string

const (
	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
	ValidationError      ErrorCode = "VALIDATION_ERROR"
	BadRequest           ErrorCode = "BAD_REQUEST"
	Unauthorized         ErrorCode = "UNAUTHORIZED"
	NotFound             ErrorCode = "NOT_FOUND"
	Conflict             ErrorCode = "CONFLICT"

	NotAllowedOwner     ErrorCode = "NOT_ALLOWED_OWNER"
	MaxDepositAmount    ErrorCode = "MAX_DEPOSIT_AMOUNT"
	InvalidAmount       ErrorCode = "INVALID_AMOUNT"
	ZeroAmount          ErrorCode = "ZERO_AMOUNT"
	InvalidTokenAddress ErrorCode = "INVALID_TOKEN_ADDRESS"
	AlreadyInitialized  ErrorCode = "ALREADY_INITIALIZED"
	NotInitialized      ErrorCode = "NOT_INITIALIZED"
	TransferFailed      ErrorCode = "TRANSFER_FAILED"
	TransferUnavailable ErrorCode = "TRANSFER_UNAVAILABLE"
	AmountOverflow      ErrorCode = "AMOUNT_OVERFLOW"
)

// Error is an error carrying the http status and the machine readable code
// that the api returns for it.
type Error struct {
	Err        error
	StatusCode int
	ErrorCode  ErrorCode
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	return &Error{
		Err:        err,
		StatusCode: statusCode,
		ErrorCode:  errorCode,
	}
}

func NewErrorWithMsg(statusCode int, errorCode ErrorCode, msg string) *Error {
	return NewError(statusCode, errorCode, errors.New(msg))
}

func NewInternalServiceError(err error) *Error {
	return NewError(http.StatusInternalServerError, InternalServiceError, err)
}

// AsError returns the *Error in err's chain, or an internal service error
// wrapping err when there is none.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return NewInternalServiceError(err)
}
