package types

import "net/http"

var (
	ErrNotAllowedOwner = NewErrorWithMsg(http.StatusForbidden, NotAllowedOwner, "not allowed owner")
	// ErrMaxDepositAmount is part of the error surface but no operation raises it.
	ErrMaxDepositAmount    = NewErrorWithMsg(http.StatusBadRequest, MaxDepositAmount, "over max deposit amount")
	ErrInvalidAmount       = NewErrorWithMsg(http.StatusBadRequest, InvalidAmount, "invalid amount")
	ErrZeroAmount          = NewErrorWithMsg(http.StatusBadRequest, ZeroAmount, "amount should be greater than 0")
	ErrInvalidTokenAddress = NewErrorWithMsg(http.StatusBadRequest, InvalidTokenAddress, "the token asset id is not correct")

	ErrAlreadyInitialized = NewErrorWithMsg(http.StatusConflict, AlreadyInitialized, "vault is already initialized")
	ErrNotInitialized     = NewErrorWithMsg(http.StatusNotFound, NotInitialized, "vault is not initialized")
	ErrAmountOverflow     = NewErrorWithMsg(http.StatusBadRequest, AmountOverflow, "amount would overflow the ledger")
)
