package tokenclient

import (
	"context"
	"fmt"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
)

//go:generate mockery --name=TokenInterface --output=../../../tests/mocks --outpkg=mocks --filename=mock_token_client.go
type TokenInterface interface {
	// Transfer moves Amount of Asset from From to To. It either applies fully
	// or not at all.
	Transfer(ctx context.Context, req *TransferRequest) (*TransferReceipt, error)
	GetBalance(ctx context.Context, account authority.Identity) (uint64, error)
	// EnsureAccount creates the token account when it does not exist yet.
	EnsureAccount(ctx context.Context, account, asset, owner authority.Identity) error
}

type TransferRequest struct {
	// ID lets the token ledger discard a request it already applied
	ID     string             `json:"id"`
	Asset  authority.Identity `json:"asset"`
	From   authority.Identity `json:"from"`
	To     authority.Identity `json:"to"`
	Amount uint64             `json:"amount"`
	// Proof must authorise the owner of From
	Proof authority.Proof `json:"proof"`
}

// TransferReceipt reports the balances of both accounts right after the
// transfer was applied.
type TransferReceipt struct {
	ID          string `json:"id"`
	FromBalance uint64 `json:"from_balance"`
	ToBalance   uint64 `json:"to_balance"`
}

type TransferErrorCode string

const (
	CodeInsufficientFunds TransferErrorCode = "insufficient_funds"
	CodeUnauthorized      TransferErrorCode = "unauthorized"
	CodeAccountNotFound   TransferErrorCode = "account_not_found"
	CodeAccountMismatch   TransferErrorCode = "account_mismatch"
	CodeInvalidRequest    TransferErrorCode = "invalid_request"
)

// TransferError is a rejection by the token ledger. Nothing was moved.
type TransferError struct {
	Code    TransferErrorCode `json:"code"`
	Message string            `json:"message"`
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer rejected (%s): %s", e.Code, e.Message)
}

func newTransferError(code TransferErrorCode, format string, args ...any) *TransferError {
	return &TransferError{Code: code, Message: fmt.Sprintf(format, args...)}
}
