package tokenclient

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
	"github.com/babylonlabs-io/token-vault-ledger/internal/config"
)

type memoryAccount struct {
	owner   authority.Identity
	asset   authority.Identity
	balance uint64
}

// MemoryLedger is an in-process token ledger. Transfers are applied
// atomically under a single lock and replays of a request id return the
// original receipt. A signature proof pays for one transfer only.
type MemoryLedger struct {
	mu       sync.Mutex
	accounts map[authority.Identity]*memoryAccount
	receipts map[string]TransferReceipt
	spent    map[string]string
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		accounts: make(map[authority.Identity]*memoryAccount),
		receipts: make(map[string]TransferReceipt),
		spent:    make(map[string]string),
	}
}

// NewMemoryLedgerFromConfig funds the associated token account of every
// genesis owner.
func NewMemoryLedgerFromConfig(cfg *config.TokenConfig, tokenProgramID authority.Identity) (*MemoryLedger, error) {
	ledger := NewMemoryLedger()
	for _, g := range cfg.Genesis {
		owner, err := authority.ParseIdentity(g.Owner)
		if err != nil {
			return nil, fmt.Errorf("invalid genesis owner: %w", err)
		}
		asset, err := authority.ParseIdentity(g.Asset)
		if err != nil {
			return nil, fmt.Errorf("invalid genesis asset: %w", err)
		}
		account, err := authority.AssociatedAccount(tokenProgramID, owner, asset)
		if err != nil {
			return nil, fmt.Errorf("failed to derive genesis account of %s: %w", owner, err)
		}
		if err := ledger.Mint(account, asset, owner, g.Amount); err != nil {
			return nil, err
		}
	}

	return ledger, nil
}

// Mint creates the account if needed and adds amount to its balance.
func (l *MemoryLedger) Mint(account, asset, owner authority.Identity, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, err := l.ensureAccount(account, asset, owner)
	if err != nil {
		return err
	}
	if acc.balance > math.MaxUint64-amount {
		return newTransferError(CodeInvalidRequest, "minting %d would overflow account %s", amount, account)
	}
	acc.balance += amount

	return nil
}

func (l *MemoryLedger) Transfer(_ context.Context, req *TransferRequest) (*TransferReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if req.ID != "" {
		if receipt, ok := l.receipts[req.ID]; ok {
			return &receipt, nil
		}
	}
	if req.Amount == 0 {
		return nil, newTransferError(CodeInvalidRequest, "amount must be positive")
	}

	from, ok := l.accounts[req.From]
	if !ok {
		return nil, newTransferError(CodeAccountNotFound, "account %s not found", req.From)
	}
	to, ok := l.accounts[req.To]
	if !ok {
		return nil, newTransferError(CodeAccountNotFound, "account %s not found", req.To)
	}
	if from.asset != req.Asset || to.asset != req.Asset {
		return nil, newTransferError(CodeAccountMismatch, "accounts do not hold asset %s", req.Asset)
	}
	if err := req.Proof.VerifyTransfer(from.owner, req.Asset, req.To, req.Amount); err != nil {
		return nil, newTransferError(CodeUnauthorized, "source account owner did not authorise the transfer: %v", err)
	}
	signature := string(req.Proof.Signature)
	if req.Proof.Kind == authority.ProofSignature {
		if id, ok := l.spent[signature]; ok {
			return nil, newTransferError(CodeUnauthorized, "proof already paid for transfer %s", id)
		}
	}
	if from.balance < req.Amount {
		return nil, newTransferError(CodeInsufficientFunds, "account %s holds %d, needs %d", req.From, from.balance, req.Amount)
	}
	if from != to {
		if to.balance > math.MaxUint64-req.Amount {
			return nil, newTransferError(CodeInvalidRequest, "transfer would overflow account %s", req.To)
		}
		from.balance -= req.Amount
		to.balance += req.Amount
	}

	receipt := TransferReceipt{
		ID:          req.ID,
		FromBalance: from.balance,
		ToBalance:   to.balance,
	}
	if req.ID != "" {
		l.receipts[req.ID] = receipt
	}
	if req.Proof.Kind == authority.ProofSignature {
		l.spent[signature] = req.ID
	}

	return &receipt, nil
}

func (l *MemoryLedger) GetBalance(_ context.Context, account authority.Identity) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.accounts[account]
	if !ok {
		return 0, newTransferError(CodeAccountNotFound, "account %s not found", account)
	}
	return acc.balance, nil
}

func (l *MemoryLedger) EnsureAccount(_ context.Context, account, asset, owner authority.Identity) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.ensureAccount(account, asset, owner)
	return err
}

func (l *MemoryLedger) ensureAccount(account, asset, owner authority.Identity) (*memoryAccount, error) {
	if acc, ok := l.accounts[account]; ok {
		if acc.asset != asset || acc.owner != owner {
			return nil, newTransferError(CodeAccountMismatch, "account %s exists with a different owner or asset", account)
		}
		return acc, nil
	}

	acc := &memoryAccount{owner: owner, asset: asset}
	l.accounts[account] = acc
	return acc, nil
}
