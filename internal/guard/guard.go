// Package guard holds the precondition checks every vault operation runs
// before moving funds or touching the ledger. The checks are pure and return
// the vault error sentinels unchanged.
package guard

import (
	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
	"github.com/babylonlabs-io/token-vault-ledger/internal/types"
)

// CheckOwner fails with ErrNotAllowedOwner unless caller owns the vault.
func CheckOwner(caller authority.Identity, cfg *model.GlobalConfigDocument) error {
	if cfg == nil || caller != cfg.Owner {
		return types.ErrNotAllowedOwner
	}
	return nil
}

// CheckAsset fails with ErrInvalidTokenAddress unless assetID is the vault asset.
func CheckAsset(assetID authority.Identity, cfg *model.GlobalConfigDocument) error {
	if cfg == nil || assetID != cfg.AssetID {
		return types.ErrInvalidTokenAddress
	}
	return nil
}

func CheckAmount(amount uint64) error {
	if amount == 0 {
		return types.ErrZeroAmount
	}
	return nil
}

// CheckSufficientBalance fails with ErrInvalidAmount when amount exceeds the
// ledger balance. A nil ledger has a zero balance.
func CheckSufficientBalance(amount uint64, ledger *model.UserLedgerDocument) error {
	var balance uint64
	if ledger != nil {
		balance = ledger.Amount
	}
	if amount > balance {
		return types.ErrInvalidAmount
	}
	return nil
}
