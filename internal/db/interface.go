package db

import (
	"context"
	"math"

	sdkmath "cosmossdk.io/math"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
)

// MaxAmount is the largest ledger amount every backend can store.
// Mongo and postgres both persist amounts as signed 64 bit integers.
const MaxAmount uint64 = math.MaxInt64

type DbInterface interface {
	Ping(ctx context.Context) error

	// CreateGlobalConfig inserts the global config. It fails with
	// DuplicateKeyError if the config already exists.
	CreateGlobalConfig(ctx context.Context, doc *model.GlobalConfigDocument) error
	GetGlobalConfig(ctx context.Context) (*model.GlobalConfigDocument, error)
	// UpdateGlobalConfigOwner sets the owner only if it is still currentOwner,
	// otherwise it returns NotFoundError.
	UpdateGlobalConfigOwner(ctx context.Context, currentOwner, newOwner authority.Identity) error

	GetUserLedger(ctx context.Context, owner authority.Identity) (*model.UserLedgerDocument, error)
	// CreditUserLedger adds amount to the ledger of owner, creating it if
	// absent, and returns the updated ledger.
	CreditUserLedger(ctx context.Context, owner authority.Identity, amount uint64, updatedTime int64) (*model.UserLedgerDocument, error)
	// DebitUserLedger subtracts amount from the ledger of owner and returns the
	// updated ledger. It fails with InsufficientBalanceError when the balance
	// is lower than amount and leaves the ledger unchanged.
	DebitUserLedger(ctx context.Context, owner authority.Identity, amount uint64, updatedTime int64) (*model.UserLedgerDocument, error)
	// RevertUserLedgerDebit gives back a debited amount and restores the
	// previous updated time.
	RevertUserLedgerDebit(ctx context.Context, owner authority.Identity, amount uint64, previousUpdatedTime int64) error

	// CalculateTotalStaked returns the sum of every ledger amount and the
	// number of depositors with a positive balance.
	CalculateTotalStaked(ctx context.Context) (sdkmath.Uint, uint64, error)
	UpsertVaultStats(ctx context.Context, stats *model.VaultStatsDocument) error
	GetVaultStats(ctx context.Context) (*model.VaultStatsDocument, error)
}
