// Package dbtest holds the behaviour every db.DbInterface backend shares,
// run against each of them from their own tests.
package dbtest

import (
	"context"
	"sync"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/token-vault-ledger/internal/db"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
	"github.com/babylonlabs-io/token-vault-ledger/testutil"
)

// Run exercises the stores returned by newStore, which is called once per
// case and must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) db.DbInterface) {
	cases := []struct {
		name string
		run  func(t *testing.T, store db.DbInterface)
	}{
		{"global config", testGlobalConfig},
		{"user ledger", testUserLedger},
		{"concurrent credits", testConcurrentCredits},
		{"total staked", testCalculateTotalStaked},
		{"vault stats", testVaultStats},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.run(t, newStore(t))
		})
	}
}

func testGlobalConfig(t *testing.T, store db.DbInterface) {
	ctx := t.Context()

	_, err := store.GetGlobalConfig(ctx)
	assert.True(t, db.IsNotFoundError(err))

	doc := testutil.RandomGlobalConfig(t)
	require.NoError(t, store.CreateGlobalConfig(ctx, doc))

	err = store.CreateGlobalConfig(ctx, testutil.RandomGlobalConfig(t))
	assert.True(t, db.IsDuplicateKeyError(err))

	stored, err := store.GetGlobalConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc.Owner, stored.Owner)
	assert.Equal(t, doc.AssetID, stored.AssetID)
	assert.Equal(t, doc.Vault, stored.Vault)
	assert.Equal(t, doc.VaultAuthority, stored.VaultAuthority)
	assert.Equal(t, doc.VaultAuthorityBump, stored.VaultAuthorityBump)
	assert.Equal(t, doc.ProgramID, stored.ProgramID)
	assert.Equal(t, doc.CreatedTime, stored.CreatedTime)

	newOwner := testutil.RandomIdentity(t)
	err = store.UpdateGlobalConfigOwner(ctx, testutil.RandomIdentity(t), newOwner)
	assert.True(t, db.IsNotFoundError(err))

	require.NoError(t, store.UpdateGlobalConfigOwner(ctx, doc.Owner, newOwner))
	stored, err = store.GetGlobalConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, newOwner, stored.Owner)
	assert.Equal(t, doc.AssetID, stored.AssetID)

	// the old owner lost the race
	err = store.UpdateGlobalConfigOwner(ctx, doc.Owner, testutil.RandomIdentity(t))
	assert.True(t, db.IsNotFoundError(err))
}

func testUserLedger(t *testing.T, store db.DbInterface) {
	ctx := t.Context()
	owner := testutil.RandomIdentity(t)

	_, err := store.GetUserLedger(ctx, owner)
	assert.True(t, db.IsNotFoundError(err))

	_, err = store.DebitUserLedger(ctx, owner, 1, 1)
	assert.True(t, db.IsNotFoundError(err))

	err = store.RevertUserLedgerDebit(ctx, owner, 1, 1)
	assert.True(t, db.IsNotFoundError(err))

	ledger, err := store.CreditUserLedger(ctx, owner, 100, 10)
	require.NoError(t, err)
	assert.Equal(t, &model.UserLedgerDocument{Owner: owner, Amount: 100, UpdatedTime: 10}, ledger)

	ledger, err = store.CreditUserLedger(ctx, owner, 50, 11)
	require.NoError(t, err)
	assert.Equal(t, uint64(150), ledger.Amount)
	assert.Equal(t, int64(11), ledger.UpdatedTime)

	_, err = store.DebitUserLedger(ctx, owner, 151, 12)
	assert.True(t, db.IsInsufficientBalanceError(err))

	ledger, err = store.GetUserLedger(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, &model.UserLedgerDocument{Owner: owner, Amount: 150, UpdatedTime: 11}, ledger)

	ledger, err = store.DebitUserLedger(ctx, owner, 150, 13)
	require.NoError(t, err)
	assert.Equal(t, &model.UserLedgerDocument{Owner: owner, Amount: 0, UpdatedTime: 13}, ledger)

	// emptied ledgers are kept
	ledger, err = store.GetUserLedger(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), ledger.Amount)

	require.NoError(t, store.RevertUserLedgerDebit(ctx, owner, 150, 11))
	ledger, err = store.GetUserLedger(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, &model.UserLedgerDocument{Owner: owner, Amount: 150, UpdatedTime: 11}, ledger)

	_, err = store.CreditUserLedger(ctx, owner, db.MaxAmount, 14)
	assert.True(t, db.IsAmountOverflowError(err))

	ledger, err = store.GetUserLedger(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(150), ledger.Amount)

	ledger, err = store.CreditUserLedger(ctx, owner, db.MaxAmount-150, 15)
	require.NoError(t, err)
	assert.Equal(t, db.MaxAmount, ledger.Amount)
}

func testConcurrentCredits(t *testing.T, store db.DbInterface) {
	ctx := t.Context()
	owner := testutil.RandomIdentity(t)

	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := range writers {
		wg.Add(1)
		go func(updatedTime int64) {
			defer wg.Done()
			_, err := store.CreditUserLedger(context.WithoutCancel(ctx), owner, 10, updatedTime)
			errs <- err
		}(int64(i))
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	ledger, err := store.GetUserLedger(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(writers*10), ledger.Amount)
}

func testCalculateTotalStaked(t *testing.T, store db.DbInterface) {
	ctx := t.Context()

	total, depositors, err := store.CalculateTotalStaked(ctx)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
	assert.Zero(t, depositors)

	expected := sdkmath.ZeroUint()
	for range 5 {
		amount := gofakeit.Uint64()%1_000_000 + 1
		_, err := store.CreditUserLedger(ctx, testutil.RandomIdentity(t), amount, 1)
		require.NoError(t, err)
		expected = expected.Add(sdkmath.NewUint(amount))
	}

	// an emptied ledger is kept but is no longer a depositor
	emptied := testutil.RandomIdentity(t)
	_, err = store.CreditUserLedger(ctx, emptied, 10, 1)
	require.NoError(t, err)
	_, err = store.DebitUserLedger(ctx, emptied, 10, 2)
	require.NoError(t, err)

	total, depositors, err = store.CalculateTotalStaked(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected.String(), total.String())
	assert.Equal(t, uint64(5), depositors)

	// the sum of full ledgers does not fit in a signed 64 bit integer
	for range 2 {
		_, err := store.CreditUserLedger(ctx, testutil.RandomIdentity(t), db.MaxAmount, 3)
		require.NoError(t, err)
	}
	expected = expected.Add(sdkmath.NewUint(db.MaxAmount)).Add(sdkmath.NewUint(db.MaxAmount))

	total, depositors, err = store.CalculateTotalStaked(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected.String(), total.String())
	assert.Equal(t, uint64(7), depositors)
}

func testVaultStats(t *testing.T, store db.DbInterface) {
	ctx := t.Context()

	_, err := store.GetVaultStats(ctx)
	assert.True(t, db.IsNotFoundError(err))

	stats := &model.VaultStatsDocument{TotalStaked: "100", VaultBalance: 100, Depositors: 1, Healthy: true, LastUpdated: 5}
	require.NoError(t, store.UpsertVaultStats(ctx, stats))

	stored, err := store.GetVaultStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.VaultStatsID, stored.ID)
	assert.Equal(t, "100", stored.TotalStaked)
	assert.Equal(t, uint64(100), stored.VaultBalance)
	assert.True(t, stored.Healthy)

	stats = &model.VaultStatsDocument{TotalStaked: "120", VaultBalance: 110, Depositors: 2, Healthy: false, LastUpdated: 6}
	require.NoError(t, store.UpsertVaultStats(ctx, stats))

	stored, err = store.GetVaultStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "120", stored.TotalStaked)
	assert.Equal(t, uint64(110), stored.VaultBalance)
	assert.Equal(t, uint64(2), stored.Depositors)
	assert.False(t, stored.Healthy)
	assert.Equal(t, int64(6), stored.LastUpdated)
}
