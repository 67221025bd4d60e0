package services

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
	"github.com/babylonlabs-io/token-vault-ledger/internal/types"
	"github.com/babylonlabs-io/token-vault-ledger/testutil"
	"github.com/babylonlabs-io/token-vault-ledger/tests/mocks"
)

func TestCheckInvariant(t *testing.T) {
	ctx := context.Background()

	t.Run("healthy vault", func(t *testing.T) {
		h := newInitializedHarness(t)
		first, firstKey := h.fundUser(t, 100)
		second, secondKey := h.fundUser(t, 100)

		_, err := h.deposit(t, first, firstKey, 70)
		require.NoError(t, err)
		_, err = h.deposit(t, second, secondKey, 30)
		require.NoError(t, err)
		_, err = h.svc.Withdraw(ctx, second, 30, h.asset)
		require.NoError(t, err)

		stats, err := h.svc.CheckInvariant(ctx)
		require.NoError(t, err)
		assert.True(t, stats.Healthy)
		assert.Equal(t, "70", stats.TotalStaked)
		assert.Equal(t, uint64(70), stats.VaultBalance)
		assert.Equal(t, uint64(1), stats.Depositors)
		assert.Equal(t, testNow, stats.LastUpdated)

		stored, err := h.svc.GetVaultStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, stats, stored)
	})

	t.Run("ledger exceeding the vault balance", func(t *testing.T) {
		h := newInitializedHarness(t)
		_, err := h.store.CreditUserLedger(ctx, testutil.RandomIdentity(t), 5, testNow)
		require.NoError(t, err)

		stats, err := h.svc.CheckInvariant(ctx)
		require.NoError(t, err)
		assert.False(t, stats.Healthy)
		assert.Equal(t, "5", stats.TotalStaked)
		assert.Zero(t, stats.VaultBalance)
	})

	t.Run("single short snapshot is not a violation", func(t *testing.T) {
		cfg := testutil.RandomGlobalConfig(t)
		dbMock := mocks.NewDbInterface(t)
		dbMock.On("GetGlobalConfig", mock.Anything).Return(cfg, nil)
		// a withdrawal debits 5 and moves the funds out between the two reads
		dbMock.On("CalculateTotalStaked", mock.Anything).Return(sdkmath.NewUint(10), uint64(1), nil).Once()
		dbMock.On("CalculateTotalStaked", mock.Anything).Return(sdkmath.NewUint(5), uint64(1), nil).Once()
		dbMock.On("UpsertVaultStats", mock.Anything, mock.MatchedBy(func(stats *model.VaultStatsDocument) bool {
			return stats.Healthy && stats.TotalStaked == "5" && stats.VaultBalance == 5
		})).Return(nil).Once()
		token := mocks.NewTokenInterface(t)
		token.On("GetBalance", mock.Anything, cfg.Vault).Return(uint64(5), nil).Twice()

		svc := NewService(testConfig(t), dbMock, token, nil, nil)
		stats, err := svc.CheckInvariant(ctx)
		require.NoError(t, err)
		assert.True(t, stats.Healthy)
	})

	t.Run("short in both snapshots", func(t *testing.T) {
		cfg := testutil.RandomGlobalConfig(t)
		dbMock := mocks.NewDbInterface(t)
		dbMock.On("GetGlobalConfig", mock.Anything).Return(cfg, nil)
		dbMock.On("CalculateTotalStaked", mock.Anything).Return(sdkmath.NewUint(10), uint64(2), nil).Twice()
		dbMock.On("UpsertVaultStats", mock.Anything, mock.MatchedBy(func(stats *model.VaultStatsDocument) bool {
			return !stats.Healthy
		})).Return(nil).Once()
		token := mocks.NewTokenInterface(t)
		token.On("GetBalance", mock.Anything, cfg.Vault).Return(uint64(9), nil).Twice()

		svc := NewService(testConfig(t), dbMock, token, nil, nil)
		stats, err := svc.CheckInvariant(ctx)
		require.NoError(t, err)
		assert.False(t, stats.Healthy)
		assert.Equal(t, "10", stats.TotalStaked)
	})

	t.Run("not initialized", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.svc.CheckInvariant(ctx)
		require.ErrorIs(t, err, types.ErrNotInitialized)
		require.NoError(t, h.svc.auditInvariant(ctx))

		_, err = h.svc.GetVaultStats(ctx)
		require.Error(t, err)
		assert.Equal(t, types.NotFound, types.AsError(err).ErrorCode)
	})

	t.Run("token ledger unavailable", func(t *testing.T) {
		cfg := testutil.RandomGlobalConfig(t)
		dbMock := mocks.NewDbInterface(t)
		dbMock.On("GetGlobalConfig", mock.Anything).Return(cfg, nil)
		dbMock.On("CalculateTotalStaked", mock.Anything).Return(sdkmath.NewUint(10), uint64(1), nil)
		token := mocks.NewTokenInterface(t)
		token.On("GetBalance", mock.Anything, cfg.Vault).Return(uint64(0), errors.New("timeout"))

		svc := NewService(testConfig(t), dbMock, token, nil, nil)
		_, err := svc.CheckInvariant(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get vault balance")
		dbMock.AssertNotCalled(t, "UpsertVaultStats", mock.Anything, mock.Anything)
	})
}

func TestStartInvariantPoller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newInitializedHarness(t)
	user, key := h.fundUser(t, 10)
	_, err := h.deposit(t, user, key, 10)
	require.NoError(t, err)

	p := h.svc.StartInvariantPoller(ctx)
	defer p.Stop()

	var stats *model.VaultStatsDocument
	require.Eventually(t, func() bool {
		stats, err = h.store.GetVaultStats(ctx)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, stats.Healthy)
	assert.Equal(t, "10", stats.TotalStaked)
}
