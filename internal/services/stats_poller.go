package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
	"github.com/babylonlabs-io/token-vault-ledger/internal/observability/metrics"
	"github.com/babylonlabs-io/token-vault-ledger/internal/types"
	"github.com/babylonlabs-io/token-vault-ledger/internal/utils/poller"
)

// StartInvariantPoller starts the invariant auditing service
func (s *Service) StartInvariantPoller(ctx context.Context) *poller.Poller {
	invariantPoller := poller.NewPoller(
		"invariant",
		s.cfg.Poller.InvariantPollingInterval,
		metrics.RecordPollerDuration("invariant", s.auditInvariant),
	)
	go invariantPoller.Start(ctx)
	return invariantPoller
}

func (s *Service) auditInvariant(ctx context.Context) error {
	_, err := s.CheckInvariant(ctx)
	if errors.Is(err, types.ErrNotInitialized) {
		log.Ctx(ctx).Debug().Msg("Vault not initialized - skipping invariant check")
		return nil
	}
	return err
}

// CheckInvariant compares the sum of all ledgers with the vault balance held
// at the token ledger and stores the result as the latest vault stats. The two
// reads are not atomic, so a short snapshot is taken again before it is
// reported as a violation.
func (s *Service) CheckInvariant(ctx context.Context) (*model.VaultStatsDocument, error) {
	log := log.Ctx(ctx)

	cfg, err := s.GetGlobalConfig(ctx)
	if err != nil {
		return nil, err
	}

	totalStaked, depositors, vaultBalance, err := s.snapshotTotals(ctx, cfg.Vault)
	if err != nil {
		return nil, err
	}
	if totalStaked.GT(sdkmath.NewUint(vaultBalance)) {
		log.Warn().
			Str("total_staked", totalStaked.String()).
			Uint64("vault_balance", vaultBalance).
			Msg("Vault looks short, taking another snapshot")

		totalStaked, depositors, vaultBalance, err = s.snapshotTotals(ctx, cfg.Vault)
		if err != nil {
			return nil, err
		}
	}

	stats := &model.VaultStatsDocument{
		ID:           model.VaultStatsID,
		TotalStaked:  totalStaked.String(),
		VaultBalance: vaultBalance,
		Depositors:   depositors,
		Healthy:      totalStaked.LTE(sdkmath.NewUint(vaultBalance)),
		LastUpdated:  s.now().Unix(),
	}
	if err := s.db.UpsertVaultStats(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to upsert vault stats: %w", err)
	}

	metrics.RecordVaultTotals(totalStaked, vaultBalance, depositors)

	if !stats.Healthy {
		metrics.IncInvariantViolations()
		log.Error().
			Str("total_staked", stats.TotalStaked).
			Uint64("vault_balance", vaultBalance).
			Msg("Sum of user ledgers exceeds the vault balance")
		return stats, nil
	}

	log.Info().
		Str("total_staked", stats.TotalStaked).
		Uint64("vault_balance", vaultBalance).
		Uint64("depositors", depositors).
		Msg("Updated vault stats")

	return stats, nil
}

func (s *Service) snapshotTotals(
	ctx context.Context, vault authority.Identity,
) (totalStaked sdkmath.Uint, depositors, vaultBalance uint64, err error) {
	startTime := time.Now()
	totalStaked, depositors, err = s.db.CalculateTotalStaked(ctx)
	log.Ctx(ctx).Debug().
		Dur("aggregation_duration_ms", time.Since(startTime)).
		Msg("Ledger aggregation completed")
	if err != nil {
		return sdkmath.Uint{}, 0, 0, fmt.Errorf("failed to calculate total staked: %w", err)
	}

	vaultBalance, err = s.token.GetBalance(ctx, vault)
	if err != nil {
		return sdkmath.Uint{}, 0, 0, fmt.Errorf("failed to get vault balance: %w", err)
	}

	return totalStaked, depositors, vaultBalance, nil
}
