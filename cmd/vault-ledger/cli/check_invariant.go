package cli

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/babylonlabs-io/token-vault-ledger/internal/config"
	"github.com/babylonlabs-io/token-vault-ledger/internal/queue"
	"github.com/babylonlabs-io/token-vault-ledger/internal/services"
)

// CheckInvariantCmd compares the sum of all user ledgers with the vault
// token balance once and exits non-zero when the ledgers exceed it.
// Usage: ./vault-ledger check-invariant --config config.yml
func CheckInvariantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-invariant",
		Short: "Checks that the user ledgers are covered by the vault balance",
		Args:  cobra.ExactArgs(0),
		RunE:  checkInvariant,
	}

	return cmd
}

func checkInvariant(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.New(GetConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbClient, closeDb, err := newDbClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDb(ctx); err != nil {
			log.Error().Err(err).Msg("error while closing db client")
		}
	}()

	tokenClient, err := newTokenClient(cfg)
	if err != nil {
		return err
	}

	// a one shot audit never emits events
	service := services.NewService(cfg, dbClient, tokenClient, queue.NoopPublisher{}, nil)
	stats, err := service.CheckInvariant(ctx)
	if err != nil {
		return fmt.Errorf("failed to check invariant: %w", err)
	}

	log.Info().
		Str("total_staked", stats.TotalStaked).
		Uint64("vault_balance", stats.VaultBalance).
		Uint64("depositors", stats.Depositors).
		Bool("healthy", stats.Healthy).
		Msg("Vault invariant checked")

	if !stats.Healthy {
		return errors.New("user ledgers exceed the vault balance")
	}
	return nil
}
