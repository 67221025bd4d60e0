package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
	"github.com/babylonlabs-io/token-vault-ledger/internal/types"
)

func (s *Service) GetGlobalConfig(ctx context.Context) (*model.GlobalConfigDocument, error) {
	cfg, err := s.db.GetGlobalConfig(ctx)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.ErrNotInitialized
		}
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to get global config: %w", err))
	}
	return cfg, nil
}

// GetUserLedger returns the ledger of user. A user who never deposited has a
// zero balance.
func (s *Service) GetUserLedger(ctx context.Context, user authority.Identity) (*model.UserLedgerDocument, error) {
	if err := user.Validate(); err != nil {
		return nil, validationError("invalid user", err)
	}

	ledger, err := s.findUserLedger(ctx, user)
	if err != nil {
		return nil, err
	}
	if ledger == nil {
		return model.ZeroUserLedger(user), nil
	}
	return ledger, nil
}

func (s *Service) GetVaultStats(ctx context.Context) (*model.VaultStatsDocument, error) {
	stats, err := s.db.GetVaultStats(ctx)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewErrorWithMsg(http.StatusNotFound, types.NotFound, "vault stats have not been computed yet")
		}
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to get vault stats: %w", err))
	}
	return stats, nil
}

// findUserLedger returns nil without an error when user has no ledger.
func (s *Service) findUserLedger(ctx context.Context, user authority.Identity) (*model.UserLedgerDocument, error) {
	ledger, err := s.db.GetUserLedger(ctx, user)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to get user ledger: %w", err))
	}
	if ledger.Owner != user {
		return nil, types.NewInternalServiceError(
			fmt.Errorf("ledger stored under %s belongs to %s", user, ledger.Owner),
		)
	}
	return ledger, nil
}

// Healthcheck reports whether the storage backend is reachable.
func (s *Service) Healthcheck(ctx context.Context) error {
	return s.db.Ping(ctx)
}
