package postgres

import (
	"context"

	"github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
)

// Truncate empties every vault table.
func (s *Store) Truncate(ctx context.Context) error {
	return s.db.WithContext(ctx).Exec(
		"TRUNCATE " + model.GlobalConfigCollection + ", " + model.UserLedgerCollection + ", " + model.VaultStatsCollection,
	).Error
}
