package cli

import (
	"context"
	"fmt"

	"github.com/babylonlabs-io/token-vault-ledger/internal/clients/tokenclient"
	"github.com/babylonlabs-io/token-vault-ledger/internal/config"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/memdb"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/postgres"
)

// newDbClient opens the configured ledger store. The returned close function
// releases its connections.
func newDbClient(ctx context.Context, cfg *config.Config) (db.DbInterface, func(context.Context) error, error) {
	switch cfg.Db.Backend {
	case config.DbBackendMongo:
		client, err := db.New(ctx, cfg.Db)
		if err != nil {
			return nil, nil, fmt.Errorf("error while creating mongo client: %w", err)
		}
		return db.NewDbWithMetrics(client), client.Close, nil
	case config.DbBackendPostgres:
		store, err := postgres.New(ctx, cfg.Db.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("error while creating postgres client: %w", err)
		}
		return db.NewDbWithMetrics(store), func(context.Context) error { return store.Close() }, nil
	case config.DbBackendMemory:
		return db.NewDbWithMetrics(memdb.New()), func(context.Context) error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown db backend %q", cfg.Db.Backend)
	}
}

func newTokenClient(cfg *config.Config) (tokenclient.TokenInterface, error) {
	var token tokenclient.TokenInterface
	switch cfg.Token.Backend {
	case config.TokenBackendHTTP:
		token = tokenclient.NewClient(&cfg.Token)
	case config.TokenBackendMemory:
		ledger, err := tokenclient.NewMemoryLedgerFromConfig(&cfg.Token, cfg.Vault.TokenProgram())
		if err != nil {
			return nil, fmt.Errorf("error while creating memory token ledger: %w", err)
		}
		token = ledger
	default:
		return nil, fmt.Errorf("unknown token backend %q", cfg.Token.Backend)
	}

	return tokenclient.NewTokenClientWithMetrics(token), nil
}
