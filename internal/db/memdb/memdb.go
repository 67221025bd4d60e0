// Package memdb is an in-process implementation of db.DbInterface. It keeps
// every record in maps guarded by a single mutex and is meant for local runs
// and unit tests.
package memdb

import (
	"context"
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
)

type Store struct {
	mu           sync.Mutex
	globalConfig *model.GlobalConfigDocument
	ledgers      map[authority.Identity]model.UserLedgerDocument
	stats        *model.VaultStatsDocument
}

var _ db.DbInterface = (*Store)(nil)

func New() *Store {
	return &Store{
		ledgers: make(map[authority.Identity]model.UserLedgerDocument),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) CreateGlobalConfig(_ context.Context, doc *model.GlobalConfigDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.globalConfig != nil {
		return &db.DuplicateKeyError{
			Key:     model.GlobalConfigID,
			Message: "global config already exists",
		}
	}

	stored := *doc
	stored.ID = model.GlobalConfigID
	s.globalConfig = &stored
	return nil
}

func (s *Store) GetGlobalConfig(_ context.Context) (*model.GlobalConfigDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.globalConfig == nil {
		return nil, &db.NotFoundError{
			Key:     model.GlobalConfigID,
			Message: "global config not found",
		}
	}

	cfg := *s.globalConfig
	return &cfg, nil
}

func (s *Store) UpdateGlobalConfigOwner(_ context.Context, currentOwner, newOwner authority.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.globalConfig == nil || s.globalConfig.Owner != currentOwner {
		return &db.NotFoundError{
			Key:     currentOwner.String(),
			Message: "global config with the given owner not found",
		}
	}

	s.globalConfig.Owner = newOwner
	return nil
}

func (s *Store) GetUserLedger(_ context.Context, owner authority.Identity) (*model.UserLedgerDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, ok := s.ledgers[owner]
	if !ok {
		return nil, notFound(owner)
	}
	return &ledger, nil
}

func (s *Store) CreditUserLedger(
	_ context.Context,
	owner authority.Identity,
	amount uint64,
	updatedTime int64,
) (*model.UserLedgerDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, ok := s.ledgers[owner]
	if !ok {
		ledger = model.UserLedgerDocument{Owner: owner}
	}
	if amount > db.MaxAmount || ledger.Amount > db.MaxAmount-amount {
		return nil, &db.AmountOverflowError{
			Key:     owner.String(),
			Message: fmt.Sprintf("credit would exceed the maximum ledger amount %d", db.MaxAmount),
		}
	}

	ledger.Amount += amount
	ledger.UpdatedTime = updatedTime
	s.ledgers[owner] = ledger

	return &ledger, nil
}

func (s *Store) DebitUserLedger(
	_ context.Context,
	owner authority.Identity,
	amount uint64,
	updatedTime int64,
) (*model.UserLedgerDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, ok := s.ledgers[owner]
	if !ok {
		return nil, notFound(owner)
	}
	if ledger.Amount < amount {
		return nil, &db.InsufficientBalanceError{
			Key:     owner.String(),
			Message: "insufficient balance",
		}
	}

	ledger.Amount -= amount
	ledger.UpdatedTime = updatedTime
	s.ledgers[owner] = ledger

	return &ledger, nil
}

func (s *Store) RevertUserLedgerDebit(
	_ context.Context,
	owner authority.Identity,
	amount uint64,
	previousUpdatedTime int64,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, ok := s.ledgers[owner]
	if !ok {
		return notFound(owner)
	}

	ledger.Amount += amount
	ledger.UpdatedTime = previousUpdatedTime
	s.ledgers[owner] = ledger
	return nil
}

func (s *Store) CalculateTotalStaked(_ context.Context) (sdkmath.Uint, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := sdkmath.ZeroUint()
	var depositors uint64
	for _, ledger := range s.ledgers {
		total = total.Add(sdkmath.NewUint(ledger.Amount))
		if ledger.Amount > 0 {
			depositors++
		}
	}

	return total, depositors, nil
}

func (s *Store) UpsertVaultStats(_ context.Context, stats *model.VaultStatsDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *stats
	stored.ID = model.VaultStatsID
	s.stats = &stored
	return nil
}

func (s *Store) GetVaultStats(_ context.Context) (*model.VaultStatsDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stats == nil {
		return nil, &db.NotFoundError{
			Key:     model.VaultStatsID,
			Message: "vault stats not found",
		}
	}

	stats := *s.stats
	return &stats, nil
}

func notFound(owner authority.Identity) error {
	return &db.NotFoundError{
		Key:     owner.String(),
		Message: "user ledger not found",
	}
}
