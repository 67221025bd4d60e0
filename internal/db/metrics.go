package db

import (
	"context"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
	"github.com/babylonlabs-io/token-vault-ledger/internal/observability/metrics"
)

type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) CreateGlobalConfig(ctx context.Context, doc *model.GlobalConfigDocument) error {
	return d.run("CreateGlobalConfig", func() error {
		return d.db.CreateGlobalConfig(ctx, doc)
	})
}

func (d *DbWithMetrics) GetGlobalConfig(ctx context.Context) (result *model.GlobalConfigDocument, err error) {
	//nolint:errcheck
	d.run("GetGlobalConfig", func() error {
		result, err = d.db.GetGlobalConfig(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) UpdateGlobalConfigOwner(ctx context.Context, currentOwner, newOwner authority.Identity) error {
	return d.run("UpdateGlobalConfigOwner", func() error {
		return d.db.UpdateGlobalConfigOwner(ctx, currentOwner, newOwner)
	})
}

func (d *DbWithMetrics) GetUserLedger(ctx context.Context, owner authority.Identity) (result *model.UserLedgerDocument, err error) {
	//nolint:errcheck
	d.run("GetUserLedger", func() error {
		result, err = d.db.GetUserLedger(ctx, owner)
		return err
	})
	return
}

func (d *DbWithMetrics) CreditUserLedger(ctx context.Context, owner authority.Identity, amount uint64, updatedTime int64) (result *model.UserLedgerDocument, err error) {
	//nolint:errcheck
	d.run("CreditUserLedger", func() error {
		result, err = d.db.CreditUserLedger(ctx, owner, amount, updatedTime)
		return err
	})
	return
}

func (d *DbWithMetrics) DebitUserLedger(ctx context.Context, owner authority.Identity, amount uint64, updatedTime int64) (result *model.UserLedgerDocument, err error) {
	//nolint:errcheck
	d.run("DebitUserLedger", func() error {
		result, err = d.db.DebitUserLedger(ctx, owner, amount, updatedTime)
		return err
	})
	return
}

func (d *DbWithMetrics) RevertUserLedgerDebit(ctx context.Context, owner authority.Identity, amount uint64, previousUpdatedTime int64) error {
	return d.run("RevertUserLedgerDebit", func() error {
		return d.db.RevertUserLedgerDebit(ctx, owner, amount, previousUpdatedTime)
	})
}

func (d *DbWithMetrics) CalculateTotalStaked(ctx context.Context) (total sdkmath.Uint, depositors uint64, err error) {
	//nolint:errcheck
	d.run("CalculateTotalStaked", func() error {
		total, depositors, err = d.db.CalculateTotalStaked(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) UpsertVaultStats(ctx context.Context, stats *model.VaultStatsDocument) error {
	return d.run("UpsertVaultStats", func() error {
		return d.db.UpsertVaultStats(ctx, stats)
	})
}

func (d *DbWithMetrics) GetVaultStats(ctx context.Context) (result *model.VaultStatsDocument, err error) {
	//nolint:errcheck
	d.run("GetVaultStats", func() error {
		result, err = d.db.GetVaultStats(ctx)
		return err
	})
	return
}

// run is private method that executes passed lambda function and send metrics data with spent time, method name
// and an error if any. It returns the error from the lambda function for convenience
func (d *DbWithMetrics) run(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordDbLatency(duration, method, err != nil)
	return err
}
