package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	sdkmath "cosmossdk.io/math"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
)

func (s *Store) CreateGlobalConfig(ctx context.Context, doc *model.GlobalConfigDocument) error {
	row := globalConfigFromDocument(doc)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return &db.DuplicateKeyError{
				Key:     model.GlobalConfigID,
				Message: "global config already exists",
			}
		}
		return err
	}

	doc.ID = model.GlobalConfigID
	return nil
}

func (s *Store) GetGlobalConfig(ctx context.Context) (*model.GlobalConfigDocument, error) {
	var row globalConfigRow
	err := s.db.WithContext(ctx).
		Where("id = ?", model.GlobalConfigID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &db.NotFoundError{
				Key:     model.GlobalConfigID,
				Message: "global config not found",
			}
		}
		return nil, err
	}

	return row.toDocument(), nil
}

func (s *Store) UpdateGlobalConfigOwner(ctx context.Context, currentOwner, newOwner authority.Identity) error {
	res := s.db.WithContext(ctx).
		Model(&globalConfigRow{}).
		Where("id = ? AND owner = ?", model.GlobalConfigID, currentOwner.String()).
		Update("owner", newOwner.String())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &db.NotFoundError{
			Key:     currentOwner.String(),
			Message: "global config with the given owner not found",
		}
	}

	return nil
}

func (s *Store) GetUserLedger(ctx context.Context, owner authority.Identity) (*model.UserLedgerDocument, error) {
	var row userLedgerRow
	err := s.db.WithContext(ctx).
		Where("owner = ?", owner.String()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerNotFound(owner)
		}
		return nil, err
	}

	return row.toDocument(), nil
}

func (s *Store) CreditUserLedger(
	ctx context.Context,
	owner authority.Identity,
	amount uint64,
	updatedTime int64,
) (*model.UserLedgerDocument, error) {
	if amount > db.MaxAmount {
		return nil, overflowError(owner)
	}

	var result userLedgerRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// a concurrent first credit may win the insert, in which case the
		// row exists and is locked on the second pass
		inserted := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&userLedgerRow{
			Owner:       owner.String(),
			Amount:      int64(amount),
			UpdatedTime: updatedTime,
		})
		if inserted.Error != nil {
			return inserted.Error
		}

		row, err := lockUserLedger(tx, owner)
		if err != nil {
			return err
		}
		if inserted.RowsAffected == 1 {
			result = row
			return nil
		}

		if uint64(row.Amount) > db.MaxAmount-amount {
			return overflowError(owner)
		}

		row.Amount += int64(amount)
		row.UpdatedTime = updatedTime
		if err := saveUserLedger(tx, row); err != nil {
			return err
		}
		result = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result.toDocument(), nil
}

func (s *Store) DebitUserLedger(
	ctx context.Context,
	owner authority.Identity,
	amount uint64,
	updatedTime int64,
) (*model.UserLedgerDocument, error) {
	var result userLedgerRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := lockUserLedger(tx, owner)
		if err != nil {
			return err
		}
		if uint64(row.Amount) < amount {
			return &db.InsufficientBalanceError{
				Key:     owner.String(),
				Message: "insufficient balance",
			}
		}

		row.Amount -= int64(amount)
		row.UpdatedTime = updatedTime
		if err := saveUserLedger(tx, row); err != nil {
			return err
		}
		result = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result.toDocument(), nil
}

func (s *Store) RevertUserLedgerDebit(
	ctx context.Context,
	owner authority.Identity,
	amount uint64,
	previousUpdatedTime int64,
) error {
	res := s.db.WithContext(ctx).
		Model(&userLedgerRow{}).
		Where("owner = ?", owner.String()).
		Updates(map[string]any{
			"amount":       gorm.Expr("amount + ?", int64(amount)),
			"updated_time": previousUpdatedTime,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ledgerNotFound(owner)
	}

	return nil
}

func (s *Store) CalculateTotalStaked(ctx context.Context) (sdkmath.Uint, uint64, error) {
	var result struct {
		Total      string
		Depositors int64
	}
	err := s.db.WithContext(ctx).
		Raw(`SELECT COALESCE(SUM(amount), 0)::text AS total,
			COUNT(*) FILTER (WHERE amount > 0) AS depositors
			FROM ` + model.UserLedgerCollection).
		Scan(&result).
		Error
	if err != nil {
		return sdkmath.ZeroUint(), 0, err
	}

	total, err := sdkmath.ParseUint(result.Total)
	if err != nil {
		return sdkmath.ZeroUint(), 0, fmt.Errorf("invalid total %q: %w", result.Total, err)
	}

	return total, uint64(result.Depositors), nil
}

func (s *Store) UpsertVaultStats(ctx context.Context, stats *model.VaultStatsDocument) error {
	row := vaultStatsRow{
		ID:           model.VaultStatsID,
		TotalStaked:  stats.TotalStaked,
		VaultBalance: strconv.FormatUint(stats.VaultBalance, 10),
		Depositors:   int64(stats.Depositors),
		Healthy:      stats.Healthy,
		LastUpdated:  stats.LastUpdated,
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&row).
		Error
}

func (s *Store) GetVaultStats(ctx context.Context) (*model.VaultStatsDocument, error) {
	var row vaultStatsRow
	err := s.db.WithContext(ctx).
		Where("id = ?", model.VaultStatsID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &db.NotFoundError{
				Key:     model.VaultStatsID,
				Message: "vault stats not found",
			}
		}
		return nil, err
	}

	balance, err := strconv.ParseUint(row.VaultBalance, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid vault balance %q: %w", row.VaultBalance, err)
	}

	return &model.VaultStatsDocument{
		ID:           row.ID,
		TotalStaked:  row.TotalStaked,
		VaultBalance: balance,
		Depositors:   uint64(row.Depositors),
		Healthy:      row.Healthy,
		LastUpdated:  row.LastUpdated,
	}, nil
}

func lockUserLedger(tx *gorm.DB, owner authority.Identity) (userLedgerRow, error) {
	var row userLedgerRow
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("owner = ?", owner.String()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return row, ledgerNotFound(owner)
		}
		return row, err
	}
	return row, nil
}

func saveUserLedger(tx *gorm.DB, row userLedgerRow) error {
	return tx.Model(&userLedgerRow{}).
		Where("owner = ?", row.Owner).
		Updates(map[string]any{
			"amount":       row.Amount,
			"updated_time": row.UpdatedTime,
		}).
		Error
}

func ledgerNotFound(owner authority.Identity) error {
	return &db.NotFoundError{
		Key:     owner.String(),
		Message: "user ledger not found",
	}
}

func overflowError(owner authority.Identity) error {
	return &db.AmountOverflowError{
		Key:     owner.String(),
		Message: fmt.Sprintf("credit would exceed the maximum ledger amount %d", db.MaxAmount),
	}
}
