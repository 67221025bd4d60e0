package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
)

type globalConfigRow struct {
	ID                 string `gorm:"column:id;primaryKey"`
	Owner              string `gorm:"column:owner;not null"`
	AssetID            string `gorm:"column:asset_id;not null"`
	Vault              string `gorm:"column:vault;not null"`
	VaultAuthority     string `gorm:"column:vault_authority;not null"`
	VaultAuthorityBump int16  `gorm:"column:vault_authority_bump;not null"`
	ProgramID          string `gorm:"column:program_id;not null"`
	CreatedTime        int64  `gorm:"column:created_time;not null"`
}

func (globalConfigRow) TableName() string {
	return model.GlobalConfigCollection
}

func globalConfigFromDocument(doc *model.GlobalConfigDocument) globalConfigRow {
	return globalConfigRow{
		ID:                 model.GlobalConfigID,
		Owner:              doc.Owner.String(),
		AssetID:            doc.AssetID.String(),
		Vault:              doc.Vault.String(),
		VaultAuthority:     doc.VaultAuthority.String(),
		VaultAuthorityBump: int16(doc.VaultAuthorityBump),
		ProgramID:          doc.ProgramID.String(),
		CreatedTime:        doc.CreatedTime,
	}
}

func (r globalConfigRow) toDocument() *model.GlobalConfigDocument {
	return &model.GlobalConfigDocument{
		ID:                 r.ID,
		Owner:              authority.Identity(r.Owner),
		AssetID:            authority.Identity(r.AssetID),
		Vault:              authority.Identity(r.Vault),
		VaultAuthority:     authority.Identity(r.VaultAuthority),
		VaultAuthorityBump: uint8(r.VaultAuthorityBump),
		ProgramID:          authority.Identity(r.ProgramID),
		CreatedTime:        r.CreatedTime,
	}
}

type userLedgerRow struct {
	Owner       string `gorm:"column:owner;primaryKey"`
	Amount      int64  `gorm:"column:amount;not null;check:chk_user_ledger_amount,amount >= 0"`
	UpdatedTime int64  `gorm:"column:updated_time;not null;index"`
}

func (userLedgerRow) TableName() string {
	return model.UserLedgerCollection
}

// amounts never exceed db.MaxAmount so the conversions below are lossless
func (r userLedgerRow) toDocument() *model.UserLedgerDocument {
	return &model.UserLedgerDocument{
		Owner:       authority.Identity(r.Owner),
		Amount:      uint64(r.Amount),
		UpdatedTime: r.UpdatedTime,
	}
}

type vaultStatsRow struct {
	ID           string `gorm:"column:id;primaryKey"`
	TotalStaked  string `gorm:"column:total_staked;type:text;not null"`
	VaultBalance string `gorm:"column:vault_balance;type:text;not null"`
	Depositors   int64  `gorm:"column:depositors;not null"`
	Healthy      bool   `gorm:"column:healthy;not null"`
	LastUpdated  int64  `gorm:"column:last_updated;not null"`
}

func (vaultStatsRow) TableName() string {
	return model.VaultStatsCollection
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
