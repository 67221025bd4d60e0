package model

import "github.com/babylonlabs-io/token-vault-ledger/internal/authority"

const (
	GlobalConfigCollection = "global_config"
	// GlobalConfigID is the key of the only global config document.
	GlobalConfigID = "singleton"
)

// GlobalConfigDocument is created once by initialize. Only Owner changes
// afterwards.
type GlobalConfigDocument struct {
	ID                 string             `bson:"_id"`
	Owner              authority.Identity `bson:"owner"`
	AssetID            authority.Identity `bson:"asset_id"`
	Vault              authority.Identity `bson:"vault"`
	VaultAuthority     authority.Identity `bson:"vault_authority"`
	VaultAuthorityBump uint8              `bson:"vault_authority_bump"`
	ProgramID          authority.Identity `bson:"program_id"`
	CreatedTime        int64              `bson:"created_time"`
}

func NewGlobalConfigDocument(
	owner, assetID, vault, vaultAuthority authority.Identity,
	vaultAuthorityBump uint8,
	programID authority.Identity,
	createdTime int64,
) *GlobalConfigDocument {
	return &GlobalConfigDocument{
		ID:                 GlobalConfigID,
		Owner:              owner,
		AssetID:            assetID,
		Vault:              vault,
		VaultAuthority:     vaultAuthority,
		VaultAuthorityBump: vaultAuthorityBump,
		ProgramID:          programID,
		CreatedTime:        createdTime,
	}
}
