package config

import (
	"fmt"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
)

const maxAssetDecimals = 18

type VaultConfig struct {
	// ProgramID binds the derived vault addresses to this deployment.
	ProgramID      string `mapstructure:"program-id"`
	TokenProgramID string `mapstructure:"token-program-id"`
	AssetDecimals  int32  `mapstructure:"asset-decimals"`
}

func (cfg *VaultConfig) Validate() error {
	if _, err := authority.ParseIdentity(cfg.ProgramID); err != nil {
		return fmt.Errorf("invalid program-id: %w", err)
	}
	if _, err := authority.ParseIdentity(cfg.TokenProgramID); err != nil {
		return fmt.Errorf("invalid token-program-id: %w", err)
	}
	if cfg.AssetDecimals < 0 || cfg.AssetDecimals > maxAssetDecimals {
		return fmt.Errorf("asset-decimals must be between 0 and %d", maxAssetDecimals)
	}

	return nil
}

func (cfg *VaultConfig) Program() authority.Identity {
	return authority.Identity(cfg.ProgramID)
}

func (cfg *VaultConfig) TokenProgram() authority.Identity {
	return authority.Identity(cfg.TokenProgramID)
}
