package config

import (
	"fmt"
	"time"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
)

const (
	TokenBackendHTTP   = "http"
	TokenBackendMemory = "memory"

	defaultTokenTimeout       = 15 * time.Second
	defaultTokenMaxRetryTimes = 3
	defaultTokenRetryInterval = 500 * time.Millisecond
)

// GenesisBalance funds the associated token account of Owner for Asset in
// the memory token backend.
type GenesisBalance struct {
	Owner  string `mapstructure:"owner"`
	Asset  string `mapstructure:"asset"`
	Amount uint64 `mapstructure:"amount"`
}

type TokenConfig struct {
	Backend       string           `mapstructure:"backend"`
	URL           string           `mapstructure:"url"`
	Timeout       time.Duration    `mapstructure:"timeout"`
	MaxRetryTimes uint             `mapstructure:"max-retry-times"`
	RetryInterval time.Duration    `mapstructure:"retry-interval"`
	Genesis       []GenesisBalance `mapstructure:"genesis"`
}

func (cfg *TokenConfig) Validate() error {
	if cfg.Backend == "" {
		cfg.Backend = TokenBackendHTTP
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTokenTimeout
	}
	if cfg.MaxRetryTimes == 0 {
		cfg.MaxRetryTimes = defaultTokenMaxRetryTimes
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = defaultTokenRetryInterval
	}

	switch cfg.Backend {
	case TokenBackendHTTP:
		if cfg.URL == "" {
			return fmt.Errorf("token ledger url must be set")
		}
		if len(cfg.Genesis) > 0 {
			return fmt.Errorf("genesis balances are only supported by the memory backend")
		}
	case TokenBackendMemory:
		for _, g := range cfg.Genesis {
			if _, err := authority.ParseIdentity(g.Owner); err != nil {
				return fmt.Errorf("invalid genesis owner: %w", err)
			}
			if _, err := authority.ParseIdentity(g.Asset); err != nil {
				return fmt.Errorf("invalid genesis asset: %w", err)
			}
		}
	default:
		return fmt.Errorf("unknown token backend %q", cfg.Backend)
	}

	return nil
}
