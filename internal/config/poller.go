package config

import (
	"time"
)

const defaultInvariantPollingInterval = 1 * time.Minute

type PollerConfig struct {
	InvariantPollingInterval time.Duration `mapstructure:"invariant-polling-interval"`
}

func (cfg *PollerConfig) Validate() error {
	// the auditor is optional to configure, fall back to the default
	if cfg.InvariantPollingInterval <= 0 {
		cfg.InvariantPollingInterval = defaultInvariantPollingInterval
	}

	return nil
}
