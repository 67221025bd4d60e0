package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Db      DbConfig      `mapstructure:"db"`
	Token   TokenConfig   `mapstructure:"token"`
	Vault   VaultConfig   `mapstructure:"vault"`
	Queue   QueueConfig   `mapstructure:"queue"`
	Poller  PollerConfig  `mapstructure:"poller"`
	Server  ServerConfig  `mapstructure:"server"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

func (cfg *Config) Validate() error {
	if err := cfg.Db.Validate(); err != nil {
		return fmt.Errorf("invalid db config: %w", err)
	}

	if err := cfg.Token.Validate(); err != nil {
		return fmt.Errorf("invalid token config: %w", err)
	}

	if err := cfg.Vault.Validate(); err != nil {
		return fmt.Errorf("invalid vault config: %w", err)
	}

	if err := cfg.Queue.Validate(); err != nil {
		return fmt.Errorf("invalid queue config: %w", err)
	}

	if err := cfg.Poller.Validate(); err != nil {
		return fmt.Errorf("invalid poller config: %w", err)
	}

	if err := cfg.Server.Validate(); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}

	if err := cfg.Metrics.Validate(); err != nil {
		return fmt.Errorf("invalid metrics config: %w", err)
	}

	return nil
}

// New returns a fully parsed Config object from a given file path.
// Values from the file can be overridden by VAULT_ prefixed environment
// variables, e.g. VAULT_DB_PASSWORD for db.password.
func New(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(cfgFile)
	v.SetEnvPrefix("VAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
