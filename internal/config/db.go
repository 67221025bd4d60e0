package config

import (
	"fmt"
)

const (
	DbBackendMongo    = "mongo"
	DbBackendPostgres = "postgres"
	DbBackendMemory   = "memory"
)

type DbConfig struct {
	Backend  string `mapstructure:"backend"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DbName   string `mapstructure:"db-name"`
	Address  string `mapstructure:"address"`
	// DSN is the postgres connection string, used only by the postgres backend.
	DSN string `mapstructure:"dsn"`
}

func (cfg *DbConfig) Validate() error {
	if cfg.Backend == "" {
		cfg.Backend = DbBackendMongo
	}

	switch cfg.Backend {
	case DbBackendMongo:
		if cfg.Username == "" {
			return fmt.Errorf("missing db username")
		}
		if cfg.Password == "" {
			return fmt.Errorf("missing db password")
		}
		if cfg.Address == "" {
			return fmt.Errorf("missing db address")
		}
		if cfg.DbName == "" {
			return fmt.Errorf("missing db name")
		}
	case DbBackendPostgres:
		if cfg.DSN == "" {
			return fmt.Errorf("missing db dsn")
		}
	case DbBackendMemory:
	default:
		return fmt.Errorf("unknown db backend %q", cfg.Backend)
	}

	return nil
}
