package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	defaultMaxSignatureTTL = 5 * time.Minute
	defaultMetricsPort     = 2112
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// MaxSignatureTTL bounds how far in the future a signed request may expire.
	MaxSignatureTTL time.Duration `mapstructure:"max-signature-ttl"`
}

func (cfg *ServerConfig) Validate() error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return errors.New("server port must be between 1 and 65535")
	}
	if cfg.MaxSignatureTTL <= 0 {
		cfg.MaxSignatureTTL = defaultMaxSignatureTTL
	}

	return nil
}

func (cfg *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

type MetricsConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (cfg *MetricsConfig) Validate() error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return errors.New("metrics port must be between 0 and 65535")
	}

	return nil
}

func (cfg *MetricsConfig) GetMetricsPort() int {
	if cfg.Port == 0 {
		return defaultMetricsPort
	}
	return cfg.Port
}
