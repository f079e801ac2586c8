// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads the settings of a libfund client from a YAML file
// and LIBFUND_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable Load consults. Nested keys
// join with underscores: LIBFUND_REDIS_ADDR sets redis.addr.
const EnvPrefix = "LIBFUND"

// Config holds all client configuration.
type Config struct {
	DataDir   string          `mapstructure:"datadir"`
	Network   string          `mapstructure:"network"`
	LogLevel  string          `mapstructure:"loglevel"`
	LogPretty bool            `mapstructure:"logpretty"`
	RPC       RPCConfig       `mapstructure:"rpc"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Indexer   IndexerConfig   `mapstructure:"indexer"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

// RPCConfig points at a remote node. Empty fields fall back to the
// network's preset.
type RPCConfig struct {
	URL      string `mapstructure:"url"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// DiscoveryConfig enables SRV lookup of RPC endpoints under Domain.
type DiscoveryConfig struct {
	Domain   string `mapstructure:"domain"`
	DNSSEC   bool   `mapstructure:"dnssec"`
	Upstream string `mapstructure:"upstream"`
}

// IndexerConfig enables the Postgres resource catalog when DSN is set.
type IndexerConfig struct {
	DSN            string `mapstructure:"dsn"`
	MigrateOnStart bool   `mapstructure:"migrate_on_start"`
}

// RedisConfig enables Redis resource reservations when Addr is set.
type RedisConfig struct {
	Addr           string        `mapstructure:"addr"`
	Password       string        `mapstructure:"password"`
	DB             int           `mapstructure:"db"`
	ReservationTTL time.Duration `mapstructure:"reservation_ttl"`
}

// DefaultDataDir returns ~/.libfund, or .libfund when the home directory
// cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".libfund"
	}
	return filepath.Join(home, ".libfund")
}

// ConfigPath returns the config file location inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config.yaml")
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		DataDir:  DefaultDataDir(),
		Network:  "local",
		LogLevel: "info",
		Discovery: DiscoveryConfig{
			Upstream: "1.1.1.1:53",
		},
		Redis: RedisConfig{
			ReservationTTL: 2 * time.Minute,
		},
	}
}

// setDefaults registers every key so that environment variables are
// honoured by Unmarshal even when the file does not mention them.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("datadir", cfg.DataDir)
	v.SetDefault("network", cfg.Network)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("logpretty", cfg.LogPretty)
	v.SetDefault("rpc.url", cfg.RPC.URL)
	v.SetDefault("rpc.user", cfg.RPC.User)
	v.SetDefault("rpc.password", cfg.RPC.Password)
	v.SetDefault("discovery.domain", cfg.Discovery.Domain)
	v.SetDefault("discovery.dnssec", cfg.Discovery.DNSSEC)
	v.SetDefault("discovery.upstream", cfg.Discovery.Upstream)
	v.SetDefault("indexer.dsn", cfg.Indexer.DSN)
	v.SetDefault("indexer.migrate_on_start", cfg.Indexer.MigrateOnStart)
	v.SetDefault("redis.addr", cfg.Redis.Addr)
	v.SetDefault("redis.password", cfg.Redis.Password)
	v.SetDefault("redis.db", cfg.Redis.DB)
	v.SetDefault("redis.reservation_ttl", cfg.Redis.ReservationTTL.String())
}

// Environment variables for the node endpoint. Every other key follows the
// EnvPrefix rule.
const (
	EnvRPCURL      = EnvPrefix + "_RPC_URL"
	EnvRPCUser     = EnvPrefix + "_RPC_USER"
	EnvRPCPassword = EnvPrefix + "_RPC_PASSWORD"
	EnvRPCPass     = EnvPrefix + "_RPC_PASS"
)

// newViper returns a viper instance defaulted to base with environment
// overrides enabled.
func newViper(base Config) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v, base)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("rpc.password", EnvRPCPassword, EnvRPCPass); err != nil {
		return nil, fmt.Errorf("config: bind env: %w", err)
	}
	return v, nil
}

// FromEnv applies LIBFUND_* environment variables over base without reading
// any file. It serves callers that build a Config in code.
func FromEnv(base Config) (*Config, error) {
	v, err := newViper(base)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
	}
	return &cfg, nil
}

// Load reads the YAML file at path over DefaultConfig, then applies
// environment overrides. With an empty path, config.yaml in the default
// data directory is used if present. An explicit path must exist.
func Load(path string) (*Config, error) {
	v, err := newViper(DefaultConfig())
	if err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = ConfigPath(DefaultDataDir())
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		switch {
		case missing && explicit:
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		case !missing:
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
	}
	return &cfg, nil
}

// SaveConfig writes cfg to path as YAML, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("datadir", cfg.DataDir)
	v.Set("network", cfg.Network)
	v.Set("loglevel", cfg.LogLevel)
	v.Set("logpretty", cfg.LogPretty)
	v.Set("rpc.url", cfg.RPC.URL)
	v.Set("rpc.user", cfg.RPC.User)
	v.Set("rpc.password", cfg.RPC.Password)
	v.Set("discovery.domain", cfg.Discovery.Domain)
	v.Set("discovery.dnssec", cfg.Discovery.DNSSEC)
	v.Set("discovery.upstream", cfg.Discovery.Upstream)
	v.Set("indexer.dsn", cfg.Indexer.DSN)
	v.Set("indexer.migrate_on_start", cfg.Indexer.MigrateOnStart)
	v.Set("redis.addr", cfg.Redis.Addr)
	v.Set("redis.password", cfg.Redis.Password)
	v.Set("redis.db", cfg.Redis.DB)
	v.Set("redis.reservation_ttl", cfg.Redis.ReservationTTL.String())

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return os.Chmod(path, 0600)
}
