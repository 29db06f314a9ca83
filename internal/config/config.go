// Package config loads the plugin's external-collaborator configuration:
// chainID and dataDir, plus the protocol engine's timeout/backoff knobs.
// Persisting and bootstrapping this file is outside the plugin's
// responsibility; this package only turns it into a typed Config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the plugin's startup configuration.
type Config struct {
	ChainID uint64 `toml:"chain_id"`
	DataDir string `toml:"data_dir"`

	ConnectTimeout    time.Duration `toml:"connect_timeout"`
	RequestTimeout    time.Duration `toml:"request_timeout"`
	ReconnectInterval time.Duration `toml:"reconnect_interval"`

	DiagnosticsCorsOrigins []string `toml:"diagnostics_cors_origins"`
}

// SocketPath returns <dataDir>/plugin.sock, the Unix socket the plugin
// dials as a client.
func (c Config) SocketPath() string {
	return filepath.Join(c.DataDir, "plugin.sock")
}

func defaults() Config {
	return Config{
		ConnectTimeout:    5000 * time.Millisecond,
		RequestTimeout:    10000 * time.Millisecond,
		ReconnectInterval: 3000 * time.Millisecond,
	}
}

// Load reads and validates a plugin config file at path, applying defaults
// for any timeout/backoff field left at its zero value.
func Load(path string) (Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = defaults().ConnectTimeout
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaults().RequestTimeout
	}
	if cfg.ReconnectInterval == 0 {
		cfg.ReconnectInterval = defaults().ReconnectInterval
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields the plugin cannot run without.
func Validate(cfg Config) error {
	if cfg.DataDir == "" {
		return fmt.Errorf("config missing data_dir")
	}
	if cfg.ChainID == 0 {
		return fmt.Errorf("config missing chain_id")
	}
	return nil
}
