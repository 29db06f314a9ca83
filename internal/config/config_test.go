package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plugin.toml")
	if err := os.WriteFile(path, []byte("chain_id = 1\ndata_dir = \"/tmp/fsm\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ChainID != 1 {
		t.Fatalf("chain id = %d", cfg.ChainID)
	}
	if cfg.RequestTimeout != 10000*time.Millisecond {
		t.Fatalf("request timeout = %v", cfg.RequestTimeout)
	}
	if cfg.SocketPath() != filepath.Join("/tmp/fsm", "plugin.sock") {
		t.Fatalf("socket path = %s", cfg.SocketPath())
	}
}

func TestLoadMissingChainIDFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plugin.toml")
	if err := os.WriteFile(path, []byte("data_dir = \"/tmp/fsm\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for missing chain_id")
	}
}
