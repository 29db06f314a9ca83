package session

import (
	"math"
	"math/rand"
	"time"
)

// BackoffConfig defines the retry backoff engine.connectLoop uses between
// dial attempts once the FSM socket has dropped or refused a connection.
type BackoffConfig struct {
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
}

// Config defines the plugin<->FSM transport's reliability defaults:
// connection attempt timeout, per-request timeout and reconnect backoff.
type Config struct {
	ConnectTimeout    time.Duration
	HandshakeTimeout  time.Duration
	RequestTimeout    time.Duration
	ReconnectInterval time.Duration
	Backoff           BackoffConfig
}

// DefaultConfig returns the plugin's stock timeouts: connectTimeout=5000ms,
// requestTimeout=10000ms, reconnectInterval=3000ms.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout:    5000 * time.Millisecond,
		HandshakeTimeout:  5000 * time.Millisecond,
		RequestTimeout:    10000 * time.Millisecond,
		ReconnectInterval: 3000 * time.Millisecond,
		Backoff: BackoffConfig{
			InitialDelay: 3000 * time.Millisecond,
			Multiplier:   1.0,
			MaxDelay:     3000 * time.Millisecond,
			Jitter:       false,
		},
	}
}

// NextBackoffDelay returns the delay engine.connectLoop should wait before
// dial attempt N (1-based) at the FSM socket. attempt=1 always returns
// InitialDelay; later attempts grow by Multiplier up to MaxDelay, with
// optional jitter to keep a fleet of plugins from redialing in lockstep.
func NextBackoffDelay(cfg BackoffConfig, attempt int, rng *rand.Rand) time.Duration {
	if attempt <= 1 {
		return cfg.InitialDelay
	}
	if cfg.InitialDelay <= 0 {
		return 0
	}
	if cfg.Multiplier < 1.0 {
		cfg.Multiplier = 1.0
	}
	delay := float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attempt-1))
	if cfg.MaxDelay > 0 && delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	if cfg.Jitter {
		f := 0.5
		if rng != nil {
			f = 0.5 + rng.Float64()
		}
		delay = delay * f
	}
	return time.Duration(delay)
}
