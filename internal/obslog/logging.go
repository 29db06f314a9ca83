// Package obslog carries the plugin's ambient observability stack:
// zerolog-based structured logging, configured from LOG_LEVEL, and
// Prometheus counters/histograms for the protocol engine and contract.
package obslog

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvLogLevel is the only environment variable this package reads.
const EnvLogLevel = "LOG_LEVEL"

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

var configureOnce sync.Once

func ConfigureRuntime() zerolog.Logger { return Configure(ProfileRuntime) }

func ConfigureTests() zerolog.Logger { return Configure(ProfileTest) }

// Configure builds and installs the process-wide zerolog logger. It is
// idempotent: only the first call actually applies a configuration.
func Configure(profile Profile) zerolog.Logger {
	var logger zerolog.Logger
	configureOnce.Do(func() {
		level := defaultLevel(profile)
		if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
			level = lvl
		}
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
			NoColor:    profile == ProfileTest,
		}
		logger = zerolog.New(output).Level(level).With().Timestamp().Str("app", "sendplugin").Logger()
		log.Logger = logger
	})
	if logger.GetLevel() == zerolog.NoLevel {
		return log.Logger
	}
	return logger
}

func defaultLevel(profile Profile) zerolog.Level {
	if profile == ProfileTest {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}
