package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/chainkit/sendplugin/internal/config"
	"github.com/chainkit/sendplugin/internal/contract"
	"github.com/chainkit/sendplugin/internal/diagnostics"
	"github.com/chainkit/sendplugin/internal/engine"
	"github.com/chainkit/sendplugin/internal/obslog"
	"github.com/chainkit/sendplugin/internal/protocol/session"
)

func main() {
	configPath := flag.String("config", "plugin.toml", "path to the plugin's TOML config file")
	diagAddr := flag.String("diagnostics-addr", "", "override DIAGNOSTICS_ADDR")
	flag.Parse()

	obslog.ConfigureRuntime()
	obslog.RegisterMetrics(prometheus.DefaultRegisterer)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("sendplugin: config load failed")
	}

	sessionCfg := session.DefaultConfig()
	sessionCfg.ConnectTimeout = cfg.ConnectTimeout
	sessionCfg.RequestTimeout = cfg.RequestTimeout
	sessionCfg.ReconnectInterval = cfg.ReconnectInterval
	sessionCfg.Backoff.InitialDelay = cfg.ReconnectInterval
	sessionCfg.Backoff.MaxDelay = cfg.ReconnectInterval

	eng := engine.New(engine.Config{
		ChainID:    cfg.ChainID,
		SocketPath: cfg.SocketPath(),
		Session:    sessionCfg,
	})
	contract.Register(contract.New(cfg.ChainID, eng))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng.Start(ctx)

	addr := os.Getenv(diagnostics.EnvAddr)
	if *diagAddr != "" {
		addr = *diagAddr
	}
	diagServer := diagnostics.New(addr, eng, cfg.DiagnosticsCorsOrigins...)
	boundAddr, err := diagServer.Start()
	if err != nil {
		log.Warn().Err(err).Msg("sendplugin: diagnostics server not started")
	} else {
		log.Info().Str("addr", boundAddr).Msg("sendplugin: diagnostics listening")
	}

	log.Info().Uint64("chainId", cfg.ChainID).Str("socket", cfg.SocketPath()).Msg("sendplugin: started")

	<-ctx.Done()
	log.Info().Msg("sendplugin: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = diagServer.Shutdown(shutdownCtx)
	_ = eng.Close()
}
