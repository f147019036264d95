package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/Virv12/mpris-over-http/api"
	"github.com/Virv12/mpris-over-http/backend/mpris"
	"github.com/Virv12/mpris-over-http/backend/zeroconf"
	"github.com/Virv12/mpris-over-http/config"
	"github.com/Virv12/mpris-over-http/logger"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		logger.Fatal("[%s] failed to load config: %v", config.AppName, err)
	}

	// Set log level from config and keep it live on config file edits
	logger.SetLevel(cfg.LogLevel)
	config.Watch()

	// Global context for the entire application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MPRIS backend: the only player-control transport
	m, err := mpris.New(ctx, cfg.MPRIS.Timeout, cfg.Api.PositionRefresh)
	if err != nil {
		logger.Fatal("[%s] backend initialization failed: %v", config.AppName, err)
	}
	if err := m.Start(); err != nil {
		logger.Fatal("[%s] backend start failed: %v", config.AppName, err)
	}

	// Announce the API on the local network
	z, err := zeroconf.New(ctx, cfg.Zeroconf)
	if err != nil {
		logger.Warn("[%s] zeroconf initialization failed: %v", config.AppName, err)
	}
	if z != nil {
		if err := z.Start(); err != nil {
			logger.Warn("[%s] zeroconf publish failed: %v", config.AppName, err)
		}
	}

	server := api.NewServer(cfg.Api, m)

	// Channel to synchronize shutdown
	shutdownDone := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("[%s] shutdown signal received, stopping server...", config.AppName)
		daemon.SdNotify(false, daemon.SdNotifyStopping)

		// Cancel the global context - stops the server and all watchers
		cancel()

		m.Close()
		close(shutdownDone)
	}()

	logger.Info("[%s] started", config.AppName)
	daemon.SdNotify(false, daemon.SdNotifyReady)

	if server != nil {
		if err := server.Run(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("[%s] http server error: %v", config.AppName, err)
		}
	}

	<-shutdownDone
	logger.Info("[%s] stopped", config.AppName)
}
