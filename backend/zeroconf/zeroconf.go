package zeroconf

import (
	"context"
	"fmt"
	"sync"

	"github.com/grandcat/zeroconf"

	"github.com/Virv12/mpris-over-http/config"
	"github.com/Virv12/mpris-over-http/logger"
)

// Backend announces the HTTP API as an mDNS service on the local network.
type Backend struct {
	Config *config.ZeroConfig

	server *zeroconf.Server
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
}

// New creates a ZeroConf backend ready to be published.
// Returns nil when zeroconf is disabled.
func New(ctx context.Context, cfg *config.ZeroConfig) (*Backend, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	subCtx, cancel := context.WithCancel(ctx)

	return &Backend{
		Config: cfg,
		ctx:    subCtx,
		cancel: cancel,
	}, nil
}

// Start publishes the service and ties its lifetime to the context.
func (z *Backend) Start() error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.server != nil {
		return fmt.Errorf("service already started")
	}

	server, err := zeroconf.Register(
		z.Config.InstanceName,
		z.Config.ServiceType,
		z.Config.Domain,
		z.Config.Port,
		z.Config.TxtRecords,
		nil,
	)
	if err != nil {
		return err
	}

	z.server = server
	logger.Info("[discovery] service '%s' published on the local network (type: %s, port: %d)",
		z.Config.InstanceName, z.Config.ServiceType, z.Config.Port)

	go func() {
		<-z.ctx.Done()
		z.Shutdown()
	}()

	return nil
}

// Shutdown unpublishes the service.
func (z *Backend) Shutdown() {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.server != nil {
		z.server.Shutdown()
		z.server = nil
		logger.Debug("[discovery] service '%s' stopped", z.Config.InstanceName)
	}

	if z.cancel != nil {
		z.cancel()
		z.cancel = nil
	}
}
