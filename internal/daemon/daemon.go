// Package daemon assembles the long-running filo service: engine, gateway,
// metrics, and lifecycle management.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/desinsight/SnapAGENT-filo-sub009/internal/config"
	"github.com/desinsight/SnapAGENT-filo-sub009/internal/gateway"
	"github.com/desinsight/SnapAGENT-filo-sub009/internal/logger"
	"github.com/desinsight/SnapAGENT-filo-sub009/internal/metrics"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/engine"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/fileop"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/resolver"
)

// Daemon represents the filo daemon service
type Daemon struct {
	config *config.Config
	logger *logger.Logger

	engine        *engine.Engine
	metrics       *metrics.Metrics
	gatewayServer *gateway.Server
	lifecycle     *LifecycleManager

	ctx    context.Context
	cancel context.CancelFunc

	startTime time.Time
	running   bool
	mu        sync.RWMutex
}

// Status describes the running daemon
type Status struct {
	Running   bool          `json:"running"`
	PID       int           `json:"pid"`
	Uptime    time.Duration `json:"uptime"`
	StartedAt time.Time     `json:"started_at"`
}

// New creates a new daemon instance
func New(cfg *config.Config, log *logger.Logger) (*Daemon, error) {
	ctx, cancel := context.WithCancel(context.Background())

	d := &Daemon{
		config: cfg,
		logger: log,
		ctx:    ctx,
		cancel: cancel,
	}

	if cfg.Metrics.Enabled {
		d.metrics = metrics.NewMetrics()
	}

	eng, err := engine.New(engine.Config{
		Home:               cfg.Engine.Home,
		Username:           cfg.Engine.Username,
		Platform:           cfg.Engine.Platform,
		WorkingDir:         cfg.Engine.WorkingDir,
		DataDir:            cfg.DataDir,
		DefaultLocale:      cfg.Engine.DefaultLocale,
		Debounce:           time.Duration(cfg.Watcher.Debounce) * time.Millisecond,
		Staleness:          time.Duration(cfg.Watcher.Staleness) * time.Second,
		ResolveCacheTTL:    time.Duration(cfg.Resolver.CacheTTL) * time.Second,
		SweepInterval:      time.Duration(cfg.Resolver.SweepInterval) * time.Second,
		LearnedThreshold:   cfg.Resolver.LearnedThreshold,
		HeuristicThreshold: cfg.Resolver.HeuristicThreshold,
		NearMatchThreshold: cfg.Resolver.NearMatchThreshold,
		MaxScanDepth:       cfg.Watcher.MaxDepth,
		PersistLearning:    cfg.Learning.Persist,
		Logger:             log.GetZerolog(),
		Observer:           observerOrNil(d.metrics),
		OnCacheUpdated:     d.onCacheUpdated,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	d.engine = eng

	if cfg.Gateway.Enabled {
		server, err := gateway.NewServer(gateway.Config{
			Host:    cfg.Gateway.Host,
			Port:    cfg.Gateway.Port,
			Engine:  eng,
			Metrics: d.metrics,
			Logger:  log.GetZerolog(),
		})
		if err != nil {
			eng.Close()
			cancel()
			return nil, fmt.Errorf("failed to create gateway: %w", err)
		}
		d.gatewayServer = server
	}

	d.lifecycle = NewLifecycleManager(d)

	return d, nil
}

// observerOrNil avoids handing the engine a typed nil observer
func observerOrNil(m *metrics.Metrics) resolver.Observer {
	if m == nil {
		return nil
	}
	return m
}

// onCacheUpdated fans a watcher refresh out to metrics and the gateway
func (d *Daemon) onCacheUpdated(path string, records []fileop.FileRecord) {
	if d.metrics != nil {
		d.metrics.RescansTotal.Inc()
	}
	if d.gatewayServer != nil {
		d.gatewayServer.NotifyCacheUpdated(path, records)
	}
}

// Start starts the daemon
func (d *Daemon) Start() error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return fmt.Errorf("daemon already running")
	}
	d.running = true
	d.startTime = time.Now()
	d.mu.Unlock()

	if err := d.lifecycle.Start(); err != nil {
		return fmt.Errorf("failed to start lifecycle manager: %w", err)
	}

	d.engine.Start(d.ctx)

	if d.gatewayServer != nil {
		if err := d.gatewayServer.Start(); err != nil {
			return fmt.Errorf("failed to start gateway: %w", err)
		}
	}

	d.logger.Info().
		Int("pid", os.Getpid()).
		Bool("gateway", d.gatewayServer != nil).
		Msg("Daemon started")

	return nil
}

// Run starts the daemon and blocks until a shutdown signal arrives
func (d *Daemon) Run() error {
	if err := d.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		d.logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case <-d.ctx.Done():
	}

	return d.Stop()
}

// Stop gracefully stops the daemon
func (d *Daemon) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return nil
	}
	d.running = false
	d.mu.Unlock()

	d.logger.Info().Msg("Stopping daemon")
	d.cancel()

	var firstErr error
	if d.gatewayServer != nil {
		if err := d.gatewayServer.Stop(); err != nil {
			firstErr = err
		}
	}
	if err := d.engine.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := d.lifecycle.Stop(); err != nil && firstErr == nil {
		firstErr = err
	}

	d.logger.Info().Msg("Daemon stopped")
	return firstErr
}

// Status returns the daemon status
func (d *Daemon) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()

	status := Status{
		Running:   d.running,
		PID:       os.Getpid(),
		StartedAt: d.startTime,
	}
	if d.running {
		status.Uptime = time.Since(d.startTime)
	}
	return status
}

// Engine exposes the engine, e.g. for one-shot CLI commands
func (d *Daemon) Engine() *engine.Engine {
	return d.engine
}
