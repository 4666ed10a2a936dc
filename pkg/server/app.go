package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	drepo "DivScout/internal/domain/repository"
	pkgch "DivScout/pkg/clickhouse"
	"DivScout/pkg/config"
	xhttp "DivScout/pkg/http"
	xlogger "DivScout/pkg/logger"
)

// App owns the process lifecycle: it starts the HTTP server and tears down
// every infrastructure client on shutdown.
type App struct {
	cfg     *config.Config
	logger  *xlogger.Logger
	handler xhttp.Handler

	httpServer *xhttp.Server
	chClient   *pkgch.Client
	audit      drepo.LookupAudit
	quota      drepo.QuotaStore
	closers    []func() error
}

// New creates an App. chClient and quota may be nil when their features are
// disabled in config.
func New(
	cfg *config.Config,
	logger *xlogger.Logger,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	audit drepo.LookupAudit,
	quota drepo.QuotaStore,
) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		handler:  handler,
		chClient: chClient,
		audit:    audit,
		quota:    quota,
	}
}

// AddCloser registers an extra resource to close on shutdown, in LIFO order.
func (a *App) AddCloser(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(true),
	}
	if a.cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetricsPath(a.cfg.Metrics.Path))
	} else {
		opts = append(opts, xhttp.WithMetricsPath(""))
	}
	a.httpServer = xhttp.NewServer(a.handler, opts...)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", xlogger.Error(err))
		return err
	}
	a.logger.Info("server started",
		xlogger.Int("port", a.cfg.Server.Port),
		xlogger.String("environment", a.cfg.Environment))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", xlogger.Error(err))
	}

	// Flush pending audit events before the ClickHouse connection goes away.
	if a.audit != nil {
		if err := a.audit.Close(); err != nil {
			a.logger.Warn("audit close error", xlogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", xlogger.Error(err))
		}
	}
	if a.quota != nil {
		a.quota.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("resource close error", xlogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
