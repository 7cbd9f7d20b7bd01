package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/staffjoy/shiftsolve/internal/config"
	"github.com/staffjoy/shiftsolve/internal/httpapi"
	"github.com/staffjoy/shiftsolve/internal/metrics"
	"github.com/staffjoy/shiftsolve/internal/obslog"
	"github.com/staffjoy/shiftsolve/internal/orgmeta"
	"github.com/staffjoy/shiftsolve/internal/publish"
	"github.com/staffjoy/shiftsolve/internal/shiftsolve"
	"github.com/staffjoy/shiftsolve/internal/taskqueue"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the debug HTTP surface and the task-queue poller",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envOrDefault())
	if err != nil {
		return err
	}
	logger := obslog.New(cfg.Env, cfg.LogLevel)

	cache := shiftsolve.NewMemoryCache()
	orgs := orgmeta.NewFixture()
	publisher := publish.NewHTTPClient("")

	registry := prometheus.NewRegistry()
	collectors := metrics.New(func() float64 { return float64(cache.Len()) })
	collectors.MustRegister(registry)

	var source taskqueue.Source
	if cfg.CacheBackend == "redis" {
		source = taskqueue.NewRedis(cfg.RedisAddr, "shiftsolve:jobs")
	} else {
		source = taskqueue.NewMemory(16)
	}

	handler := buildJobHandler(cfg, logger, cache, orgs, publisher, collectors)

	poller := taskqueue.NewPoller(source, handler, time.Duration(cfg.TaskingFetchIntervalSeconds)*time.Second,
		cfg.KillOnError, time.Duration(cfg.KillDelaySeconds)*time.Second, logger)

	server := httpapi.New(cache, poller.Statuses(), registry, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- poller.Run(ctx) }()

	httpServer := &http.Server{Addr: cfg.HTTPListenAddr, Handler: server.Router()}
	go func() {
		logger.Info("serve: listening", "addr", cfg.HTTPListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("serve: http server exited", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
