package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cloud-ru/mcp-loan-planner-go/internal/config"
	"github.com/cloud-ru/mcp-loan-planner-go/internal/log"
	"github.com/cloud-ru/mcp-loan-planner-go/internal/server"
	"github.com/cloud-ru/mcp-loan-planner-go/internal/tools"
	"github.com/cloud-ru/mcp-loan-planner-go/internal/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger := log.New(log.Config{Level: cfg.SlogLevel(), Component: log.ComponentApp})
	log.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, shutdownTracing, err := tracing.InitTracing(ctx, cfg.OTELServiceName, cfg.OTELEndpoint,
		logger.WithComponent(log.ComponentTracing))
	if err != nil {
		return err
	}

	registry := tools.Registry(cfg, tracer, logger.WithComponent(log.ComponentTools))
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.New(registry, logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting loan planner server", "addr", srv.Addr, "tools", tools.Names(registry))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		return shutdownTracing(shutdownCtx)
	})

	return g.Wait()
}
