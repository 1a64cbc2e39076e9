package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/credstore/credstore/internal/config"
	"github.com/credstore/credstore/internal/infra"
	"github.com/credstore/credstore/internal/kv"
	"github.com/credstore/credstore/internal/logging"
	"github.com/credstore/credstore/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.AppName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, closeStore, err := openStore(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("open credential store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	srv, err := server.New(cfg, store, logger)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()
	logger.Info("server started", "address", cfg.Address(), "backend", cfg.StoreBackend, "env", cfg.AppEnv)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (kv.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client, err := infra.NewRedisClient(ctx, cfg.RedisURL, infra.RedisOptions{ClientName: cfg.AppName, Timeout: cfg.StoreTimeout})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}
		return kv.NewRedisStore(client, cfg.KeyPrefix), closeFn, nil
	case config.BackendPostgres:
		pool, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL, cfg.AppName)
		if err != nil {
			return nil, nil, err
		}
		store := kv.NewPostgresStore(pool, cfg.KeyPrefix)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	default:
		logger.Warn("using in-memory credential store; records are lost on restart")
		return kv.NewMemory(), func() {}, nil
	}
}
