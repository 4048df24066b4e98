package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	rediscache "dog-breed-social/internal/adapters/cache/redis"
	"dog-breed-social/internal/config"
	"dog-breed-social/internal/middleware"
	"dog-breed-social/internal/platform/logger"
	"dog-breed-social/internal/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	defer func() { _ = log.Sync() }()

	if cfg.JWTSecretGenerated {
		log.Warn("JWT_SECRET not set, using a random secret; sessions will not survive a restart", nil)
	}

	db, err := router.OpenDB(cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		log.Info("using postgres storage", nil)
	} else {
		log.Info("using in-memory storage", nil)
	}

	// Sin redis el catálogo se sirve sin cache.
	var cache middleware.ResponseCache
	if cfg.RedisAddr != "" {
		rc, err := rediscache.New(context.Background(), rediscache.Options{Addr: cfg.RedisAddr})
		if err != nil {
			log.Warn("redis unavailable, response cache disabled", map[string]any{"addr": cfg.RedisAddr, "err": err})
		} else {
			defer rc.Close()
			cache = rc
		}
	}

	h, err := router.NewRouter(router.Options{
		Config: cfg,
		Logger: log,
		DB:     db,
		Cache:  cache,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "hosted_backend": cfg.HostedBackend()})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
