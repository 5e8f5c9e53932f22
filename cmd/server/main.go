package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mon-auxiliaire/internal/auth"
	"mon-auxiliaire/internal/config"
	"mon-auxiliaire/internal/database"
	"mon-auxiliaire/internal/handlers"
	"mon-auxiliaire/internal/logging"
	"mon-auxiliaire/internal/server"
	"mon-auxiliaire/internal/store"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func openStore(cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		return store.NewMemory(), nil
	}

	db, err := database.Open(cfg.StorageDriver, cfg.DBDSN, logger)
	if err != nil {
		return nil, err
	}
	return store.NewGorm(db), nil
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if cfg.JWTSecret == config.DevJWTSecret {
		logger.Warn("JWT_SECRET not set, using development secret")
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := database.SeedAdmin(ctx, st, cfg.AdminUsername, cfg.AdminPassword, logger); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if cfg.SeedDemo {
		if err := database.SeedDemo(ctx, st, time.Now(), logger); err != nil {
			return fmt.Errorf("seed demo: %w", err)
		}
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	h := handlers.New(st, auth.NewService(st, tokens), logger)
	r := server.NewRouter(cfg, h, tokens, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
