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

	"go.uber.org/zap"

	"github.com/koryushka0/shopfront/internal/api"
	"github.com/koryushka0/shopfront/internal/backend"
	"github.com/koryushka0/shopfront/internal/cart"
	"github.com/koryushka0/shopfront/internal/catalog"
	"github.com/koryushka0/shopfront/internal/config"
	"github.com/koryushka0/shopfront/internal/service"
	"github.com/koryushka0/shopfront/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cat, err := catalog.LoadFile(cfg.CatalogFile, logger)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}

	stopWatch, err := cat.Watch(cfg.CatalogFile)
	if err != nil {
		logger.Warn("Catalog watcher unavailable", zap.Error(err))
	} else {
		defer stopWatch()
	}

	st := store.Open(cfg.StateFile, logger)
	engine := cart.NewEngine(st, cat, logger)
	client := backend.NewClient(cfg.Backend, logger)

	checkout := service.NewCheckoutService(engine, cat, client, logger)
	reviews := service.NewReviewService(client, st.ReviewerID(), logger)

	router := api.NewRouter(cfg, api.Deps{
		Catalog:  cat,
		Engine:   engine,
		Checkout: checkout,
		Reviews:  reviews,
	}, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting shopfront", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("Server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("Server stopped")
	}
}
