package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/bracket-wrap/internal/config"
	"github.com/jwebster45206/bracket-wrap/internal/handlers"
	"github.com/jwebster45206/bracket-wrap/internal/logger"
	"github.com/jwebster45206/bracket-wrap/internal/middleware"
	"github.com/jwebster45206/bracket-wrap/internal/services"
	"github.com/jwebster45206/bracket-wrap/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Bracket Wrap API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"data_dir", cfg.DataDir)

	cache, err := services.NewRedisService(cfg.RedisURL, log)
	if err != nil {
		log.Error("Invalid Redis configuration", "error", err)
		os.Exit(1)
	}
	cacheCtx, cacheCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cacheCancel()

	if err := cache.WaitForConnection(cacheCtx); err != nil {
		log.Error("Failed to connect to cache", "error", err)
		os.Exit(1)
	}

	store := storage.NewFileStore(cfg.DataDir, log)

	mux := http.NewServeMux()
	mux.Handle("/health", handlers.NewHealthHandler(cache, store, log))
	mux.Handle("/v1/brackets/", handlers.NewSlidesHandler(log, store))
	mux.Handle("/v1/groups/search", handlers.NewGroupSearchHandler(log, store))
	mux.Handle("/v1/teams", handlers.NewTeamsHandler(log, store))
	mux.Handle("/v1/stats/", handlers.NewStatsHandler(log, storage.NewStatsStore(cache.GetClient(), cfg.SessionTTL, log)))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.Logger(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := cache.Close(); err != nil {
		log.Error("Error closing cache connection", "error", err)
	}

	log.Info("Server exited")
}
