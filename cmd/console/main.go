package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/bracket-wrap/internal/config"
	"github.com/jwebster45206/bracket-wrap/internal/logger"
	"github.com/jwebster45206/bracket-wrap/internal/services"
	"github.com/jwebster45206/bracket-wrap/internal/services/events"
	"github.com/jwebster45206/bracket-wrap/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, logFile, err := logger.SetupFile(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logFile.Close()
	}()

	app := &App{
		Config:   cfg,
		Logger:   log,
		CopyText: clipboard.WriteAll,
		RunProgram: func(m tea.Model) error {
			p := tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion())
			_, err := p.Run()
			return err
		},
	}

	if redisSvc := connectRedis(cfg, log); redisSvc != nil {
		defer func() {
			_ = redisSvc.Close()
		}()
		app.Cache = redisSvc
		app.Sessions = storage.NewSessionStore(redisSvc.GetClient(), cfg.SessionTTL, log)
		app.Events = events.NewBroadcaster(redisSvc.GetClient(), log)
	}

	cmd := NewRootCommand(app)
	if err := cmd.Execute(); err != nil {
		code, ok := IsExitError(err)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			code = 1
		}
		os.Exit(code)
	}
}

// connectRedis returns nil when Redis is not reachable. The player still runs
// without it, just with no response cache, sessions or events.
func connectRedis(cfg *config.Config, log *slog.Logger) *services.RedisService {
	if cfg.RedisURL == "" {
		return nil
	}
	svc, err := services.NewRedisService(cfg.RedisURL, log)
	if err != nil {
		log.Warn("Invalid Redis configuration, continuing without cache", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		log.Warn("Redis unavailable, continuing without cache", "error", err)
		_ = svc.Close()
		return nil
	}
	return svc
}
