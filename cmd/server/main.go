package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/keepsakehq/keepsake/internal/api"
	"github.com/keepsakehq/keepsake/internal/factory"
	redisstorage "github.com/keepsakehq/keepsake/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),
		Logger:        logger,
		StorageType:   os.Getenv("STORAGE_TYPE"),
	}

	// A missing secret would make every restart invalidate all sessions and
	// is almost certainly a deployment mistake, but it should not stop a
	// local run.
	if len(cfg.SessionSecret) == 0 {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			logger.Error("failed to generate session secret", slog.String("error", err.Error()))
			os.Exit(1)
		}
		cfg.SessionSecret = []byte(hex.EncodeToString(buf))
		logger.Warn("SESSION_SECRET not set, using a random secret; sessions will not survive restarts")
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		SessionService:   app.SessionService,
		ChallengeService: app.ChallengeService,
		AdminService:     app.AdminService,
		PetService:       app.PetService,
		RecordsService:   app.RecordsService,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			logger.Error("invalid PORT", slog.String("port", port))
			os.Exit(1)
		}
		serverConfig.Port = p
	}
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
