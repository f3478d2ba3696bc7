package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mcoot/minesboomer/internal/api"
	"github.com/mcoot/minesboomer/internal/config"
	"github.com/mcoot/minesboomer/internal/factory"
	redisstorage "github.com/mcoot/minesboomer/internal/storage/redis"
	"github.com/mcoot/minesboomer/internal/web"
)

func main() {
	// Read configuration before anything can log at the wrong level
	appCfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: appCfg.Level(),
	}))
	slog.SetDefault(logger)

	// Build factory config
	cfg := factory.Config{
		Logger:      logger,
		StorageType: appCfg.StorageType,
		Protocol: factory.ProtocolConfig{
			EnforceTurns:         appCfg.EnforceTurns,
			UnknownMessageNotice: appCfg.UnknownMessageNotice,
			IdentifyTimeout:      appCfg.IdentifyTimeout,
			SendBufferSize:       appCfg.SendBufferSize,
		},
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = appCfg.RedisURL
		redisCfg.ResultTTL = appCfg.ResultTTL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router (JSON API and the game WebSocket)
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Sessions:    app.Sessions,
		Connections: app.Hub,
		Results:     app.Storage,
		WebSocket:   app.WSServer,
	})

	// Create web router
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:      logger,
		Sessions:    app.Sessions,
		Connections: app.Hub,
		Results:     app.Storage,
		Clock:       app.Clock,
		StaticDir:   findStaticDir(),
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/ws", apiRouter)
	mux.Handle("/", webRouter)

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = appCfg.Host
	serverConfig.Port = appCfg.Port
	server := api.NewServer(mux, serverConfig, logger)
	server.RegisterOnShutdown(app.Hub.Close)

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

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", appCfg.StorageType),
		slog.Bool("enforce_turns", appCfg.EnforceTurns))

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
		}
	}

	if err := app.Close(); err != nil {
		logger.Error("failed to release resources", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}

// findStaticDir looks for an optional static files directory
func findStaticDir() string {
	candidates := []string{
		"internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}
