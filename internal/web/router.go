package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/minesboomer/internal/dependencies/clock"
	"github.com/mcoot/minesboomer/internal/storage"
	"github.com/mcoot/minesboomer/internal/web/handler"
	"github.com/mcoot/minesboomer/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger        *slog.Logger
	Sessions      handler.Sessions
	Connections   handler.ConnectionCounter
	Results       storage.Storage
	Clock         clock.Clock
	WebSocketPath string // Shown to visitors; defaults to /ws
	StaticDir     string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	wsPath := cfg.WebSocketPath
	if wsPath == "" {
		wsPath = "/ws"
	}

	homeHandler := handler.NewHomeHandler(cfg.Sessions, cfg.Connections, cfg.Results, cfg.Clock, wsPath,
		cfg.Logger.With(slog.String("component", "web")))

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	r.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)

	return r
}
