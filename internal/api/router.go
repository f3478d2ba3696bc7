package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/minesboomer/internal/api/apierr"
	"github.com/mcoot/minesboomer/internal/api/handler"
	"github.com/mcoot/minesboomer/internal/api/middleware"
	"github.com/mcoot/minesboomer/internal/api/response"
	"github.com/mcoot/minesboomer/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Sessions    handler.Sessions
	Connections handler.ConnectionCounter
	Results     storage.Storage
	// WebSocket is the game protocol endpoint mounted at /ws
	WebSocket http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})

	// Create handlers
	gamesHandler := handler.NewGamesHandler(cfg.Sessions, cfg.Connections)
	resultsHandler := handler.NewResultsHandler(cfg.Results)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/games", gamesHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/stats", gamesHandler.Stats).Methods(http.MethodGet)
	api.HandleFunc("/results", resultsHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/results/{id}", resultsHandler.Get).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Game protocol; the request is logged when the connection closes.
	// Recovery sits inside logging so it can see the upgrade.
	if cfg.WebSocket != nil {
		r.Handle("/ws", loggingMiddleware(recoveryMiddleware(cfg.WebSocket))).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
