package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/mcoot/minesboomer/internal/dependencies/clock"
	"github.com/mcoot/minesboomer/internal/model"
	"github.com/mcoot/minesboomer/internal/services/session"
	"github.com/mcoot/minesboomer/internal/storage"
	"github.com/mcoot/minesboomer/internal/web/templates/layout"
	"github.com/mcoot/minesboomer/internal/web/templates/pages"
)

// recentResults is how many finished games the status page lists
const recentResults = 10

// Sessions is the read side of the session registry
type Sessions interface {
	ListOpenSessions() []model.OpenGameSummary
	Stats() session.Stats
}

// ConnectionCounter reports the number of live connections
type ConnectionCounter interface {
	Count() int
}

// HomeHandler renders the status page
type HomeHandler struct {
	sessions      Sessions
	connections   ConnectionCounter
	results       storage.Storage
	clock         clock.Clock
	webSocketPath string
	logger        *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(sessions Sessions, connections ConnectionCounter, results storage.Storage, clk clock.Clock, webSocketPath string, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		sessions:      sessions,
		connections:   connections,
		results:       results,
		clock:         clk,
		webSocketPath: webSocketPath,
		logger:        logger,
	}
}

// Home renders the open games, counters and recent results
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	stats := h.sessions.Stats()
	data := pages.StatusData{
		PageData:      layout.PageData{Title: "minesboomer"},
		WebSocketPath: h.webSocketPath,
		Stats: pages.StatusCounts{
			Connections:    h.connections.Count(),
			Players:        stats.Players,
			OpenSessions:   stats.OpenSessions,
			ActiveSessions: stats.ActiveSessions,
			GamesFinished:  stats.GamesFinished,
		},
		OpenGames:  h.sessions.ListOpenSessions(),
		RenderedAt: h.clock.Now(),
	}

	results, err := h.results.ListResults(r.Context(), recentResults)
	if err != nil {
		// The rest of the page is still useful
		h.logger.WarnContext(r.Context(), "failed to list results", slog.String("error", err.Error()))
		data.ResultsError = true
	}
	data.Results = results

	var buf bytes.Buffer
	if err := pages.Status(data).Render(r.Context(), &buf); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render status page", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
