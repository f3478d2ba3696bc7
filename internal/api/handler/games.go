package handler

import (
	"net/http"

	"github.com/mcoot/minesboomer/internal/api/response"
	"github.com/mcoot/minesboomer/internal/model"
	"github.com/mcoot/minesboomer/internal/services/session"
)

// Sessions is the read side of the session registry
type Sessions interface {
	ListOpenSessions() []model.OpenGameSummary
	Stats() session.Stats
}

// ConnectionCounter reports the number of live connections
type ConnectionCounter interface {
	Count() int
}

// GamesHandler handles session listing endpoints
type GamesHandler struct {
	sessions    Sessions
	connections ConnectionCounter
}

// NewGamesHandler creates a new games handler
func NewGamesHandler(sessions Sessions, connections ConnectionCounter) *GamesHandler {
	return &GamesHandler{
		sessions:    sessions,
		connections: connections,
	}
}

// List handles GET /api/v1/games
func (h *GamesHandler) List(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.OpenGamesFromModel(h.sessions.ListOpenSessions()))
}

// Stats handles GET /api/v1/stats
func (h *GamesHandler) Stats(w http.ResponseWriter, _ *http.Request) {
	stats := h.sessions.Stats()
	response.JSON(w, http.StatusOK, response.Stats{
		Connections:    h.connections.Count(),
		Players:        stats.Players,
		OpenSessions:   stats.OpenSessions,
		ActiveSessions: stats.ActiveSessions,
		GamesStarted:   stats.GamesStarted,
		GamesFinished:  stats.GamesFinished,
	})
}
