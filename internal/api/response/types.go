package response

import (
	"time"

	"github.com/mcoot/minesboomer/internal/model"
)

// OpenGame represents a joinable session in API responses
type OpenGame struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	HostName   string    `json:"host_name"`
	Difficulty string    `json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
}

// OpenGameFromModel converts model.OpenGameSummary
func OpenGameFromModel(s model.OpenGameSummary) OpenGame {
	return OpenGame{
		ID:         string(s.SessionID),
		Name:       s.Name,
		HostName:   s.HostName,
		Difficulty: string(s.Difficulty),
		CreatedAt:  s.CreatedAt,
	}
}

// OpenGames is the response for the open sessions listing
type OpenGames struct {
	Games []OpenGame `json:"games"`
}

// OpenGamesFromModel converts a listing, keeping an empty list non-nil
func OpenGamesFromModel(summaries []model.OpenGameSummary) OpenGames {
	games := make([]OpenGame, len(summaries))
	for i, s := range summaries {
		games[i] = OpenGameFromModel(s)
	}
	return OpenGames{Games: games}
}

// Stats represents server counters
type Stats struct {
	Connections    int `json:"connections"`
	Players        int `json:"players"`
	OpenSessions   int `json:"open_sessions"`
	ActiveSessions int `json:"active_sessions"`
	GamesStarted   int `json:"games_started"`
	GamesFinished  int `json:"games_finished"`
}

// Result represents a finished game
type Result struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Name       string    `json:"name"`
	Difficulty string    `json:"difficulty"`
	WinnerID   string    `json:"winner_id"`
	WinnerName string    `json:"winner_name"`
	LoserID    string    `json:"loser_id,omitempty"`
	LoserName  string    `json:"loser_name,omitempty"`
	Moves      int       `json:"moves"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Duration   string    `json:"duration"`
}

// ResultFromModel converts model.GameResult
func ResultFromModel(r *model.GameResult) Result {
	return Result{
		ID:         r.ID,
		SessionID:  string(r.SessionID),
		Name:       r.Name,
		Difficulty: string(r.Difficulty),
		WinnerID:   string(r.WinnerID),
		WinnerName: r.WinnerName,
		LoserID:    string(r.LoserID),
		LoserName:  r.LoserName,
		Moves:      r.Moves,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Duration:   r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String(),
	}
}

// Results is the response for the results listing
type Results struct {
	Results []Result `json:"results"`
}

// ResultsFromModel converts a list of results
func ResultsFromModel(results []*model.GameResult) Results {
	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = ResultFromModel(r)
	}
	return Results{Results: out}
}
