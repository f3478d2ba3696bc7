package model

import "time"

// GameResult is a record of a finished game
type GameResult struct {
	ID         string     `json:"id"`
	SessionID  SessionID  `json:"session_id"`
	Name       string     `json:"name"`
	Difficulty Difficulty `json:"difficulty"`
	WinnerID   PlayerID   `json:"winner_id"`
	WinnerName string     `json:"winner_name"`
	LoserID    PlayerID   `json:"loser_id"`
	LoserName  string     `json:"loser_name"`
	Moves      int        `json:"moves"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}
