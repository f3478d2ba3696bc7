package model

// EventType identifies a broadcast event
type EventType string

const (
	EventWaitingForOpponent EventType = "waiting_for_opponent"
	EventGameStarted        EventType = "game_started"
	EventMoveApplied        EventType = "move_applied"
	EventGameOver           EventType = "game_over"
	EventHostDisconnected   EventType = "host_disconnected"
	EventClientDisconnected EventType = "client_disconnected"
	EventOpenGamesChanged   EventType = "open_games_changed"
)

// MoveResult is the outcome of applying a move through the turn coordinator
type MoveResult struct {
	Accepted        bool
	Coordinates     Point
	NewActivePlayer PlayerID
	Winner          PlayerID // Empty while the game is undecided
	RemainingMines  int
}
