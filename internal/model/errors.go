package model

import "errors"

// Common errors used across the application
var (
	// Connection errors
	ErrNotConnected   = errors.New("connection not registered")
	ErrSendBufferFull = errors.New("connection send buffer full")

	// Player errors
	ErrPlayerNotFound   = errors.New("player not found")
	ErrNotIdentified    = errors.New("connection has not identified")
	ErrInvalidName      = errors.New("display name must not be empty")
	ErrAlreadyInSession = errors.New("player is already in a session")

	// Session errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionFull       = errors.New("session already has a guest")
	ErrNotInSession      = errors.New("player is not in this session")
	ErrInvalidDifficulty = errors.New("invalid difficulty")

	// Turn errors
	ErrNoActiveGame       = errors.New("session has no game in progress")
	ErrOutOfTurn          = errors.New("not this player's turn")
	ErrGameOver           = errors.New("game is already over")
	ErrInvalidCoordinates = errors.New("coordinates are outside the board")

	// Result errors
	ErrResultNotFound = errors.New("game result not found")
)
