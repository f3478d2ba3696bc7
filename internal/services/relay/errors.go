package relay

import (
	"errors"

	"github.com/mcoot/minesboomer/internal/model"
	"github.com/mcoot/minesboomer/internal/protocol"
)

// Error codes carried by the error message
const (
	CodeNotIdentified      = "NOT_IDENTIFIED"
	CodeInvalidName        = "INVALID_NAME"
	CodeInvalidDifficulty  = "INVALID_DIFFICULTY"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeAlreadyInSession   = "ALREADY_IN_SESSION"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeSessionFull        = "SESSION_FULL"
	CodeNotInSession       = "NOT_IN_SESSION"
	CodeNoActiveGame       = "NO_ACTIVE_GAME"
	CodeOutOfTurn          = "OUT_OF_TURN"
	CodeGameOver           = "GAME_OVER"
	CodeInvalidCoordinates = "INVALID_COORDINATES"
	CodeInternalError      = "INTERNAL_ERROR"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{model.ErrNotIdentified, CodeNotIdentified},
	{model.ErrInvalidName, CodeInvalidName},
	{model.ErrInvalidDifficulty, CodeInvalidDifficulty},
	{model.ErrPlayerNotFound, CodePlayerNotFound},
	{model.ErrAlreadyInSession, CodeAlreadyInSession},
	{model.ErrSessionNotFound, CodeSessionNotFound},
	{model.ErrSessionFull, CodeSessionFull},
	{model.ErrNotInSession, CodeNotInSession},
	{model.ErrNoActiveGame, CodeNoActiveGame},
	{model.ErrOutOfTurn, CodeOutOfTurn},
	{model.ErrGameOver, CodeGameOver},
	{model.ErrInvalidCoordinates, CodeInvalidCoordinates},
}

// toErrorMessage converts an operation failure into the error message sent
// back to the client
func toErrorMessage(err error) protocol.Error {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return protocol.Error{Code: ec.code, Message: err.Error()}
		}
	}
	return protocol.Error{Code: CodeInternalError, Message: "internal server error"}
}
