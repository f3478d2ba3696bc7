package turn

import (
	"log/slog"

	"github.com/mcoot/minesboomer/internal/model"
)

// Coordinator applies moves to a session's turn authority
type Coordinator struct {
	enforceTurns bool
	logger       *slog.Logger
}

// New creates a new Coordinator. With enforceTurns set, moves from the
// player who is not active are rejected with ErrOutOfTurn; otherwise the
// submitting client is trusted.
func New(enforceTurns bool, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		enforceTurns: enforceTurns,
		logger:       logger.With(slog.String("component", "turn")),
	}
}

// ApplyMove selects the cell at p on behalf of player. Accepted moves are
// irrevocable.
func (c *Coordinator) ApplyMove(session *model.Session, player model.PlayerID, p model.Point) (model.MoveResult, error) {
	if session.Participant(player) == nil {
		return model.MoveResult{}, model.ErrNotInSession
	}
	if !session.IsActive() {
		return model.MoveResult{}, model.ErrNoActiveGame
	}

	turn := session.Turn
	if turn.Winner() != "" {
		return model.MoveResult{}, model.ErrGameOver
	}
	if c.enforceTurns && turn.ActivePlayer() != player {
		c.logger.Debug("move rejected out of turn",
			slog.String("session_id", string(session.ID)),
			slog.String("player_id", string(player)))
		return model.MoveResult{}, model.ErrOutOfTurn
	}

	accepted, err := turn.Select(player, p)
	if err != nil {
		return model.MoveResult{}, err
	}

	result := model.MoveResult{
		Accepted:        accepted,
		Coordinates:     p,
		NewActivePlayer: turn.ActivePlayer(),
		Winner:          turn.Winner(),
		RemainingMines:  turn.RemainingMines(),
	}
	c.logger.Debug("move applied",
		slog.String("session_id", string(session.ID)),
		slog.String("player_id", string(player)),
		slog.Int("x", p.X),
		slog.Int("y", p.Y),
		slog.Bool("accepted", accepted),
		slog.String("winner", string(result.Winner)))
	return result, nil
}
