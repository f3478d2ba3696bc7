package board

import "github.com/mcoot/minesboomer/internal/model"

// Game is the two-player turn authority for one session.
// Players alternate revealing cells. Revealing a mine hands the win to the
// opponent; clearing the last safe cell wins for the mover.
type Game struct {
	grid    *Grid
	players [2]model.PlayerID
	active  int
	winner  model.PlayerID
}

// Ensure Game implements TurnAuthority
var _ model.TurnAuthority = (*Game)(nil)

// NewGame starts a game on grid. The first player moves first.
func NewGame(grid *Grid, first, second model.PlayerID) *Game {
	return &Game{
		grid:    grid,
		players: [2]model.PlayerID{first, second},
	}
}

// Board returns a snapshot of the board
func (g *Game) Board() model.Board {
	return g.grid.Snapshot()
}

// Select reveals the cell at p on behalf of player, who need not be the
// active player when turns are not enforced
func (g *Game) Select(player model.PlayerID, p model.Point) (bool, error) {
	if g.winner != "" {
		return false, model.ErrGameOver
	}
	mover := g.index(player)
	if mover < 0 {
		return false, model.ErrNotInSession
	}
	if !g.grid.InBounds(p) {
		return false, model.ErrInvalidCoordinates
	}

	hitMine, changed := g.grid.Reveal(p)
	if !changed {
		return false, nil
	}

	switch {
	case hitMine:
		g.winner = g.players[1-mover]
	case g.grid.SafeRemaining() == 0:
		g.winner = g.players[mover]
	default:
		g.active = 1 - g.active
	}
	return true, nil
}

func (g *Game) index(player model.PlayerID) int {
	for i, p := range g.players {
		if p == player {
			return i
		}
	}
	return -1
}

// ActivePlayer returns the player whose turn it is
func (g *Game) ActivePlayer() model.PlayerID {
	return g.players[g.active]
}

// Winner returns the winner, or "" while undecided
func (g *Game) Winner() model.PlayerID {
	return g.winner
}

// RemainingMines returns the mines not yet revealed or flagged
func (g *Game) RemainingMines() int {
	return g.grid.RemainingMines()
}
