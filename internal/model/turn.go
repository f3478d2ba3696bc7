package model

// Point is a board coordinate
type Point struct {
	X int
	Y int
}

// Cell is a single board square as seen by clients
type Cell struct {
	Number      int8 // Adjacent mine count, or CellMine
	Cleared     bool
	Flagged     bool
	Coordinates Point
}

// CellMine is the Number sentinel for a mined cell
const CellMine int8 = -1

// IsMine reports whether the cell holds a mine
func (c Cell) IsMine() bool {
	return c.Number == CellMine
}

// Dimensions is the width and height of a board
type Dimensions struct {
	Width  int
	Height int
}

// Board is a snapshot of the full grid, row-major (y then x)
type Board struct {
	Dimensions Dimensions
	Cells      []Cell
}

// TurnAuthority owns board state, turn order and win determination for a
// single session. The server never mutates cells directly.
type TurnAuthority interface {
	// Board returns a snapshot of the current board
	Board() Board
	// Select applies a move made by player. The winner is decided from the
	// mover, not the stored active player; the turn alternates on every
	// accepted move. Returns false without changing state if the cell was
	// already cleared.
	Select(player PlayerID, p Point) (bool, error)
	// ActivePlayer returns the player whose turn it is
	ActivePlayer() PlayerID
	// Winner returns the winning player, or "" if the game is undecided
	Winner() PlayerID
	// RemainingMines returns the number of mines neither flagged nor revealed
	RemainingMines() int
}
