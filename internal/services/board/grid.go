package board

import (
	"github.com/mcoot/minesboomer/internal/dependencies/random"
	"github.com/mcoot/minesboomer/internal/model"
)

// Preset is the board size and mine count for a difficulty
type Preset struct {
	Width  int
	Height int
	Mines  int
}

// PresetFor returns the board preset for a difficulty
func PresetFor(d model.Difficulty) Preset {
	switch d {
	case model.DifficultyMedium:
		return Preset{Width: 16, Height: 16, Mines: 40}
	case model.DifficultyHard:
		return Preset{Width: 30, Height: 16, Mines: 99}
	default:
		return Preset{Width: 9, Height: 9, Mines: 10}
	}
}

// Grid is a minefield. Not safe for concurrent use; callers serialize access.
type Grid struct {
	dims          model.Dimensions
	cells         []model.Cell
	mines         int
	safeRemaining int
	revealedMines int
}

// NewGrid lays out a grid for the preset, placing mines with rnd
func NewGrid(preset Preset, rnd random.Random) *Grid {
	total := preset.Width * preset.Height
	mineIdx := random.Sample(rnd, total, preset.Mines)

	isMine := make([]bool, total)
	for _, i := range mineIdx {
		isMine[i] = true
	}
	return newGrid(preset.Width, preset.Height, isMine)
}

// NewGridFromLayout builds a grid from rows of '*' (mine) and '.' (safe)
func NewGridFromLayout(rows ...string) *Grid {
	height := len(rows)
	width := 0
	if height > 0 {
		width = len(rows[0])
	}
	isMine := make([]bool, width*height)
	for y, row := range rows {
		for x := 0; x < width && x < len(row); x++ {
			isMine[y*width+x] = row[x] == '*'
		}
	}
	return newGrid(width, height, isMine)
}

// NewGridFromBoard rebuilds a grid from a snapshot, keeping cleared and
// flagged cells. Clients use it to replay relayed moves locally.
func NewGridFromBoard(b model.Board) *Grid {
	width, height := b.Dimensions.Width, b.Dimensions.Height
	isMine := make([]bool, width*height)
	for i := 0; i < len(isMine) && i < len(b.Cells); i++ {
		isMine[i] = b.Cells[i].IsMine()
	}
	g := newGrid(width, height, isMine)
	for i := 0; i < len(g.cells) && i < len(b.Cells); i++ {
		cell := &g.cells[i]
		cell.Flagged = b.Cells[i].Flagged
		if !b.Cells[i].Cleared {
			continue
		}
		cell.Cleared = true
		if cell.IsMine() {
			g.revealedMines++
		} else {
			g.safeRemaining--
		}
	}
	return g
}

func newGrid(width, height int, isMine []bool) *Grid {
	g := &Grid{
		dims:  model.Dimensions{Width: width, Height: height},
		cells: make([]model.Cell, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := model.Point{X: x, Y: y}
			cell := model.Cell{Coordinates: p}
			if isMine[g.index(p)] {
				cell.Number = model.CellMine
				g.mines++
			} else {
				for _, n := range g.neighbours(p) {
					if isMine[g.index(n)] {
						cell.Number++
					}
				}
			}
			g.cells[g.index(p)] = cell
		}
	}
	g.safeRemaining = len(g.cells) - g.mines
	return g
}

// InBounds reports whether p lies on the grid
func (g *Grid) InBounds(p model.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.dims.Width && p.Y < g.dims.Height
}

// Cell returns the cell at p. p must be in bounds.
func (g *Grid) Cell(p model.Point) model.Cell {
	return g.cells[g.index(p)]
}

// Reveal clears the cell at p, flood filling from cells with no adjacent
// mines. Returns whether p was a mine and whether anything changed.
func (g *Grid) Reveal(p model.Point) (hitMine bool, changed bool) {
	start := &g.cells[g.index(p)]
	if start.Cleared {
		return false, false
	}
	if start.IsMine() {
		start.Cleared = true
		g.revealedMines++
		return true, true
	}

	stack := []model.Point{p}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cell := &g.cells[g.index(cur)]
		if cell.Cleared || cell.IsMine() {
			continue
		}
		cell.Cleared = true
		cell.Flagged = false
		g.safeRemaining--

		if cell.Number == 0 {
			for _, n := range g.neighbours(cur) {
				if !g.cells[g.index(n)].Cleared {
					stack = append(stack, n)
				}
			}
		}
	}
	return false, true
}

// SafeRemaining is the number of safe cells not yet cleared
func (g *Grid) SafeRemaining() int {
	return g.safeRemaining
}

// RemainingMines is the number of mines not yet revealed or flagged
func (g *Grid) RemainingMines() int {
	flagged := 0
	for _, c := range g.cells {
		if c.Flagged && !c.Cleared {
			flagged++
		}
	}
	return g.mines - g.revealedMines - flagged
}

// Snapshot copies the grid into a model.Board
func (g *Grid) Snapshot() model.Board {
	cells := make([]model.Cell, len(g.cells))
	copy(cells, g.cells)
	return model.Board{Dimensions: g.dims, Cells: cells}
}

func (g *Grid) index(p model.Point) int {
	return p.Y*g.dims.Width + p.X
}

func (g *Grid) neighbours(p model.Point) []model.Point {
	out := make([]model.Point, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := model.Point{X: p.X + dx, Y: p.Y + dy}
			if g.InBounds(n) {
				out = append(out, n)
			}
		}
	}
	return out
}
