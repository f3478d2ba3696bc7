package bot

import (
	"github.com/mcoot/minesboomer/internal/dependencies/random"
	"github.com/mcoot/minesboomer/internal/model"
)

// RandomStrategy picks a uniformly random uncleared cell
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseCell picks a random uncleared cell
func (s *RandomStrategy) ChooseCell(board model.Board) (model.Point, bool) {
	cells := hidden(board)
	if len(cells) == 0 {
		return model.Point{}, false
	}
	return cells[s.random.Intn(len(cells))].Coordinates, true
}

// CautiousStrategy only uses what a player can see: it prefers hidden
// cells that border no revealed number, falling back to any hidden cell.
type CautiousStrategy struct {
	random random.Random
}

// NewCautiousStrategy creates a new CautiousStrategy
func NewCautiousStrategy(rnd random.Random) *CautiousStrategy {
	return &CautiousStrategy{random: rnd}
}

// ChooseCell picks a random hidden cell away from revealed numbers
func (s *CautiousStrategy) ChooseCell(board model.Board) (model.Point, bool) {
	cells := hidden(board)
	if len(cells) == 0 {
		return model.Point{}, false
	}

	var quiet []model.Cell
	for _, c := range cells {
		if !bordersNumber(board, c.Coordinates) {
			quiet = append(quiet, c)
		}
	}
	if len(quiet) > 0 {
		cells = quiet
	}
	return cells[s.random.Intn(len(cells))].Coordinates, true
}

func bordersNumber(board model.Board, p model.Point) bool {
	w, h := board.Dimensions.Width, board.Dimensions.Height
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			x, y := p.X+dx, p.Y+dy
			if (dx == 0 && dy == 0) || x < 0 || y < 0 || x >= w || y >= h {
				continue
			}
			n := board.Cells[y*w+x]
			if n.Cleared && n.Number > 0 {
				return true
			}
		}
	}
	return false
}
