package bot

import (
	"fmt"
	"sort"

	"github.com/mcoot/minesboomer/internal/dependencies/random"
	"github.com/mcoot/minesboomer/internal/model"
)

// Strategy defines how an automated player chooses its next cell
type Strategy interface {
	// ChooseCell selects an uncleared cell. ok is false when none remain.
	ChooseCell(board model.Board) (p model.Point, ok bool)
}

// Strategies returns the named strategies available to automated players
func Strategies(rnd random.Random) map[string]Strategy {
	return map[string]Strategy{
		"random":   NewRandomStrategy(rnd),
		"cautious": NewCautiousStrategy(rnd),
	}
}

// Lookup returns the named strategy
func Lookup(name string, rnd random.Random) (Strategy, error) {
	all := Strategies(rnd)
	s, ok := all[name]
	if !ok {
		names := make([]string, 0, len(all))
		for n := range all {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown strategy %q (available: %v)", name, names)
	}
	return s, nil
}

// hidden lists the uncleared cells in row-major order
func hidden(board model.Board) []model.Cell {
	var cells []model.Cell
	for _, c := range board.Cells {
		if !c.Cleared {
			cells = append(cells, c)
		}
	}
	return cells
}
