package board

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"pgregory.net/rapid"

	"github.com/mcoot/minesboomer/internal/dependencies/mocks"
	"github.com/mcoot/minesboomer/internal/model"
	"github.com/mcoot/minesboomer/internal/testutil"
)

type GameSuite struct {
	suite.Suite
	game *Game
}

func TestGameSuite(t *testing.T) {
	suite.Run(t, new(GameSuite))
}

func (s *GameSuite) SetupTest() {
	s.game = NewGame(NewGridFromLayout(
		"*....",
		".....",
		".....",
		"....*",
	), "host", "guest")
}

func (s *GameSuite) TestHostMovesFirst() {
	s.Equal(model.PlayerID("host"), s.game.ActivePlayer())
	s.Empty(s.game.Winner())
	s.Equal(2, s.game.RemainingMines())
}

func (s *GameSuite) TestSafeMovePassesTurn() {
	accepted, err := s.game.Select("host", model.Point{X: 1, Y: 0})
	s.Require().NoError(err)
	s.True(accepted)
	s.Equal(model.PlayerID("guest"), s.game.ActivePlayer())
	s.Empty(s.game.Winner())
}

func (s *GameSuite) TestMineGivesWinToOpponent() {
	_, _ = s.game.Select("host", model.Point{X: 1, Y: 0})
	accepted, err := s.game.Select("guest", model.Point{X: 4, Y: 3})
	s.Require().NoError(err)
	s.True(accepted)
	s.Equal(model.PlayerID("host"), s.game.Winner())
	s.Equal(1, s.game.RemainingMines())
}

func (s *GameSuite) TestClearingLastSafeCellWins() {
	game := NewGame(NewGridFromLayout("*.."), "host", "guest")

	accepted, err := game.Select("host", model.Point{X: 2, Y: 0})
	s.Require().NoError(err)
	s.True(accepted)
	s.Equal(model.PlayerID("host"), game.Winner())
}

func (s *GameSuite) TestSelectClearedCellIsRejectedWithoutTurnChange() {
	_, _ = s.game.Select("host", model.Point{X: 1, Y: 0})

	accepted, err := s.game.Select("guest", model.Point{X: 1, Y: 0})
	s.Require().NoError(err)
	s.False(accepted)
	s.Equal(model.PlayerID("guest"), s.game.ActivePlayer())
}

func (s *GameSuite) TestSelectOutOfBounds() {
	_, err := s.game.Select("host", model.Point{X: 5, Y: 0})
	s.ErrorIs(err, model.ErrInvalidCoordinates)

	_, err = s.game.Select("host", model.Point{X: -1, Y: 0})
	s.ErrorIs(err, model.ErrInvalidCoordinates)
}

func (s *GameSuite) TestSelectAfterGameOver() {
	_, _ = s.game.Select("host", model.Point{X: 0, Y: 0})

	_, err := s.game.Select("guest", model.Point{X: 2, Y: 2})
	s.ErrorIs(err, model.ErrGameOver)
}

func (s *GameSuite) TestMoverDecidesWinnerWhenOutOfTurn() {
	// host is active, but the guest moves and hits a mine
	accepted, err := s.game.Select("guest", model.Point{X: 0, Y: 0})
	s.Require().NoError(err)
	s.True(accepted)
	s.Equal(model.PlayerID("host"), s.game.Winner())
}

func (s *GameSuite) TestOutOfTurnSafeMoveStillAlternatesTurn() {
	accepted, err := s.game.Select("guest", model.Point{X: 1, Y: 0})
	s.Require().NoError(err)
	s.True(accepted)
	s.Equal(model.PlayerID("guest"), s.game.ActivePlayer())
}

func (s *GameSuite) TestSelectByStranger() {
	_, err := s.game.Select("mallory", model.Point{X: 1, Y: 0})
	s.ErrorIs(err, model.ErrNotInSession)
	s.Equal(model.PlayerID("host"), s.game.ActivePlayer())
}

func (s *GameSuite) TestServiceNewGameUsesDifficulty() {
	svc := New(mocks.NewMockRandom(), testutil.NopLogger())

	game := svc.NewGame(model.DifficultyMedium, "host", "guest")

	board := game.Board()
	s.Equal(model.Dimensions{Width: 16, Height: 16}, board.Dimensions)
	s.Len(board.Cells, 256)
	s.Equal(40, game.RemainingMines())
	s.Equal(model.PlayerID("host"), game.ActivePlayer())
}

func TestPropertyRemainingMinesNeverIncreases(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seq := rapid.SliceOfN(rapid.IntRange(0, 1000), 10, 10).Draw(t, "mines")
		rnd := mocks.NewMockRandom()
		rnd.QueueIntn(seq...)
		game := NewGame(NewGrid(PresetFor(model.DifficultyEasy), rnd), "a", "b")

		moves := rapid.SliceOfN(rapid.IntRange(0, 80), 1, 60).Draw(t, "moves")
		prev := game.RemainingMines()
		for _, m := range moves {
			mover := game.ActivePlayer()
			p := model.Point{X: m % 9, Y: m / 9}
			wasMine := game.Board().Cells[m].IsMine()

			accepted, err := game.Select(mover, p)
			if err != nil {
				if game.Winner() == "" {
					t.Fatalf("unexpected error before game over: %v", err)
				}
				return
			}
			if game.RemainingMines() > prev {
				t.Fatalf("remaining mines increased from %d to %d", prev, game.RemainingMines())
			}
			if accepted && wasMine {
				if game.Winner() == "" || game.Winner() == mover {
					t.Fatalf("mine selected by %s, winner = %q", mover, game.Winner())
				}
			}
			prev = game.RemainingMines()
		}
	})
}
