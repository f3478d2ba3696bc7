package turn

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/minesboomer/internal/model"
	"github.com/mcoot/minesboomer/internal/services/board"
	"github.com/mcoot/minesboomer/internal/testutil"
)

type CoordinatorSuite struct {
	suite.Suite
	coordinator *Coordinator
	session     *model.Session
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.coordinator = New(true, testutil.NopLogger())
	s.session = s.newSession()
}

// newSession builds an active session on a small fixed board:
//
//	* . .
//	. . .
//	. . *
func (s *CoordinatorSuite) newSession() *model.Session {
	grid := board.NewGridFromLayout(
		"*..",
		"...",
		"..*",
	)
	host := &model.PlayerRef{ID: "alice", DisplayName: "Alice", ConnectionID: "c-1", SessionID: "s-1"}
	guest := &model.PlayerRef{ID: "bob", DisplayName: "Bob", ConnectionID: "c-2", SessionID: "s-1"}
	return &model.Session{
		ID:    "s-1",
		Host:  host,
		Guest: guest,
		Turn:  board.NewGame(grid, host.ID, guest.ID),
	}
}

func (s *CoordinatorSuite) TestSafeMovePassesTurn() {
	result, err := s.coordinator.ApplyMove(s.session, "alice", model.Point{X: 1, Y: 0})
	s.Require().NoError(err)

	s.True(result.Accepted)
	s.Equal(model.Point{X: 1, Y: 0}, result.Coordinates)
	s.Equal(model.PlayerID("bob"), result.NewActivePlayer)
	s.Empty(result.Winner)
	s.Equal(2, result.RemainingMines)
}

func (s *CoordinatorSuite) TestMineHandsWinToOpponent() {
	result, err := s.coordinator.ApplyMove(s.session, "alice", model.Point{X: 0, Y: 0})
	s.Require().NoError(err)

	s.True(result.Accepted)
	s.Equal(model.PlayerID("bob"), result.Winner)
	s.Equal(1, result.RemainingMines)
}

func (s *CoordinatorSuite) TestOutOfTurnRejected() {
	_, err := s.coordinator.ApplyMove(s.session, "bob", model.Point{X: 1, Y: 0})
	s.ErrorIs(err, model.ErrOutOfTurn)
	s.Equal(model.PlayerID("alice"), s.session.Turn.ActivePlayer())
}

func (s *CoordinatorSuite) TestOutOfTurnAllowedWhenNotEnforced() {
	trusting := New(false, testutil.NopLogger())

	result, err := trusting.ApplyMove(s.session, "bob", model.Point{X: 1, Y: 0})
	s.Require().NoError(err)
	s.True(result.Accepted)
	s.Equal(model.PlayerID("bob"), result.NewActivePlayer)
}

func (s *CoordinatorSuite) TestOutOfTurnMineWinsForOtherPlayerWhenNotEnforced() {
	trusting := New(false, testutil.NopLogger())

	// alice is active; bob moves anyway and hits the mine
	result, err := trusting.ApplyMove(s.session, "bob", model.Point{X: 0, Y: 0})
	s.Require().NoError(err)
	s.True(result.Accepted)
	s.Equal(model.PlayerID("alice"), result.Winner)
}

func (s *CoordinatorSuite) TestAlreadyClearedIsNotAccepted() {
	_, err := s.coordinator.ApplyMove(s.session, "alice", model.Point{X: 1, Y: 0})
	s.Require().NoError(err)

	result, err := s.coordinator.ApplyMove(s.session, "bob", model.Point{X: 1, Y: 0})
	s.Require().NoError(err)
	s.False(result.Accepted)
	s.Equal(model.PlayerID("bob"), result.NewActivePlayer)
}

func (s *CoordinatorSuite) TestNonParticipantRejected() {
	_, err := s.coordinator.ApplyMove(s.session, "mallory", model.Point{X: 1, Y: 0})
	s.ErrorIs(err, model.ErrNotInSession)
}

func (s *CoordinatorSuite) TestPendingSessionHasNoGame() {
	s.session.Guest = nil
	s.session.Turn = nil

	_, err := s.coordinator.ApplyMove(s.session, "alice", model.Point{X: 1, Y: 0})
	s.ErrorIs(err, model.ErrNoActiveGame)
}

func (s *CoordinatorSuite) TestNoMovesAfterGameOver() {
	_, err := s.coordinator.ApplyMove(s.session, "alice", model.Point{X: 0, Y: 0})
	s.Require().NoError(err)

	_, err = s.coordinator.ApplyMove(s.session, "bob", model.Point{X: 1, Y: 0})
	s.ErrorIs(err, model.ErrGameOver)
}

func (s *CoordinatorSuite) TestOutOfBounds() {
	_, err := s.coordinator.ApplyMove(s.session, "alice", model.Point{X: 5, Y: 0})
	s.ErrorIs(err, model.ErrInvalidCoordinates)
}
