package ws

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/minesboomer/internal/model"
	"github.com/mcoot/minesboomer/internal/protocol"
	"github.com/mcoot/minesboomer/internal/testutil"
)

// stubTurn is a fixed turn authority for broadcast tests
type stubTurn struct {
	board  model.Board
	active model.PlayerID
}

func (s *stubTurn) Board() model.Board                               { return s.board }
func (s *stubTurn) Select(model.PlayerID, model.Point) (bool, error) { return true, nil }
func (s *stubTurn) ActivePlayer() model.PlayerID                     { return s.active }
func (s *stubTurn) Winner() model.PlayerID                           { return "" }
func (s *stubTurn) RemainingMines() int                              { return 10 }

type BroadcasterSuite struct {
	suite.Suite
	sender      *testutil.RecordingSender
	broadcaster *Broadcaster
	host        *model.PlayerRef
	guest       *model.PlayerRef
	session     *model.Session
}

func TestBroadcasterSuite(t *testing.T) {
	suite.Run(t, new(BroadcasterSuite))
}

func (s *BroadcasterSuite) SetupTest() {
	s.sender = testutil.NewRecordingSender()
	s.broadcaster = NewBroadcaster(s.sender, testutil.NopLogger())
	s.host = &model.PlayerRef{ID: "alice", DisplayName: "Alice", ConnectionID: "c-alice", SessionID: "s-1"}
	s.guest = &model.PlayerRef{ID: "bob", DisplayName: "Bob", ConnectionID: "c-bob", SessionID: "s-1"}
	s.session = &model.Session{
		ID:         "s-1",
		Name:       "A's Game",
		Difficulty: model.DifficultyEasy,
		Host:       s.host,
		Guest:      s.guest,
		Turn: &stubTurn{
			board: model.Board{
				Dimensions: model.Dimensions{Width: 1, Height: 1},
				Cells:      []model.Cell{{Number: 0}},
			},
			active: "alice",
		},
	}
}

func (s *BroadcasterSuite) TestGameStartedIsPerRecipient() {
	s.broadcaster.GameStarted(s.session)

	hostMsgs := s.sender.Messages("c-alice")
	guestMsgs := s.sender.Messages("c-bob")
	s.Require().Len(hostMsgs, 1)
	s.Require().Len(guestMsgs, 1)

	hostStart := hostMsgs[0].(protocol.GameStart)
	guestStart := guestMsgs[0].(protocol.GameStart)
	s.True(hostStart.IsActive)
	s.False(guestStart.IsActive)
	s.Equal(hostStart.Board, guestStart.Board)
}

func (s *BroadcasterSuite) TestMoveAppliedSwapsActiveFlag() {
	s.broadcaster.MoveApplied(s.session, model.MoveResult{
		Accepted:        true,
		Coordinates:     model.Point{X: 2, Y: 2},
		NewActivePlayer: "alice",
	})

	s.Equal([]protocol.Message{protocol.CellSelected{IsActivePlayer: true, Coordinates: protocol.Point{X: 2, Y: 2}}},
		s.sender.Messages("c-alice"))
	s.Equal([]protocol.Message{protocol.CellSelected{IsActivePlayer: false, Coordinates: protocol.Point{X: 2, Y: 2}}},
		s.sender.Messages("c-bob"))
}

func (s *BroadcasterSuite) TestGameOver() {
	s.broadcaster.GameOver(s.session, model.MoveResult{Winner: "bob", RemainingMines: 9})

	s.Equal([]protocol.Message{protocol.GameOver{WinnerID: "bob", WinnerName: "Bob", IsWinner: false, RemainingMines: 9}},
		s.sender.Messages("c-alice"))
	s.Equal([]protocol.Message{protocol.GameOver{WinnerID: "bob", WinnerName: "Bob", IsWinner: true, RemainingMines: 9}},
		s.sender.Messages("c-bob"))
}

func (s *BroadcasterSuite) TestHostDisconnectedFollowedByListing() {
	open := []model.OpenGameSummary{{SessionID: "s-2", Name: "Other", Difficulty: model.DifficultyHard}}

	s.broadcaster.HostDisconnected(s.guest, open)

	s.Equal([]protocol.Message{
		protocol.Simple{Name: protocol.NameHostDisconnected},
		protocol.OpenGames{Games: []protocol.GameDefinition{{ID: "s-2", Name: "Other", Difficulty: "Hard"}}},
	}, s.sender.Messages("c-bob"))
	s.Empty(s.sender.Messages("c-alice"))
}

func (s *BroadcasterSuite) TestClientDisconnected() {
	s.broadcaster.ClientDisconnected(s.host)

	s.Equal([]protocol.Message{protocol.Simple{Name: protocol.NameClientDisconnected}}, s.sender.Messages("c-alice"))
}

func (s *BroadcasterSuite) TestWaitingForOpponentOnlyToHost() {
	s.broadcaster.WaitingForOpponent(s.host)

	s.Equal([]protocol.Message{protocol.Simple{Name: protocol.NameWaitingEnemy}}, s.sender.Messages("c-alice"))
	s.Empty(s.sender.Messages("c-bob"))
}

func (s *BroadcasterSuite) TestOpenGamesChangedReachesEveryWatcher() {
	watchers := []*model.PlayerRef{
		{ID: "w1", ConnectionID: "c-w1"},
		{ID: "w2", ConnectionID: "c-w2"},
	}

	s.broadcaster.OpenGamesChanged(watchers, nil)

	for _, conn := range []model.ConnectionID{"c-w1", "c-w2"} {
		s.Equal([]protocol.Message{protocol.OpenGames{Games: []protocol.GameDefinition{}}}, s.sender.Messages(conn))
	}
}

func (s *BroadcasterSuite) TestSendFailureIsNotFatal() {
	logger, logs := testutil.CaptureLogger()
	s.broadcaster = NewBroadcaster(s.sender, logger)
	s.sender.FailFor("c-alice", model.ErrNotConnected)

	s.NotPanics(func() { s.broadcaster.GameStarted(s.session) })
	s.Len(s.sender.Messages("c-bob"), 1)

	rec, ok := logs.Find("ws message not delivered")
	s.Require().True(ok)
	s.Equal("WARN", rec["level"])
	s.Equal("c-alice", rec["connection_id"])
	s.Equal("ws-broadcaster", rec["component"])
}
