package ws

import (
	"log/slog"

	"github.com/mcoot/minesboomer/internal/model"
	"github.com/mcoot/minesboomer/internal/protocol"
)

// Sender queues a message for a single connection
type Sender interface {
	Send(conn model.ConnectionID, msg protocol.Message) error
}

// Broadcaster builds per-recipient messages for session events and queues
// them on the connection registry. Delivery failures are logged, never
// returned.
type Broadcaster struct {
	sender Sender
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(sender Sender, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		sender: sender,
		logger: logger.With(slog.String("component", "ws-broadcaster")),
	}
}

// Identify asks a new connection to identify itself
func (b *Broadcaster) Identify(conn model.ConnectionID) {
	b.send(conn, model.EventType(protocol.NameIdentify), protocol.Simple{Name: protocol.NameIdentify})
}

// WaitingForOpponent tells the host of a pending named session to wait
func (b *Broadcaster) WaitingForOpponent(host *model.PlayerRef) {
	b.send(host.ConnectionID, model.EventWaitingForOpponent, protocol.Simple{Name: protocol.NameWaitingEnemy})
}

// GameStarted sends each participant the board and whether they move first
func (b *Broadcaster) GameStarted(session *model.Session) {
	board := protocol.BoardFromModel(session.Turn.Board())
	active := session.Turn.ActivePlayer()
	for _, p := range session.Players() {
		b.send(p.ConnectionID, model.EventGameStarted, protocol.GameStart{
			Board:    board,
			IsActive: p.ID == active,
		})
	}
}

// MoveApplied relays an accepted move to both participants
func (b *Broadcaster) MoveApplied(session *model.Session, result model.MoveResult) {
	coords := protocol.PointFromModel(result.Coordinates)
	for _, p := range session.Players() {
		b.send(p.ConnectionID, model.EventMoveApplied, protocol.CellSelected{
			IsActivePlayer: p.ID == result.NewActivePlayer,
			Coordinates:    coords,
		})
	}
}

// GameOver tells both participants who won
func (b *Broadcaster) GameOver(session *model.Session, result model.MoveResult) {
	winner := session.Participant(result.Winner)
	winnerName := ""
	if winner != nil {
		winnerName = winner.DisplayName
	}
	remaining := max(result.RemainingMines, 0)
	for _, p := range session.Players() {
		b.send(p.ConnectionID, model.EventGameOver, protocol.GameOver{
			WinnerID:       string(result.Winner),
			WinnerName:     winnerName,
			IsWinner:       p.ID == result.Winner,
			RemainingMines: uint(remaining),
		})
	}
}

// HostDisconnected tells an orphaned guest its host left and what it can join next
func (b *Broadcaster) HostDisconnected(guest *model.PlayerRef, open []model.OpenGameSummary) {
	b.send(guest.ConnectionID, model.EventHostDisconnected, protocol.Simple{Name: protocol.NameHostDisconnected})
	b.send(guest.ConnectionID, model.EventOpenGamesChanged, protocol.OpenGamesFromSummaries(open))
}

// ClientDisconnected tells a host its guest left
func (b *Broadcaster) ClientDisconnected(host *model.PlayerRef) {
	b.send(host.ConnectionID, model.EventClientDisconnected, protocol.Simple{Name: protocol.NameClientDisconnected})
}

// OpenGames sends the open-games listing to a single connection
func (b *Broadcaster) OpenGames(conn model.ConnectionID, open []model.OpenGameSummary) {
	b.send(conn, model.EventOpenGamesChanged, protocol.OpenGamesFromSummaries(open))
}

// OpenGamesChanged pushes the open-games listing to every lobby watcher
func (b *Broadcaster) OpenGamesChanged(watchers []*model.PlayerRef, open []model.OpenGameSummary) {
	if len(watchers) == 0 {
		return
	}
	msg := protocol.OpenGamesFromSummaries(open)
	for _, w := range watchers {
		b.send(w.ConnectionID, model.EventOpenGamesChanged, msg)
	}
}

// Notice sends an unknown_message or error notice back to the sender
func (b *Broadcaster) Notice(conn model.ConnectionID, msg protocol.Message) {
	b.send(conn, model.EventType(msg.Kind()), msg)
}

func (b *Broadcaster) send(conn model.ConnectionID, event model.EventType, msg protocol.Message) {
	if err := b.sender.Send(conn, msg); err != nil {
		b.logger.Warn("ws message not delivered",
			slog.String("event", string(event)),
			slog.String("connection_id", string(conn)),
			slog.Any("error", err))
	}
}
