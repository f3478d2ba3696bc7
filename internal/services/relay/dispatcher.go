package relay

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/minesboomer/internal/model"
	"github.com/mcoot/minesboomer/internal/protocol"
	"github.com/mcoot/minesboomer/internal/services/session"
	"github.com/mcoot/minesboomer/internal/storage"
	"github.com/mcoot/minesboomer/internal/web/ws"
)

// Sessions is the session registry as seen by the dispatcher
type Sessions interface {
	Identify(ctx context.Context, conn model.ConnectionID, displayName string) (model.PlayerRef, error)
	CreateNamedSession(ctx context.Context, conn model.ConnectionID, name, difficulty string) (*model.Session, error)
	JoinSession(ctx context.Context, conn model.ConnectionID, id model.SessionID, displayName string) (*model.Session, error)
	ListOpenSessions() []model.OpenGameSummary
	ApplyMove(ctx context.Context, conn model.ConnectionID, p model.Point) (session.MoveOutcome, error)
	RemoveConnection(ctx context.Context, conn model.ConnectionID)
	State(conn model.ConnectionID) model.ConnState
	Identified(conn model.ConnectionID) bool
}

// Notifier sends replies that concern only the sending connection
type Notifier interface {
	Identify(conn model.ConnectionID)
	OpenGames(conn model.ConnectionID, open []model.OpenGameSummary)
	Notice(conn model.ConnectionID, msg protocol.Message)
}

// Options configures protocol policy
type Options struct {
	// UnknownMessageNotice replies unknown_message to undecodable input.
	// When false such input is dropped silently.
	UnknownMessageNotice bool
}

// Dispatcher runs the per-connection protocol state machine: it decodes
// inbound messages and routes them to the session registry
type Dispatcher struct {
	sessions Sessions
	notifier Notifier
	results  storage.Storage
	opts     Options
	logger   *slog.Logger

	mu   sync.RWMutex
	live map[model.ConnectionID]bool
}

// Ensure Dispatcher can serve WebSocket connections
var _ ws.Handler = (*Dispatcher)(nil)

// NewDispatcher creates a new Dispatcher
func NewDispatcher(sessions Sessions, notifier Notifier, results storage.Storage, opts Options, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sessions: sessions,
		notifier: notifier,
		results:  results,
		opts:     opts,
		logger:   logger.With(slog.String("component", "relay")),
		live:     make(map[model.ConnectionID]bool),
	}
}

// OnConnect asks the new connection to identify
func (d *Dispatcher) OnConnect(ctx context.Context, conn model.ConnectionID) {
	d.mu.Lock()
	d.live[conn] = true
	d.mu.Unlock()

	d.notifier.Identify(conn)
}

// Handle decodes one inbound message and applies it. Failures are reported
// to the sender and never end the connection.
func (d *Dispatcher) Handle(ctx context.Context, conn model.ConnectionID, raw []byte) {
	logger := d.logger.With(slog.String("connection_id", string(conn)))

	msg, err := protocol.Decode(raw)
	if err != nil {
		logger.DebugContext(ctx, "undecodable message", slog.Any("error", err))
		d.unknown(conn)
		return
	}

	switch m := msg.(type) {
	case protocol.Identification:
		_, err = d.sessions.Identify(ctx, conn, m.UserID)

	case protocol.CreateGame:
		_, err = d.sessions.CreateNamedSession(ctx, conn, m.Game.Name, m.Difficulty)

	case protocol.JoinGame:
		_, err = d.sessions.JoinSession(ctx, conn, model.SessionID(m.GameID), m.ClientName)

	case protocol.CellSelected:
		var outcome session.MoveOutcome
		outcome, err = d.sessions.ApplyMove(ctx, conn, m.Coordinates.ToModel())
		if err == nil && outcome.Result != nil {
			d.record(ctx, outcome.Result)
		}

	case protocol.Simple:
		if m.Name != protocol.NameGamesRequest {
			logger.DebugContext(ctx, "ignoring control message", slog.String("name", m.Name))
			return
		}
		d.notifier.OpenGames(conn, d.sessions.ListOpenSessions())

	default:
		// Server-to-client variants are not valid input
		logger.DebugContext(ctx, "unexpected message kind", slog.String("kind", string(msg.Kind())))
		d.unknown(conn)
		return
	}

	if err != nil {
		reply := toErrorMessage(err)
		level := slog.LevelInfo
		if reply.Code == CodeInternalError {
			level = slog.LevelError
		}
		logger.Log(ctx, level, "request rejected",
			slog.String("kind", string(msg.Kind())),
			slog.String("code", reply.Code),
			slog.Any("error", err))
		d.notifier.Notice(conn, reply)
	}
}

// OnDisconnect runs session cleanup for a closed connection
func (d *Dispatcher) OnDisconnect(ctx context.Context, conn model.ConnectionID) {
	d.mu.Lock()
	delete(d.live, conn)
	d.mu.Unlock()

	d.sessions.RemoveConnection(ctx, conn)
}

// Identified reports whether conn has identified
func (d *Dispatcher) Identified(conn model.ConnectionID) bool {
	return d.sessions.Identified(conn)
}

// State returns the protocol state of conn
func (d *Dispatcher) State(conn model.ConnectionID) model.ConnState {
	d.mu.RLock()
	live := d.live[conn]
	d.mu.RUnlock()
	if !live {
		return model.ConnStateClosed
	}
	return d.sessions.State(conn)
}

func (d *Dispatcher) unknown(conn model.ConnectionID) {
	if d.opts.UnknownMessageNotice {
		d.notifier.Notice(conn, protocol.Simple{Name: protocol.NameUnknownMessage})
	}
}

// record saves a finished game. Runs outside the registry lock.
func (d *Dispatcher) record(ctx context.Context, result *model.GameResult) {
	if err := d.results.SaveResult(ctx, result); err != nil {
		d.logger.ErrorContext(ctx, "failed to record game result",
			slog.String("result_id", result.ID),
			slog.Any("error", err))
		return
	}
	d.logger.InfoContext(ctx, "game result recorded",
		slog.String("result_id", result.ID),
		slog.String("session_id", string(result.SessionID)),
		slog.String("winner_id", string(result.WinnerID)))
}
