package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/minesboomer/internal/dependencies/clock"
	"github.com/mcoot/minesboomer/internal/dependencies/ids"
	"github.com/mcoot/minesboomer/internal/model"
)

// GameFactory lays out a new turn authority when a session becomes active
type GameFactory interface {
	NewGame(difficulty model.Difficulty, host, guest model.PlayerID) model.TurnAuthority
}

// Mover applies a move to an active session
type Mover interface {
	ApplyMove(session *model.Session, player model.PlayerID, p model.Point) (model.MoveResult, error)
}

// Broadcaster delivers session events to participants. Calls must not block.
type Broadcaster interface {
	WaitingForOpponent(host *model.PlayerRef)
	GameStarted(session *model.Session)
	MoveApplied(session *model.Session, result model.MoveResult)
	GameOver(session *model.Session, result model.MoveResult)
	HostDisconnected(guest *model.PlayerRef, open []model.OpenGameSummary)
	ClientDisconnected(host *model.PlayerRef)
	OpenGamesChanged(watchers []*model.PlayerRef, open []model.OpenGameSummary)
}

// MoveOutcome is the result of a move. Result is set when the move ended the game.
type MoveOutcome struct {
	Move   model.MoveResult
	Result *model.GameResult
}

// Stats is a point-in-time count of registry contents
type Stats struct {
	Players        int `json:"players"`
	OpenSessions   int `json:"open_sessions"`
	ActiveSessions int `json:"active_sessions"`
	GamesStarted   int `json:"games_started"`
	GamesFinished  int `json:"games_finished"`
}

// Registry owns all sessions and performs matchmaking.
// Lock order: Registry, then Directory, then the connection registry behind
// the Broadcaster. Broadcasts only queue messages, so they are made while
// the registry lock is held to keep per-connection ordering.
type Registry struct {
	mu            sync.Mutex
	sessions      []*model.Session // Creation order
	byID          map[model.SessionID]*model.Session
	directory     *Directory
	games         GameFactory
	turns         Mover
	broadcaster   Broadcaster
	clock         clock.Clock
	ids           ids.Generator
	logger        *slog.Logger
	gamesStarted  int
	gamesFinished int
}

// NewRegistry creates a new Registry
func NewRegistry(
	directory *Directory,
	games GameFactory,
	turns Mover,
	broadcaster Broadcaster,
	clock clock.Clock,
	idgen ids.Generator,
	logger *slog.Logger,
) *Registry {
	return &Registry{
		byID:        make(map[model.SessionID]*model.Session),
		directory:   directory,
		games:       games,
		turns:       turns,
		broadcaster: broadcaster,
		clock:       clock,
		ids:         idgen,
		logger:      logger.With(slog.String("component", "session")),
	}
}

// Identify registers a display name for conn. A new player is matched into
// the first pending session if there is one, or becomes the host of a new
// pending session. Identifying again only renames the player, unless their
// game has finished, in which case they are matched again.
func (r *Registry) Identify(ctx context.Context, conn model.ConnectionID, displayName string) (model.PlayerRef, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return model.PlayerRef{}, model.ErrInvalidName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.directory.Get(conn)
	switch {
	case ok && r.leaveFinishedLocked(ctx, p):
		p.DisplayName = name
	case ok:
		r.renameLocked(p, name)
		return *p, nil
	default:
		p = r.directory.Add(conn, name)
		r.logger.InfoContext(ctx, "player identified",
			slog.String("connection_id", string(conn)),
			slog.String("player_id", string(p.ID)),
			slog.String("display_name", name))
	}

	if s := r.firstPendingLocked(); s != nil {
		r.startLocked(ctx, s, p)
	} else {
		s := r.createLocked(ctx, p, name, model.DifficultyEasy)
		s.AutoNamed = true
	}
	r.openGamesChangedLocked()
	return *p, nil
}

// CreateNamedSession registers a pending session named by its host. The
// creator is told to wait. A host whose session is still pending
// reconfigures it instead of creating another.
func (r *Registry) CreateNamedSession(ctx context.Context, conn model.ConnectionID, name, difficulty string) (*model.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrInvalidName
	}
	diff, err := model.ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.directory.Get(conn)
	if !ok {
		// Clients that skip identification are known by their game's name
		p = r.directory.Add(conn, name)
	}

	var s *model.Session
	r.leaveFinishedLocked(ctx, p)
	if p.InSession() {
		s = r.byID[p.SessionID]
		if !s.IsPending() {
			return nil, model.ErrAlreadyInSession
		}
		s.Name = name
		s.AutoNamed = false
		s.Difficulty = diff
		r.logger.InfoContext(ctx, "session reconfigured",
			slog.String("session_id", string(s.ID)),
			slog.String("name", name),
			slog.String("difficulty", string(diff)))
	} else {
		s = r.createLocked(ctx, p, name, diff)
	}

	r.broadcaster.WaitingForOpponent(p)
	r.openGamesChangedLocked()
	return cloneSession(s), nil
}

// JoinSession adds conn as the guest of a pending session and starts the
// game. A host of a different pending session abandons it first, and a
// participant of a finished game leaves it.
func (r *Registry) JoinSession(ctx context.Context, conn model.ConnectionID, id model.SessionID, displayName string) (*model.Session, error) {
	name := strings.TrimSpace(displayName)

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}

	p, known := r.directory.Get(conn)
	if known && p.InSession() {
		if p.SessionID == id {
			return nil, model.ErrAlreadyInSession
		}
		if own := r.byID[p.SessionID]; own.InProgress() {
			return nil, model.ErrAlreadyInSession
		}
	}
	if !s.IsPending() {
		return nil, model.ErrSessionFull
	}

	switch {
	case known && name != "":
		p.DisplayName = name
	case !known && name == "":
		return nil, model.ErrInvalidName
	case !known:
		p = r.directory.Add(conn, name)
	}

	if p.InSession() && !r.leaveFinishedLocked(ctx, p) {
		own := r.byID[p.SessionID]
		r.logger.InfoContext(ctx, "pending session abandoned",
			slog.String("session_id", string(own.ID)))
		r.deleteLocked(own)
		p.SessionID = ""
	}

	r.startLocked(ctx, s, p)
	r.openGamesChangedLocked()
	return cloneSession(s), nil
}

// ListOpenSessions returns the pending sessions in creation order
func (r *Registry) ListOpenSessions() []model.OpenGameSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.openLocked()
}

// ApplyMove plays the cell at p for the player on conn and broadcasts the
// result to both participants
func (r *Registry) ApplyMove(ctx context.Context, conn model.ConnectionID, p model.Point) (MoveOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, ok := r.directory.Get(conn)
	if !ok {
		return MoveOutcome{}, model.ErrNotIdentified
	}
	if !player.InSession() {
		return MoveOutcome{}, model.ErrNotInSession
	}
	s, ok := r.byID[player.SessionID]
	if !ok {
		return MoveOutcome{}, model.ErrSessionNotFound
	}

	move, err := r.turns.ApplyMove(s, player.ID, p)
	if err != nil {
		return MoveOutcome{}, err
	}
	outcome := MoveOutcome{Move: move}
	if !move.Accepted {
		return outcome, nil
	}

	s.Moves++
	r.broadcaster.MoveApplied(s, move)

	if move.Winner != "" {
		r.gamesFinished++
		result := r.resultLocked(s, move.Winner)
		outcome.Result = &result
		r.broadcaster.GameOver(s, move)
		r.logger.InfoContext(ctx, "game over",
			slog.String("session_id", string(s.ID)),
			slog.String("winner_id", string(move.Winner)),
			slog.Int("moves", s.Moves))
	}
	return outcome, nil
}

// RemoveConnection cleans up after conn disconnects. A departing host
// destroys its session and orphans the guest; a departing guest returns the
// session to the open list.
func (r *Registry) RemoveConnection(ctx context.Context, conn model.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.directory.Remove(conn)
	if !ok || !p.InSession() {
		return
	}
	s, ok := r.byID[p.SessionID]
	if !ok {
		return
	}
	if r.leaveFinishedLocked(ctx, p) {
		return
	}

	if s.Host == p {
		r.deleteLocked(s)
		r.logger.InfoContext(ctx, "host disconnected - session destroyed",
			slog.String("session_id", string(s.ID)),
			slog.Bool("had_guest", s.Guest != nil))
		if guest := s.Guest; guest != nil {
			guest.SessionID = ""
			r.broadcaster.HostDisconnected(guest, r.openLocked())
			return
		}
		r.openGamesChangedLocked()
		return
	}

	s.Guest = nil
	s.Turn = nil
	s.Moves = 0
	s.StartedAt = time.Time{}
	r.logger.InfoContext(ctx, "guest disconnected - session reopened",
		slog.String("session_id", string(s.ID)))
	r.broadcaster.ClientDisconnected(s.Host)
	r.openGamesChangedLocked()
}

// State returns the protocol state of conn. Connections with no player are
// reported as connected.
func (r *Registry) State(conn model.ConnectionID) model.ConnState {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.directory.Get(conn)
	if !ok {
		return model.ConnStateConnected
	}
	if s, ok := r.byID[p.SessionID]; ok && s.InProgress() {
		return model.ConnStateMatched
	}
	return model.ConnStateIdentified
}

// Identified reports whether conn has a player
func (r *Registry) Identified(conn model.ConnectionID) bool {
	_, ok := r.directory.Get(conn)
	return ok
}

// Player returns a copy of the player identified on conn
func (r *Registry) Player(conn model.ConnectionID) (model.PlayerRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.directory.Get(conn)
	if !ok {
		return model.PlayerRef{}, model.ErrPlayerNotFound
	}
	return *p, nil
}

// Session returns a snapshot of a session
func (r *Registry) Session(id model.SessionID) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return cloneSession(s), nil
}

// Stats returns current counts
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := Stats{
		Players:       r.directory.Count(),
		GamesStarted:  r.gamesStarted,
		GamesFinished: r.gamesFinished,
	}
	for _, s := range r.sessions {
		switch {
		case s.IsPending():
			stats.OpenSessions++
		case s.InProgress():
			stats.ActiveSessions++
		}
	}
	return stats
}

func (r *Registry) firstPendingLocked() *model.Session {
	for _, s := range r.sessions {
		if s.IsPending() {
			return s
		}
	}
	return nil
}

func (r *Registry) createLocked(ctx context.Context, host *model.PlayerRef, name string, difficulty model.Difficulty) *model.Session {
	s := &model.Session{
		ID:         model.SessionID(r.ids.NewID()),
		Name:       name,
		Difficulty: difficulty,
		Host:       host,
		CreatedAt:  r.clock.Now(),
	}
	r.sessions = append(r.sessions, s)
	r.byID[s.ID] = s
	host.SessionID = s.ID

	r.logger.InfoContext(ctx, "session created",
		slog.String("session_id", string(s.ID)),
		slog.String("host_id", string(host.ID)),
		slog.String("name", name),
		slog.String("difficulty", string(difficulty)))
	return s
}

// startLocked seats guest in s and lays out the board. Guest and Turn are
// set together.
func (r *Registry) startLocked(ctx context.Context, s *model.Session, guest *model.PlayerRef) {
	s.Guest = guest
	s.Turn = r.games.NewGame(s.Difficulty, s.Host.ID, guest.ID)
	s.Moves = 0
	s.StartedAt = r.clock.Now()
	guest.SessionID = s.ID
	r.gamesStarted++

	r.logger.InfoContext(ctx, "session started",
		slog.String("session_id", string(s.ID)),
		slog.String("host_id", string(s.Host.ID)),
		slog.String("guest_id", string(guest.ID)))
	r.broadcaster.GameStarted(s)
}

// leaveFinishedLocked detaches p from its session if that game is over.
// The session is dropped once neither participant remains in it; until then
// the other participant's moves still fail with ErrGameOver.
func (r *Registry) leaveFinishedLocked(ctx context.Context, p *model.PlayerRef) bool {
	s, ok := r.byID[p.SessionID]
	if !ok || !s.IsFinished() {
		return false
	}
	p.SessionID = ""
	for _, other := range s.Players() {
		if other.SessionID == s.ID {
			return true
		}
	}
	r.deleteLocked(s)
	r.logger.InfoContext(ctx, "finished session removed",
		slog.String("session_id", string(s.ID)))
	return true
}

// renameLocked changes p's display name. A pending host's listing changes
// with it, including the session name when that came from the host's name.
func (r *Registry) renameLocked(p *model.PlayerRef, name string) {
	if p.DisplayName == name {
		return
	}
	p.DisplayName = name
	s, ok := r.byID[p.SessionID]
	if !ok || s.Host != p || !s.IsPending() {
		return
	}
	if s.AutoNamed {
		s.Name = name
	}
	r.openGamesChangedLocked()
}

func (r *Registry) deleteLocked(s *model.Session) {
	delete(r.byID, s.ID)
	for i, existing := range r.sessions {
		if existing == s {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			break
		}
	}
}

func (r *Registry) openLocked() []model.OpenGameSummary {
	open := []model.OpenGameSummary{}
	for _, s := range r.sessions {
		if s.IsPending() {
			open = append(open, s.Summary())
		}
	}
	return open
}

func (r *Registry) openGamesChangedLocked() {
	r.broadcaster.OpenGamesChanged(r.directory.Idle(), r.openLocked())
}

func (r *Registry) resultLocked(s *model.Session, winnerID model.PlayerID) model.GameResult {
	winner := s.Participant(winnerID)
	loser := s.Opponent(winnerID)
	return model.GameResult{
		ID:         r.ids.NewID(),
		SessionID:  s.ID,
		Name:       s.Name,
		Difficulty: s.Difficulty,
		WinnerID:   winner.ID,
		WinnerName: winner.DisplayName,
		LoserID:    loser.ID,
		LoserName:  loser.DisplayName,
		Moves:      s.Moves,
		StartedAt:  s.StartedAt,
		FinishedAt: r.clock.Now(),
	}
}

// cloneSession copies s so callers can read it without the registry lock.
// The turn authority is shared and must not be used outside the lock.
func cloneSession(s *model.Session) *model.Session {
	c := *s
	if s.Host != nil {
		host := *s.Host
		c.Host = &host
	}
	if s.Guest != nil {
		guest := *s.Guest
		c.Guest = &guest
	}
	return &c
}
