package model

import (
	"fmt"
	"strings"
	"time"
)

// SessionID uniquely identifies a session
type SessionID string

// Difficulty selects the board preset for a session
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty accepts a difficulty name in any letter case.
// An empty string selects Easy.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
	}
}

// ConnState is the protocol state of a single connection
type ConnState string

const (
	ConnStateConnected  ConnState = "connected"  // Registered, not yet identified
	ConnStateIdentified ConnState = "identified" // Has a PlayerRef, no active game
	ConnStateMatched    ConnState = "matched"    // Participant of an active session
	ConnStateClosed     ConnState = "closed"     // Unregistered
)

// Session is a matched or pending two-player game instance.
// Guest and Turn are populated together when a guest joins and cleared together
// when the guest leaves. A finished session keeps both until its participants
// move on.
type Session struct {
	ID         SessionID
	Name       string
	AutoNamed  bool // Name follows the host's display name
	Difficulty Difficulty
	Host       *PlayerRef
	Guest      *PlayerRef
	Turn       TurnAuthority
	Moves      int
	CreatedAt  time.Time
	StartedAt  time.Time
}

// IsPending returns true if the session is waiting for a guest
func (s *Session) IsPending() bool {
	return s.Guest == nil
}

// IsActive returns true if a game is in progress or finished but not torn down
func (s *Session) IsActive() bool {
	return s.Turn != nil
}

// IsFinished returns true once the game has a winner
func (s *Session) IsFinished() bool {
	return s.Turn != nil && s.Turn.Winner() != ""
}

// InProgress returns true while a game is being played
func (s *Session) InProgress() bool {
	return s.IsActive() && !s.IsFinished()
}

// Players returns the host followed by the guest, if present
func (s *Session) Players() []*PlayerRef {
	players := []*PlayerRef{s.Host}
	if s.Guest != nil {
		players = append(players, s.Guest)
	}
	return players
}

// Participant returns the participant with the given id, or nil
func (s *Session) Participant(id PlayerID) *PlayerRef {
	for _, p := range s.Players() {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Opponent returns the other participant, or nil
func (s *Session) Opponent(id PlayerID) *PlayerRef {
	switch {
	case s.Host != nil && s.Host.ID == id:
		return s.Guest
	case s.Guest != nil && s.Guest.ID == id:
		return s.Host
	}
	return nil
}

// Summary projects the session into an open-game listing entry
func (s *Session) Summary() OpenGameSummary {
	return OpenGameSummary{
		SessionID:  s.ID,
		Name:       s.Name,
		HostName:   s.Host.DisplayName,
		Difficulty: s.Difficulty,
		CreatedAt:  s.CreatedAt,
	}
}

// OpenGameSummary is a read-only projection of a pending session
type OpenGameSummary struct {
	SessionID  SessionID
	Name       string
	HostName   string
	Difficulty Difficulty
	CreatedAt  time.Time
}
