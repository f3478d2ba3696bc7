package model

// PlayerID uniquely identifies a player. Generated server side, never reused.
type PlayerID string

// ConnectionID is the opaque identity of a single client connection
type ConnectionID string

// PlayerRef binds a display name and a connection to at most one session
type PlayerRef struct {
	ID           PlayerID
	DisplayName  string
	ConnectionID ConnectionID
	SessionID    SessionID // Empty when not in a session
}

// InSession reports whether the player currently belongs to a session
func (p *PlayerRef) InSession() bool {
	return p.SessionID != ""
}
