package protocol

import (
	"encoding/json"

	"github.com/mcoot/minesboomer/internal/model"
)

// Discriminant values carried in the "name" field
const (
	NameIdentification     = "user_identification"
	NameCellSelected       = "cell_selected"
	NameStart              = "start"
	NameGameOver           = "game_over"
	NameError              = "error"
	NameIdentify           = "identify"
	NameGamesRequest       = "games_request"
	NameWaitingEnemy       = "waiting_enemy"
	NameClientDisconnected = "client_disconnected"
	NameHostDisconnected   = "host_disconnected"
	NameUnknownMessage     = "unknown_message"
)

// Kind identifies a message variant
type Kind string

const (
	KindIdentification Kind = "identification"
	KindCellSelected   Kind = "cell_selected"
	KindCreateGame     Kind = "create_game"
	KindJoinGame       Kind = "join_game"
	KindGameStart      Kind = "game_start"
	KindOpenGames      Kind = "open_games"
	KindGameOver       Kind = "game_over"
	KindError          Kind = "error"
	KindSimple         Kind = "simple"
)

// Message is implemented by every wire message variant
type Message interface {
	Kind() Kind
}

// Point is a board coordinate on the wire
type Point struct {
	X uint `json:"x"`
	Y uint `json:"y"`
}

// Dimensions is the board size on the wire
type Dimensions struct {
	Width  uint `json:"width"`
	Height uint `json:"height"`
}

// Cell is a single board square on the wire
type Cell struct {
	Number      int8  `json:"number"`
	Cleared     bool  `json:"cleared"`
	Flagged     bool  `json:"flagged"`
	Coordinates Point `json:"coordinates"`
}

// Board is the full grid on the wire, cells in row-major order
type Board struct {
	Cells      []Cell     `json:"cells"`
	Dimensions Dimensions `json:"dimensions"`
}

// Identification carries the client's display name
type Identification struct {
	UserID string `json:"user_id"`
}

// CellSelected is a move. Inbound, IsActivePlayer is ignored.
type CellSelected struct {
	IsActivePlayer bool  `json:"is_active_player"`
	Coordinates    Point `json:"coordinates"`
}

// GameName is the nested game object of CreateGame
type GameName struct {
	Name string `json:"name"`
}

// CreateGame asks for a named pending session
type CreateGame struct {
	Game       GameName `json:"game"`
	Difficulty string   `json:"difficulty"`
}

// JoinGame asks to join an open session
type JoinGame struct {
	GameID     string `json:"game_id"`
	ClientName string `json:"client_name"`
}

// GameStart is sent to each participant when a session becomes active
type GameStart struct {
	Board    Board `json:"board"`
	IsActive bool  `json:"is_active"`
}

// GameDefinition is one entry of OpenGames
type GameDefinition struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Difficulty string `json:"difficulty"`
}

// OpenGames lists the joinable sessions
type OpenGames struct {
	Games []GameDefinition `json:"games"`
}

// GameOver tells a participant how the game ended
type GameOver struct {
	WinnerID       string `json:"winner_id"`
	WinnerName     string `json:"winner_name"`
	IsWinner       bool   `json:"is_winner"`
	RemainingMines uint   `json:"remaining_mines"`
}

// Error reports a recoverable failure to the sender
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Simple is a control message identified by name alone
type Simple struct {
	Name string `json:"name"`
}

func (Identification) Kind() Kind { return KindIdentification }
func (CellSelected) Kind() Kind   { return KindCellSelected }
func (CreateGame) Kind() Kind     { return KindCreateGame }
func (JoinGame) Kind() Kind       { return KindJoinGame }
func (GameStart) Kind() Kind      { return KindGameStart }
func (OpenGames) Kind() Kind      { return KindOpenGames }
func (GameOver) Kind() Kind       { return KindGameOver }
func (Error) Kind() Kind          { return KindError }
func (Simple) Kind() Kind         { return KindSimple }

func (m Identification) MarshalJSON() ([]byte, error) {
	type wire Identification
	return json.Marshal(struct {
		Name string `json:"name"`
		wire
	}{NameIdentification, wire(m)})
}

func (m CellSelected) MarshalJSON() ([]byte, error) {
	type wire CellSelected
	return json.Marshal(struct {
		Name string `json:"name"`
		wire
	}{NameCellSelected, wire(m)})
}

func (m GameStart) MarshalJSON() ([]byte, error) {
	type wire GameStart
	return json.Marshal(struct {
		Name string `json:"name"`
		wire
	}{NameStart, wire(m)})
}

func (m GameOver) MarshalJSON() ([]byte, error) {
	type wire GameOver
	return json.Marshal(struct {
		Name string `json:"name"`
		wire
	}{NameGameOver, wire(m)})
}

func (m Error) MarshalJSON() ([]byte, error) {
	type wire Error
	return json.Marshal(struct {
		Name string `json:"name"`
		wire
	}{NameError, wire(m)})
}

// PointFromModel converts a board coordinate to its wire form.
// Coordinates are never negative on a board.
func PointFromModel(p model.Point) Point {
	return Point{X: uint(p.X), Y: uint(p.Y)}
}

// ToModel converts a wire coordinate to a board coordinate
func (p Point) ToModel() model.Point {
	return model.Point{X: int(p.X), Y: int(p.Y)}
}

// BoardFromModel converts a board snapshot to its wire form
func BoardFromModel(b model.Board) Board {
	cells := make([]Cell, len(b.Cells))
	for i, c := range b.Cells {
		cells[i] = Cell{
			Number:      c.Number,
			Cleared:     c.Cleared,
			Flagged:     c.Flagged,
			Coordinates: PointFromModel(c.Coordinates),
		}
	}
	return Board{
		Cells: cells,
		Dimensions: Dimensions{
			Width:  uint(b.Dimensions.Width),
			Height: uint(b.Dimensions.Height),
		},
	}
}

// ToModel converts a wire board to a board snapshot
func (b Board) ToModel() model.Board {
	cells := make([]model.Cell, len(b.Cells))
	for i, c := range b.Cells {
		cells[i] = model.Cell{
			Number:      c.Number,
			Cleared:     c.Cleared,
			Flagged:     c.Flagged,
			Coordinates: c.Coordinates.ToModel(),
		}
	}
	return model.Board{
		Dimensions: model.Dimensions{
			Width:  int(b.Dimensions.Width),
			Height: int(b.Dimensions.Height),
		},
		Cells: cells,
	}
}

// OpenGamesFromSummaries builds the open-games listing
func OpenGamesFromSummaries(summaries []model.OpenGameSummary) OpenGames {
	games := make([]GameDefinition, len(summaries))
	for i, s := range summaries {
		games[i] = GameDefinition{
			ID:         string(s.SessionID),
			Name:       s.Name,
			Difficulty: string(s.Difficulty),
		}
	}
	return OpenGames{Games: games}
}
