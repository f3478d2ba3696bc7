package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mcoot/minesboomer/internal/protocol"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		o.printf("Status: %s\n", v.Status)
	case OpenGames:
		o.printOpenGames(v)
	case Stats:
		o.printStats(v)
	case Results:
		o.printResults(v)
	case Result:
		o.printResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// OpenGame response type (matches API)
type OpenGame struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	HostName   string    `json:"host_name"`
	Difficulty string    `json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
}

// OpenGames response type
type OpenGames struct {
	Games []OpenGame `json:"games"`
}

// Stats response type
type Stats struct {
	Connections    int `json:"connections"`
	Players        int `json:"players"`
	OpenSessions   int `json:"open_sessions"`
	ActiveSessions int `json:"active_sessions"`
	GamesStarted   int `json:"games_started"`
	GamesFinished  int `json:"games_finished"`
}

// Result response type
type Result struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Name       string    `json:"name"`
	Difficulty string    `json:"difficulty"`
	WinnerID   string    `json:"winner_id"`
	WinnerName string    `json:"winner_name"`
	LoserID    string    `json:"loser_id,omitempty"`
	LoserName  string    `json:"loser_name,omitempty"`
	Moves      int       `json:"moves"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Duration   string    `json:"duration"`
}

// Results response type
type Results struct {
	Results []Result `json:"results"`
}

func (o *Output) printOpenGames(g OpenGames) {
	if len(g.Games) == 0 {
		o.printf("No open games\n")
		return
	}
	o.printf("Open games (%d):\n", len(g.Games))
	for _, game := range g.Games {
		o.printf("  - %s [%s] hosted by %s (%s)\n", game.Name, game.Difficulty, game.HostName, game.ID)
	}
}

func (o *Output) printStats(s Stats) {
	o.printf("Connections: %d\n", s.Connections)
	o.printf("Players: %d\n", s.Players)
	o.printf("Open games: %d\n", s.OpenSessions)
	o.printf("Games in progress: %d\n", s.ActiveSessions)
	o.printf("Games started: %d\n", s.GamesStarted)
	o.printf("Games finished: %d\n", s.GamesFinished)
}

func (o *Output) printResults(r Results) {
	if len(r.Results) == 0 {
		o.printf("No finished games\n")
		return
	}
	for _, result := range r.Results {
		o.printf("%s  %s beat %s in %d moves [%s] (%s)\n",
			result.FinishedAt.Format("2006-01-02 15:04"), result.WinnerName, result.LoserName,
			result.Moves, result.Difficulty, result.ID)
	}
}

func (o *Output) printResult(r Result) {
	o.printf("Result: %s\n", r.ID)
	o.printf("Game: %s (%s)\n", r.Name, r.SessionID)
	o.printf("Difficulty: %s\n", r.Difficulty)
	o.printf("Winner: %s\n", r.WinnerName)
	if r.LoserName != "" {
		o.printf("Loser: %s\n", r.LoserName)
	}
	o.printf("Moves: %d\n", r.Moves)
	o.printf("Duration: %s\n", r.Duration)
}

// PrintBoard renders a board with column and row headers.
// Hidden cells are '#', cleared empty cells '.', revealed mines '*'.
func (o *Output) PrintBoard(b protocol.Board) {
	if o.format == "json" {
		o.printJSON(b)
		return
	}
	width := int(b.Dimensions.Width)
	height := int(b.Dimensions.Height)
	if width == 0 || height == 0 || len(b.Cells) < width*height {
		return
	}

	// Print column headers
	o.printf("    ")
	for x := 0; x < width; x++ {
		o.printf("%2d ", x)
	}
	o.printf("\n")

	// Print top border
	o.printf("   +%s+\n", strings.Repeat("---", width))

	// Print rows
	for y := 0; y < height; y++ {
		o.printf("%2d |", y)
		for x := 0; x < width; x++ {
			o.printf(" %c ", cellRune(b.Cells[y*width+x]))
		}
		o.printf("|\n")
	}

	// Print bottom border
	o.printf("   +%s+\n", strings.Repeat("---", width))
}

func cellRune(c protocol.Cell) rune {
	switch {
	case c.Flagged && !c.Cleared:
		return 'F'
	case !c.Cleared:
		return '#'
	case c.Number < 0:
		return '*'
	case c.Number == 0:
		return '.'
	default:
		return rune('0' + c.Number)
	}
}
