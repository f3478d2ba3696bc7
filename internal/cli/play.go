package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/mcoot/minesboomer/internal/dependencies/random"
	"github.com/mcoot/minesboomer/internal/protocol"
	"github.com/mcoot/minesboomer/internal/services/board"
	"github.com/mcoot/minesboomer/internal/services/bot"
)

const playHelp = `Commands:
  <x> <y>     select a cell (also "x,y")
  games       list open games
  join <id>   join an open game
  board       show the board again
  quit        leave`

func newPlayCmd() *cobra.Command {
	var opts PlayOptions
	var auto string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game over the WebSocket protocol",
		Long: `Connect to the server's game endpoint and play from the terminal.

By default the player is matched into the first open game, or hosts a new
one. Use --create to host a named game or --join to join a specific one.
With --auto the client picks its own moves using the named strategy
(random or cautious).

` + playHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			wsURL, err := cfg.WebSocketURL()
			if err != nil {
				return err
			}
			if auto != "" {
				opts.Strategy, err = bot.Lookup(auto, random.New())
				if err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return Play(ctx, wsURL, opts, cmd.InOrStdin(), NewOutput(cfg.Output, cmd.OutOrStdout()))
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&opts.Create, "create", "", "Host a new game with this name")
	cmd.Flags().StringVar(&opts.Difficulty, "difficulty", "Easy", "Difficulty of a created game: Easy, Medium, Hard")
	cmd.Flags().StringVar(&opts.Join, "join", "", "Join the open game with this id")
	cmd.Flags().StringVar(&auto, "auto", "", "Play automatically with this strategy")
	cmd.MarkFlagsMutuallyExclusive("create", "join")

	return cmd
}

// PlayOptions selects how the player enters a game
type PlayOptions struct {
	Name       string
	Create     string
	Difficulty string
	Join       string
	// Strategy, when set, chooses moves instead of the user
	Strategy bot.Strategy
}

func (o PlayOptions) validate() error {
	if o.Create != "" && o.Join != "" {
		return errors.New("--create and --join are mutually exclusive")
	}
	// A created game names its host
	if o.Create == "" && strings.TrimSpace(o.Name) == "" {
		return errors.New("--name is required")
	}
	return nil
}

// greeting answers the server's identify request
func (o PlayOptions) greeting() protocol.Message {
	switch {
	case o.Create != "":
		return protocol.CreateGame{Game: protocol.GameName{Name: o.Create}, Difficulty: o.Difficulty}
	case o.Join != "":
		return protocol.JoinGame{GameID: o.Join, ClientName: o.Name}
	default:
		return protocol.Identification{UserID: o.Name}
	}
}

// Play connects to wsURL and plays one game, reading commands from in.
// It returns when the game ends, the server closes the connection, the
// user quits or ctx is cancelled.
func Play(ctx context.Context, wsURL string, opts PlayOptions, in io.Reader, out *Output) error {
	if err := opts.validate(); err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = conn.Close() }()

	done := make(chan struct{})
	defer close(done)

	incoming := make(chan protocol.Message)
	readErr := make(chan error, 1)
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			msg, err := protocol.Decode(data)
			if err != nil {
				continue
			}
			select {
			case incoming <- msg:
			case <-done:
				return
			}
		}
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	p := &player{conn: conn, opts: opts, out: out}
	for {
		select {
		case <-ctx.Done():
			p.leave()
			return nil

		case err := <-readErr:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				out.PrintMessage("Server closed the connection")
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)

		case msg := <-incoming:
			over, err := p.handle(msg)
			if err != nil {
				return err
			}
			if over {
				p.leave()
				return nil
			}

		case line, ok := <-lines:
			if !ok {
				// Keep playing on closed input; the game or ctx ends the session
				lines = nil
				continue
			}
			quit, err := p.command(line)
			if err != nil {
				return err
			}
			if quit {
				p.leave()
				return nil
			}
		}
	}
}

// player is the client side of one connection. Only the Play loop touches it.
type player struct {
	conn *websocket.Conn
	opts PlayOptions
	out  *Output

	grid    *board.Grid
	active  bool
	pending []protocol.Point
}

func (p *player) send(msg protocol.Message) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send %s: %w", msg.Kind(), err)
	}
	return nil
}

func (p *player) leave() {
	_ = p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

// handle reacts to a server message. Returns true once the game is over.
func (p *player) handle(msg protocol.Message) (bool, error) {
	switch m := msg.(type) {
	case protocol.Simple:
		switch m.Name {
		case protocol.NameIdentify:
			return false, p.send(p.opts.greeting())
		case protocol.NameWaitingEnemy:
			p.out.PrintMessage("Waiting for an opponent...")
		case protocol.NameHostDisconnected:
			p.grid = nil
			p.out.PrintMessage("The host left the game")
		case protocol.NameClientDisconnected:
			p.grid = nil
			p.out.PrintMessage("Your opponent left; waiting for a new one...")
		case protocol.NameUnknownMessage:
			p.out.PrintMessage("The server did not understand the last message")
		}

	case protocol.GameStart:
		p.grid = board.NewGridFromBoard(m.Board.ToModel())
		p.active = m.IsActive
		p.out.PrintMessage("Game started")
		p.showBoard()
		for _, pt := range p.pending {
			if err := p.send(protocol.CellSelected{Coordinates: pt}); err != nil {
				return false, err
			}
		}
		p.pending = nil
		if err := p.autoMove(); err != nil {
			return false, err
		}

	case protocol.CellSelected:
		pt := m.Coordinates.ToModel()
		if p.grid != nil && p.grid.InBounds(pt) {
			p.grid.Reveal(pt)
		}
		p.active = m.IsActivePlayer
		p.out.PrintMessage(fmt.Sprintf("Cell (%d, %d) selected", m.Coordinates.X, m.Coordinates.Y))
		p.showBoard()
		if err := p.autoMove(); err != nil {
			return false, err
		}

	case protocol.GameOver:
		if m.IsWinner {
			p.out.PrintMessage("You won!")
		} else {
			p.out.PrintMessage(fmt.Sprintf("%s won.", m.WinnerName))
		}
		p.out.PrintMessage(fmt.Sprintf("Mines left: %d", m.RemainingMines))
		return true, nil

	case protocol.OpenGames:
		if len(m.Games) == 0 {
			p.out.PrintMessage("No open games")
		}
		for _, g := range m.Games {
			p.out.PrintMessage(fmt.Sprintf("  - %s [%s] (%s)", g.Name, g.Difficulty, g.ID))
		}

	case protocol.Error:
		p.out.PrintMessage(fmt.Sprintf("Error: %s (%s)", m.Message, m.Code))
	}
	return false, nil
}

// autoMove plays for the user when a strategy is set and it is our turn
func (p *player) autoMove() error {
	if p.opts.Strategy == nil || p.grid == nil || !p.active {
		return nil
	}
	pt, ok := p.opts.Strategy.ChooseCell(p.grid.Snapshot())
	if !ok {
		return nil
	}
	p.out.PrintMessage(fmt.Sprintf("Auto-selecting (%d, %d)", pt.X, pt.Y))
	return p.send(protocol.CellSelected{Coordinates: protocol.PointFromModel(pt)})
}

func (p *player) showBoard() {
	if p.grid == nil {
		p.out.PrintMessage("No game in progress")
		return
	}
	p.out.PrintBoard(protocol.BoardFromModel(p.grid.Snapshot()))
	if p.active {
		p.out.PrintMessage("Your turn")
	} else {
		p.out.PrintMessage("Waiting for your opponent's move")
	}
}

// command runs one line of user input. Returns true to quit.
func (p *player) command(line string) (bool, error) {
	cmd, err := parseCommand(line)
	if err != nil {
		p.out.PrintMessage(err.Error())
		return false, nil
	}

	switch cmd.kind {
	case commandNone:
	case commandQuit:
		return true, nil
	case commandHelp:
		p.out.PrintMessage(playHelp)
	case commandBoard:
		p.showBoard()
	case commandGames:
		return false, p.send(protocol.Simple{Name: protocol.NameGamesRequest})
	case commandJoin:
		return false, p.send(protocol.JoinGame{GameID: cmd.arg, ClientName: p.opts.Name})
	case commandSelect:
		if p.grid == nil {
			p.pending = append(p.pending, cmd.point)
			p.out.PrintMessage("Move queued until the game starts")
			return false, nil
		}
		return false, p.send(protocol.CellSelected{Coordinates: cmd.point})
	}
	return false, nil
}

type commandKind int

const (
	commandNone commandKind = iota
	commandQuit
	commandHelp
	commandBoard
	commandGames
	commandJoin
	commandSelect
)

type command struct {
	kind  commandKind
	arg   string
	point protocol.Point
}

func parseCommand(line string) (command, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	if len(fields) == 0 {
		return command{kind: commandNone}, nil
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return command{kind: commandQuit}, nil
	case "help", "?":
		return command{kind: commandHelp}, nil
	case "board":
		return command{kind: commandBoard}, nil
	case "games":
		return command{kind: commandGames}, nil
	case "join":
		if len(fields) != 2 {
			return command{}, errors.New("usage: join <id>")
		}
		return command{kind: commandJoin, arg: fields[1]}, nil
	}

	if len(fields) != 2 {
		return command{}, fmt.Errorf("unknown command %q; type help", line)
	}
	x, errX := strconv.ParseUint(fields[0], 10, 32)
	y, errY := strconv.ParseUint(fields[1], 10, 32)
	if errX != nil || errY != nil {
		return command{}, fmt.Errorf("unknown command %q; type help", line)
	}
	return command{kind: commandSelect, point: protocol.Point{X: uint(x), Y: uint(y)}}, nil
}
