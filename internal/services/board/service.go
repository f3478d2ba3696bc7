package board

import (
	"log/slog"

	"github.com/mcoot/minesboomer/internal/dependencies/random"
	"github.com/mcoot/minesboomer/internal/model"
)

// Service creates turn authorities for sessions
type Service struct {
	random random.Random
	logger *slog.Logger
}

// New creates a new BoardService
func New(random random.Random, logger *slog.Logger) *Service {
	return &Service{
		random: random,
		logger: logger.With(slog.String("component", "board")),
	}
}

// NewGame lays out a fresh board for the difficulty. The host moves first.
func (s *Service) NewGame(difficulty model.Difficulty, host, guest model.PlayerID) model.TurnAuthority {
	preset := PresetFor(difficulty)
	s.logger.Debug("laying out board",
		slog.String("difficulty", string(difficulty)),
		slog.Int("width", preset.Width),
		slog.Int("height", preset.Height),
		slog.Int("mines", preset.Mines))
	return NewGame(NewGrid(preset, s.random), host, guest)
}

// Interface for dependency injection
type ServiceInterface interface {
	NewGame(difficulty model.Difficulty, host, guest model.PlayerID) model.TurnAuthority
}

var _ ServiceInterface = (*Service)(nil)
