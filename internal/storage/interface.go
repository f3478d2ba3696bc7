package storage

import (
	"context"

	"github.com/mcoot/minesboomer/internal/model"
)

// Storage defines the interface for the finished-game ledger.
// Live sessions are never persisted.
type Storage interface {
	// SaveResult records a finished game
	SaveResult(ctx context.Context, result *model.GameResult) error
	// GetResult returns a recorded game by id
	GetResult(ctx context.Context, id string) (*model.GameResult, error)
	// ListResults returns up to limit results, most recently finished first.
	// A limit of zero or less returns every result.
	ListResults(ctx context.Context, limit int) ([]*model.GameResult, error)
}
