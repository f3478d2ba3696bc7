package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/minesboomer/internal/model"
	"github.com/mcoot/minesboomer/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu      sync.RWMutex
	results map[string]*model.GameResult
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		results: make(map[string]*model.GameResult),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveResult(ctx context.Context, result *model.GameResult) error {
	stored := *result
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.ID] = &stored
	return nil
}

func (s *Storage) GetResult(ctx context.Context, id string) (*model.GameResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[id]
	if !ok {
		return nil, model.ErrResultNotFound
	}
	found := *result
	return &found, nil
}

func (s *Storage) ListResults(ctx context.Context, limit int) ([]*model.GameResult, error) {
	s.mu.RLock()
	results := make([]*model.GameResult, 0, len(s.results))
	for _, r := range s.results {
		found := *r
		results = append(results, &found)
	}
	s.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].FinishedAt.Equal(results[j].FinishedAt) {
			return results[i].ID > results[j].ID
		}
		return results[i].FinishedAt.After(results[j].FinishedAt)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
