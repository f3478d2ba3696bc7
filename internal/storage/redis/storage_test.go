package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/minesboomer/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
	base    time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.ResultTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
	s.base = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) result(n int) *model.GameResult {
	return &model.GameResult{
		ID:         fmt.Sprintf("result-%d", n),
		SessionID:  model.SessionID(fmt.Sprintf("session-%d", n)),
		Name:       "A's Game",
		Difficulty: model.DifficultyHard,
		WinnerID:   "alice",
		WinnerName: "Alice",
		LoserID:    "bob",
		LoserName:  "Bob",
		Moves:      n,
		StartedAt:  s.base,
		FinishedAt: s.base.Add(time.Duration(n) * time.Minute),
	}
}

func (s *StorageSuite) TestSaveAndGetResult() {
	result := s.result(1)

	err := s.storage.SaveResult(s.ctx, result)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetResult(s.ctx, "result-1")
	s.Require().NoError(err)
	s.Equal(result.ID, retrieved.ID)
	s.Equal(result.SessionID, retrieved.SessionID)
	s.Equal(result.WinnerName, retrieved.WinnerName)
	s.Equal(result.Difficulty, retrieved.Difficulty)
	s.True(result.FinishedAt.Equal(retrieved.FinishedAt))
}

func (s *StorageSuite) TestGetResultNotFound() {
	_, err := s.storage.GetResult(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrResultNotFound)
}

func (s *StorageSuite) TestResultHasTTL() {
	s.Require().NoError(s.storage.SaveResult(s.ctx, s.result(1)))

	ttl := s.mini.TTL(resultKey("result-1"))
	s.Equal(time.Hour, ttl)
}

func (s *StorageSuite) TestResultExpires() {
	s.Require().NoError(s.storage.SaveResult(s.ctx, s.result(1)))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetResult(s.ctx, "result-1")
	s.ErrorIs(err, model.ErrResultNotFound)

	results, err := s.storage.ListResults(s.ctx, 0)
	s.Require().NoError(err)
	s.Empty(results)
}

func (s *StorageSuite) TestListResultsNewestFirst() {
	for _, n := range []int{2, 1, 3} {
		s.Require().NoError(s.storage.SaveResult(s.ctx, s.result(n)))
	}

	results, err := s.storage.ListResults(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(results, 3)
	s.Equal("result-3", results[0].ID)
	s.Equal("result-2", results[1].ID)
	s.Equal("result-1", results[2].ID)
}

func (s *StorageSuite) TestListResultsLimit() {
	for n := 1; n <= 5; n++ {
		s.Require().NoError(s.storage.SaveResult(s.ctx, s.result(n)))
	}

	results, err := s.storage.ListResults(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal("result-5", results[0].ID)
	s.Equal("result-4", results[1].ID)
}

func (s *StorageSuite) TestSavePrunesStaleIndexEntries() {
	s.Require().NoError(s.storage.SaveResult(s.ctx, s.result(1)))

	late := s.result(2)
	late.FinishedAt = s.base.Add(3 * time.Hour)
	s.Require().NoError(s.storage.SaveResult(s.ctx, late))

	members, err := s.mini.ZMembers(resultsIndexKey())
	s.Require().NoError(err)
	s.Equal([]string{"result-2"}, members)
}
