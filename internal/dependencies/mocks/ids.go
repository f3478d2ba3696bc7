package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/minesboomer/internal/dependencies/ids"
)

// MockIDs is a mock implementation of ids.Generator for testing.
// Queued values are returned first, then sequential "<prefix>-<n>" values.
type MockIDs struct {
	mu     sync.Mutex
	queued []string
	prefix string
	next   int
}

// Ensure MockIDs implements Generator
var _ ids.Generator = (*MockIDs)(nil)

// NewMockIDs creates a MockIDs producing "<prefix>-1", "<prefix>-2", ...
func NewMockIDs(prefix string) *MockIDs {
	return &MockIDs{prefix: prefix}
}

// NewID returns the next queued value or the next sequential id
func (m *MockIDs) NewID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queued) > 0 {
		id := m.queued[0]
		m.queued = m.queued[1:]
		return id
	}
	m.next++
	return fmt.Sprintf("%s-%d", m.prefix, m.next)
}

// Queue adds values to be returned before sequential ids
func (m *MockIDs) Queue(values ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued = append(m.queued, values...)
}
