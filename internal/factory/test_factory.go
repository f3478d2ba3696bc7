package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/minesboomer/internal/dependencies/mocks"
	"github.com/mcoot/minesboomer/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MockIDs    *mocks.MockIDs
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The identify timeout is disabled.
func NewTestApp() *TestApp {
	protocol := DefaultProtocolConfig()
	protocol.IdentifyTimeout = 0
	return NewTestAppWithProtocol(protocol)
}

// NewTestAppWithProtocol creates a test App with the given protocol policy
func NewTestAppWithProtocol(protocol ProtocolConfig) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockIDs := mocks.NewMockIDs("id")
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app := newWithDependencies(store, mockClock, mockRandom, mockIDs, protocol, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MockIDs:    mockIDs,
	}
}
