package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/minesboomer/internal/dependencies/clock"
	"github.com/mcoot/minesboomer/internal/dependencies/ids"
	"github.com/mcoot/minesboomer/internal/dependencies/random"
	"github.com/mcoot/minesboomer/internal/services/board"
	"github.com/mcoot/minesboomer/internal/services/relay"
	"github.com/mcoot/minesboomer/internal/services/session"
	"github.com/mcoot/minesboomer/internal/services/turn"
	"github.com/mcoot/minesboomer/internal/storage"
	"github.com/mcoot/minesboomer/internal/storage/memory"
	redisstorage "github.com/mcoot/minesboomer/internal/storage/redis"
	"github.com/mcoot/minesboomer/internal/web/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	IDs    ids.Generator

	// Services
	BoardService *board.Service
	Coordinator  *turn.Coordinator
	Directory    *session.Directory
	Sessions     *session.Registry
	Dispatcher   *relay.Dispatcher

	// Transport
	Hub         *ws.Hub
	Broadcaster *ws.Broadcaster
	WSServer    *ws.Server
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the results backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Protocol holds the protocol policy knobs
	Protocol ProtocolConfig
}

// ProtocolConfig holds protocol policy settings
type ProtocolConfig struct {
	EnforceTurns         bool
	UnknownMessageNotice bool
	IdentifyTimeout      time.Duration
	SendBufferSize       int
}

// DefaultProtocolConfig returns the hardened protocol policy
func DefaultProtocolConfig() ProtocolConfig {
	return ProtocolConfig{
		EnforceTurns:         true,
		UnknownMessageNotice: true,
		IdentifyTimeout:      30 * time.Second,
		SendBufferSize:       256,
	}
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), random.New(), ids.New(), cfg.Protocol, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	idgen ids.Generator,
	protocol ProtocolConfig,
	logger *slog.Logger,
) *App {
	hub := ws.NewHub(idgen, logger)
	broadcaster := ws.NewBroadcaster(hub, logger)

	boardService := board.New(rnd, logger)
	coordinator := turn.New(protocol.EnforceTurns, logger)
	directory := session.NewDirectory(idgen)
	sessions := session.NewRegistry(directory, boardService, coordinator, broadcaster, clk, idgen, logger)
	dispatcher := relay.NewDispatcher(sessions, broadcaster, store, relay.Options{
		UnknownMessageNotice: protocol.UnknownMessageNotice,
	}, logger)
	wsServer := ws.NewServer(hub, dispatcher, ws.Options{
		IdentifyTimeout: protocol.IdentifyTimeout,
		SendBufferSize:  protocol.SendBufferSize,
	}, logger)

	return &App{
		Storage:      store,
		Clock:        clk,
		Random:       rnd,
		IDs:          idgen,
		BoardService: boardService,
		Coordinator:  coordinator,
		Directory:    directory,
		Sessions:     sessions,
		Dispatcher:   dispatcher,
		Hub:          hub,
		Broadcaster:  broadcaster,
		WSServer:     wsServer,
	}
}

// Close releases the storage backend and disconnects every client
func (a *App) Close() error {
	a.Hub.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
