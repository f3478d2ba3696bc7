package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server configuration, read from the environment
type Config struct {
	Host     string `env:"MINESBOOMER_HOST" envDefault:"0.0.0.0"`
	Port     int    `env:"MINESBOOMER_PORT" envDefault:"8080"`
	LogLevel string `env:"MINESBOOMER_LOG_LEVEL" envDefault:"info"`

	// StorageType selects the results ledger backend ("memory" or "redis")
	StorageType string        `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string        `env:"REDIS_URL"`
	ResultTTL   time.Duration `env:"MINESBOOMER_RESULT_TTL" envDefault:"168h"`

	// IdentifyTimeout closes connections that never identify. Zero disables it.
	IdentifyTimeout time.Duration `env:"MINESBOOMER_IDENTIFY_TIMEOUT" envDefault:"30s"`
	SendBufferSize  int           `env:"MINESBOOMER_SEND_BUFFER" envDefault:"256"`

	// EnforceTurns rejects moves from the player who is not active
	EnforceTurns bool `env:"MINESBOOMER_ENFORCE_TURNS" envDefault:"true"`
	// UnknownMessageNotice answers undecodable messages instead of dropping them
	UnknownMessageNotice bool `env:"MINESBOOMER_UNKNOWN_MESSAGE_NOTICE" envDefault:"true"`
}

// Load parses and validates the configuration from environment variables
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	switch c.StorageType {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL required when STORAGE_TYPE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid STORAGE_TYPE %q: must be 'memory' or 'redis'", c.StorageType))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.IdentifyTimeout < 0 {
		errs = append(errs, errors.New("identify timeout must not be negative"))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Level returns the configured log level, defaulting to info
func (c Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
