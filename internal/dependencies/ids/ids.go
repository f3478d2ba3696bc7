package ids

import "github.com/google/uuid"

// Generator produces unique opaque identifiers that can be mocked for testing
type Generator interface {
	// NewID returns an identifier that has never been returned before
	NewID() string
}

// UUIDGenerator implements Generator with random (version 4) UUIDs
type UUIDGenerator struct{}

// New creates a new UUIDGenerator
func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a new random UUID string
func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}
