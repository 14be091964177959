package utils

import "github.com/google/uuid"

// UUIDGenerator issues time-ordered UUID v7 identifiers for new quotes.
type UUIDGenerator struct {
}

// NewUUIDGenerator returns a ready generator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a new UUID v7, falling back to a random v4 when the v7
// source fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
