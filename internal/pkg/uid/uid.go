// Package uid generates identifiers: numeric IDs for database rows and string
// IDs for correlation and token identifiers.
package uid

import "github.com/google/uuid"

// NumberID generates unique int64 identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}

// UUID produces time-ordered v7 UUIDs, used for correlation ids and token jti.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

// Generate falls back to a random v4 when the v7 clock read fails.
func (*UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
