// Package config reads service settings from a YAML file overlaid with environment variables.
package config

import (
	"io"
	"time"
)

// Config is the read-only view of the service settings. Missing keys return
// zero values; defaults are registered by the implementation.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetUint64(key string) uint64
	GetFloat64(key string) float64

	// GetSecond and GetMinute read an integer and scale it to a duration.
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration

	// GetArray accepts a YAML list or a comma separated string, the form an
	// environment override takes. Blank elements are dropped.
	GetArray(key string) []string
}
