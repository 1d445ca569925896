package entity

import (
	"errors"
	"time"

	"github.com/shandysiswandi/prescripto/internal/pkg/valueobject"
)

var (
	// ErrChannelDelivery marks an issuance where a notification channel failed.
	ErrChannelDelivery = errors.New("otp: channel delivery failed")
	// ErrCodeExpired marks a verification attempt against an expired entry.
	ErrCodeExpired = errors.New("otp: code expired")
	// ErrCodeMismatch marks a verification attempt with the wrong code.
	ErrCodeMismatch = errors.New("otp: code mismatch")
)

// Entry is the stored state of an issued code for one identifier.
type Entry struct {
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the entry is no longer live at now.
// An entry is expired exactly at ExpiresAt.
func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// DeliveryOutcome is the result of pushing a code through one channel.
type DeliveryOutcome struct {
	Channel  Channel
	Success  bool
	Response valueobject.JSONMap
	Error    string
}

// Status describes an entry without exposing its code.
type Status struct {
	CreatedAt time.Time
	ExpiresAt time.Time
	Expired   bool
}
