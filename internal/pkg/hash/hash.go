// Package hash stores account passwords as peppered bcrypt hashes.
package hash

import (
	"golang.org/x/crypto/bcrypt"
)

// Hash hashes secrets and verifies plaintext against stored hashes.
type Hash interface {
	Hash(plaintext string) ([]byte, error)
	Verify(hashed, plaintext string) bool
}

// Bcrypt appends a server-side pepper before hashing, so a leaked users table
// alone is not enough to brute force passwords.
type Bcrypt struct {
	cost   int
	pepper string
}

// NewBcrypt clamps cost into bcrypt's accepted range; 0 means bcrypt.DefaultCost.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &Bcrypt{cost: cost, pepper: pepper}
}

func (h *Bcrypt) peppered(plaintext string) []byte {
	return []byte(plaintext + h.pepper)
}

// Hash fails with bcrypt.ErrPasswordTooLong when plaintext plus pepper
// exceeds 72 bytes.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword(h.peppered(plaintext), h.cost)
}

func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), h.peppered(plaintext)) == nil
}
