// Package jwt issues and verifies the HS512 access tokens returned at
// registration and checked by the router on protected routes.
package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")
	// ErrSigningKeyTooShort: HS512 needs at least 64 bytes of key.
	ErrSigningKeyTooShort = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")
	ErrTokenExpired       = errors.New("JWT token has expired")
	ErrInvalidToken       = errors.New("invalid token")
)

// Subject is the account a token is issued for.
type Subject struct {
	UserID int64
	Email  string
	RoleID int64
}

// JWT issues and checks access tokens.
type JWT interface {
	Generate(sub Subject) (string, error)
	Verify(tokenStr string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

// Config configures NewHS512. Issuer and Audiences are both written into
// issued tokens and required on verified ones.
type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	TTL       time.Duration
	Clock     clocker
	// UUID produces the jti of each token.
	UUID generator
}

// Claims is the token payload: registered claims plus the account fields
// handlers read through GetAuth.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id,string"`
	UserEmail string `json:"user_email"`
	RoleID    int64  `json:"role_id,omitempty"`
}

type authKey struct{}

// GetAuth returns the claims the router stored for this request, or nil on
// a public route.
func GetAuth(ctx context.Context) *Claims {
	if clm, ok := ctx.Value(authKey{}).(Claims); ok {
		return &clm
	}
	return nil
}

func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, authKey{}, clm)
}
