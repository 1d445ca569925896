package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/shandysiswandi/prescripto/internal/otp/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
)

const (
	minDigits = 1
	// 10^18 - 1 is the widest range that still fits int64.
	maxDigits = 18
)

// GenerateOptions overrides the configured length and lifetime for one call.
// A nil field falls back to configuration; zero is a valid override.
type GenerateOptions struct {
	Digits        *int
	ExpiryMinutes *int
}

// Generate creates a fresh code for identifier, replaces any previous entry
// and returns the plaintext code.
func (s *Usecase) Generate(ctx context.Context, identifier string, opts GenerateOptions) (string, error) {
	ctx, span := s.startSpan(ctx, "Generate")
	defer span.End()

	entry, err := s.generate(ctx, normalizeIdentifier(identifier), opts)
	if err != nil {
		return "", err
	}

	return entry.Code, nil
}

func (s *Usecase) generate(ctx context.Context, identifier string, opts GenerateOptions) (*entity.Entry, error) {
	if identifier == "" {
		return nil, goerror.NewInvalidInput(nil, "identifier", "identifier is required")
	}

	digits := s.cfg.GetInt("modules.otp.digits")
	if opts.Digits != nil {
		digits = *opts.Digits
	}
	if digits < minDigits || digits > maxDigits {
		return nil, goerror.NewInvalidInput(nil, "digits", fmt.Sprintf("digits must be between %d and %d", minDigits, maxDigits))
	}

	expiry := s.cfg.GetInt("modules.otp.expiry_minutes")
	if opts.ExpiryMinutes != nil {
		expiry = *opts.ExpiryMinutes
	}
	if expiry < 0 {
		return nil, goerror.NewInvalidInput(nil, "expiry_minutes", "expiry_minutes must not be negative")
	}

	code, err := randomCode(s.random, digits)
	if err != nil {
		slog.ErrorContext(ctx, "failed to draw random otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	entry := entity.Entry{
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(expiry) * time.Minute),
	}

	if err := s.repoStore.Put(ctx, identifier, entry); err != nil {
		slog.ErrorContext(ctx, "failed to repo store otp", "identifier", identifier, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &entry, nil
}

// randomCode draws uniformly from [10^(digits-1), 10^digits-1].
func randomCode(r io.Reader, digits int) (string, error) {
	low := int64(1)
	for range digits - 1 {
		low *= 10
	}
	high := low*10 - 1

	n, err := rand.Int(r, big.NewInt(high-low+1))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", digits, n.Int64()+low), nil
}

func normalizeIdentifier(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
