package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/prescripto/internal/otp/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
)

type StatusInput struct {
	Identifier string `validate:"required"`
}

// Status reports the lifetime of the entry for identifier without its code.
// It never removes expired entries.
func (s *Usecase) Status(ctx context.Context, in StatusInput) (*entity.Status, error) {
	ctx, span := s.startSpan(ctx, "Status")
	defer span.End()

	in.Identifier = normalizeIdentifier(in.Identifier)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	entry, err := s.repoStore.Get(ctx, in.Identifier)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("OTP not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get otp", "identifier", in.Identifier, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &entity.Status{
		CreatedAt: entry.CreatedAt,
		ExpiresAt: entry.ExpiresAt,
		Expired:   entry.Expired(s.clock.Now()),
	}, nil
}
