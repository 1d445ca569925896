package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/prescripto/internal/otp/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
)

const (
	MsgVerified = "OTP verified successfully"
	MsgNotFound = "OTP not found or expired"
	MsgExpired  = "OTP has expired"
	MsgMismatch = "invalid OTP code"
)

type VerifyInput struct {
	Identifier string `validate:"required"`
	Code       string `validate:"required,otpcode"`
}

type VerifyOutput struct {
	Success bool
	Message string
}

// Verify checks code against the live entry for identifier. A failed check
// is reported in the output, not as an error; only store failures error.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	in.Identifier = normalizeIdentifier(in.Identifier)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	entry, err := s.repoStore.Get(ctx, in.Identifier)
	if errors.Is(err, goerror.ErrNotFound) {
		return s.verifyFailed(ctx, "not_found", MsgNotFound), nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get otp", "identifier", in.Identifier, "error", err)
		return nil, goerror.NewServer(err)
	}

	if entry.Expired(s.clock.Now()) {
		// Only the stale entry is removed; a reissue since Get survives.
		if _, err := s.repoStore.CompareAndDelete(ctx, in.Identifier, entry.Code); err != nil {
			slog.ErrorContext(ctx, "failed to repo delete expired otp", "identifier", in.Identifier, "error", err)
			return nil, goerror.NewServer(err)
		}

		slog.InfoContext(ctx, "otp verification rejected", "identifier", in.Identifier, "reason", entity.ErrCodeExpired)
		return s.verifyFailed(ctx, "expired", MsgExpired), nil
	}

	if subtle.ConstantTimeCompare([]byte(entry.Code), []byte(in.Code)) != 1 {
		slog.WarnContext(ctx, "otp verification rejected", "identifier", in.Identifier, "reason", entity.ErrCodeMismatch)
		return s.verifyFailed(ctx, "mismatch", MsgMismatch), nil
	}

	// A concurrent verification or reissue may have replaced the entry since Get.
	consumed, err := s.repoStore.CompareAndDelete(ctx, in.Identifier, in.Code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo consume otp", "identifier", in.Identifier, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !consumed {
		return s.verifyFailed(ctx, "not_found", MsgNotFound), nil
	}

	s.count(ctx, s.verifiedCounter, attribute.String("result", "success"))

	return &VerifyOutput{Success: true, Message: MsgVerified}, nil
}

func (s *Usecase) verifyFailed(ctx context.Context, result, msg string) *VerifyOutput {
	s.count(ctx, s.verifiedCounter, attribute.String("result", result))
	return &VerifyOutput{Success: false, Message: msg}
}
