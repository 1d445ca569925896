package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/prescripto/internal/notification/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
)

type SendSMSInput struct {
	PhoneNumber string `validate:"required,phone"`
	Message     string `validate:"required,max=1600"`
}

func (s *Usecase) SendSMS(ctx context.Context, in SendSMSInput) (*entity.SMSResult, error) {
	ctx, span := s.startSpan(ctx, "SendSMS")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.WarnContext(ctx, "invalid payload send sms", "error", err)
		return nil, goerror.NewInvalidInput(err)
	}

	res, err := s.repoSMS.Send(ctx, in.PhoneNumber, in.Message)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo send sms", "error", err)
		return &entity.SMSResult{Success: false, Error: err.Error()}, nil
	}

	if !res.Success {
		slog.WarnContext(ctx, "sms provider rejected message", "error", res.Error)
	}

	return res, nil
}
