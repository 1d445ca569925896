package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/prescripto/internal/notification/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
	"github.com/shandysiswandi/prescripto/internal/pkg/mail"
	"github.com/shandysiswandi/prescripto/internal/shared/mailtemplate"
)

type SendEmailInput struct {
	To          string `validate:"required,email"`
	Subject     string `validate:"required,max=255"`
	HTMLContent string
}

// SendEmail sends one email. An empty HTMLContent falls back to the branded
// layout with the subject as its message.
func (s *Usecase) SendEmail(ctx context.Context, in SendEmailInput) (*entity.EmailResult, error) {
	ctx, span := s.startSpan(ctx, "SendEmail")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.WarnContext(ctx, "invalid payload send email", "error", err)
		return nil, goerror.NewInvalidInput(err)
	}

	body := in.HTMLContent
	if body == "" {
		rendered, err := mailtemplate.Render(mailtemplate.Data{
			Title:   in.Subject,
			Message: in.Subject,
			Year:    s.clock.Now().Year(),
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to render default email body", "error", err)
			return nil, goerror.NewServer(err)
		}
		body = rendered
	}

	res, err := s.repoMail.Send(ctx, mail.Message{
		To:       []string{in.To},
		Subject:  in.Subject,
		HTMLBody: body,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo send email", "error", err)
		return nil, goerror.NewDelivery(err, "Failed to send email")
	}

	return res, nil
}
