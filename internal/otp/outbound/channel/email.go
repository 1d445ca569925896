package channel

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/prescripto/internal/otp/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/instrument"
	"github.com/shandysiswandi/prescripto/internal/pkg/mail"
	"github.com/shandysiswandi/prescripto/internal/pkg/valueobject"
	"go.opentelemetry.io/otel/codes"
)

// Email delivers codes through the mail provider. It never returns an error;
// failures are folded into the outcome.
type Email struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func NewEmail(client mail.Mail, ins instrument.Instrumentation) *Email {
	return &Email{client: client, ins: ins}
}

func (e *Email) SendEmail(ctx context.Context, to, subject, html string) entity.DeliveryOutcome {
	ctx, span := e.ins.Tracer("otp.outbound.channel").Start(ctx, "SendEmail")
	defer span.End()

	receipt, err := e.client.Send(ctx, mail.Message{
		To:       []string{to},
		Subject:  subject,
		HTMLBody: html,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to send otp email", "to", to, "error", err)

		return entity.DeliveryOutcome{Channel: entity.ChannelEmail, Error: err.Error()}
	}

	return entity.DeliveryOutcome{
		Channel: entity.ChannelEmail,
		Success: true,
		Response: valueobject.JSONMap{
			"message_id": receipt.MessageID,
			"accepted":   receipt.Accepted,
		},
	}
}
