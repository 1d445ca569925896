package channel

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/prescripto/internal/otp/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/instrument"
	"github.com/shandysiswandi/prescripto/internal/pkg/sms"
	"github.com/shandysiswandi/prescripto/internal/pkg/valueobject"
	"go.opentelemetry.io/otel/codes"
)

// SMS delivers codes through the text message provider. Like Email it
// reports failures in the outcome only.
type SMS struct {
	client sms.SMS
	ins    instrument.Instrumentation
}

func NewSMS(client sms.SMS, ins instrument.Instrumentation) *SMS {
	return &SMS{client: client, ins: ins}
}

func (s *SMS) SendSMS(ctx context.Context, phone, text string) entity.DeliveryOutcome {
	ctx, span := s.ins.Tracer("otp.outbound.channel").Start(ctx, "SendSMS")
	defer span.End()

	resp, err := s.client.Send(ctx, sms.Message{To: phone, Body: text})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to send otp sms", "phone", phone, "error", err)

		out := entity.DeliveryOutcome{Channel: entity.ChannelSMS, Error: err.Error()}
		var perr *sms.ProviderError
		if errors.As(err, &perr) {
			out.Response = valueobject.JSONMapFromRaw(perr.Body)
		}
		return out
	}

	return entity.DeliveryOutcome{
		Channel:  entity.ChannelSMS,
		Success:  true,
		Response: valueobject.JSONMapFromRaw(resp.Body),
	}
}
