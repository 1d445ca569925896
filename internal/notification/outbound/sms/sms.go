package sms

import (
	"context"
	"errors"

	"github.com/shandysiswandi/prescripto/internal/notification/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/instrument"
	"github.com/shandysiswandi/prescripto/internal/pkg/sms"
	"github.com/shandysiswandi/prescripto/internal/pkg/valueobject"
	"go.opentelemetry.io/otel/codes"
)

type SMS struct {
	client sms.SMS
	ins    instrument.Instrumentation
}

func New(client sms.SMS, ins instrument.Instrumentation) *SMS {
	return &SMS{client: client, ins: ins}
}

// Send returns a result for provider rejections and an error only when the
// provider could not be reached or answered nothing usable.
func (s *SMS) Send(ctx context.Context, phone, text string) (*entity.SMSResult, error) {
	ctx, span := s.ins.Tracer("notification.outbound.sms").Start(ctx, "Send")
	defer span.End()

	resp, err := s.client.Send(ctx, sms.Message{To: phone, Body: text})
	if err == nil {
		return &entity.SMSResult{
			Success:  true,
			Response: valueobject.JSONMapFromRaw(resp.Body),
		}, nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var perr *sms.ProviderError
	if errors.As(err, &perr) {
		return &entity.SMSResult{
			Success:  false,
			Response: valueobject.JSONMapFromRaw(perr.Body),
			Error:    err.Error(),
		}, nil
	}

	return nil, err
}
