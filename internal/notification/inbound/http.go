package inbound

import (
	"context"

	"github.com/shandysiswandi/prescripto/internal/notification/entity"
	"github.com/shandysiswandi/prescripto/internal/notification/usecase"
	"github.com/shandysiswandi/prescripto/internal/pkg/router"
)

type uc interface {
	SendSMS(ctx context.Context, in usecase.SendSMSInput) (*entity.SMSResult, error)
	SendEmail(ctx context.Context, in usecase.SendEmailInput) (*entity.EmailResult, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/notification/sms", end.SendSMS)
	r.POST("/api/v1/notification/email", end.SendEmail)
}
