package inbound

import (
	"context"

	"github.com/shandysiswandi/prescripto/internal/otp/entity"
	"github.com/shandysiswandi/prescripto/internal/otp/usecase"
	"github.com/shandysiswandi/prescripto/internal/pkg/router"
)

type uc interface {
	Issue(ctx context.Context, in usecase.IssueInput) (*usecase.IssueOutput, error)
	IssueEmail(ctx context.Context, in usecase.IssueEmailInput) (*usecase.IssueOutput, error)
	Verify(ctx context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error)
	Status(ctx context.Context, in usecase.StatusInput) (*entity.Status, error)
}

// PublicEndpoints are the OTP routes reachable without a bearer token.
var PublicEndpoints = map[string][]string{
	"POST": {
		"/api/v1/otp/send",
		"/api/v1/otp/send-mail",
		"/api/v1/otp/verify",
	},
	"GET": {
		"/api/v1/otp/status",
	},
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, mws ...router.Middleware) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/otp/send", end.Send, mws...)
	r.POST("/api/v1/otp/send-mail", end.SendMail, mws...)
	r.POST("/api/v1/otp/verify", end.Verify, mws...)
	r.GET("/api/v1/otp/status", end.Status, mws...)
}
