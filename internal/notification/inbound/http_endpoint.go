package inbound

import (
	"github.com/shandysiswandi/prescripto/internal/notification/usecase"
	"github.com/shandysiswandi/prescripto/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// SendSMS sends a free-form text message.
// @Summary Send SMS
// @Description Sends a text message through the SMS provider. Provider rejections answer 400 with the provider payload.
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body SendSMSRequest true "SMS payload"
// @Success 200 {object} SendSMSResponse "Provider accepted the message"
// @Failure 400 {object} SendSMSResponse "Missing parameters or provider failure"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Router /api/v1/notification/sms [post]
func (h *HTTPEndpoint) SendSMS(r *router.Request) (any, error) {
	var req SendSMSRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	res, err := h.uc.SendSMS(r.Context(), usecase.SendSMSInput{
		PhoneNumber: req.PhoneNumber,
		Message:     req.Message,
	})
	if err != nil {
		return nil, err
	}

	return SendSMSResponse{
		Success:  res.Success,
		Response: res.Response,
		Error:    res.Error,
	}, nil
}

// SendEmail sends an HTML email.
// @Summary Send email
// @Description Sends an email with a subject and HTML content. Without content the branded layout is used.
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body SendEmailRequest true "Email payload"
// @Success 200 {object} router.successResponse{data=SendEmailResponse} "Email sent"
// @Failure 400 {object} router.errorResponse "Missing parameters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Delivery failed"
// @Router /api/v1/notification/email [post]
func (h *HTTPEndpoint) SendEmail(r *router.Request) (any, error) {
	var req SendEmailRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	res, err := h.uc.SendEmail(r.Context(), usecase.SendEmailInput{
		To:          req.To,
		Subject:     req.Subject,
		HTMLContent: req.HTMLContent,
	})
	if err != nil {
		return nil, err
	}

	return SendEmailResponse{MessageID: res.MessageID, Accepted: res.Accepted}, nil
}
