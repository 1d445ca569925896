package inbound

import (
	"github.com/shandysiswandi/prescripto/internal/otp/usecase"
	"github.com/shandysiswandi/prescripto/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for OTP issuance and verification.
type HTTPEndpoint struct {
	uc uc
}

// Send issues one code and delivers it by email and/or SMS.
// @Summary Send OTP
// @Description Generates a code keyed by the email (or the phone when no email is given) and delivers it over every requested channel.
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body SendRequest true "Send OTP payload"
// @Success 200 {object} router.successResponse{data=SendResponse} "OTP sent"
// @Failure 400 {object} router.errorResponse "Missing or malformed identifier"
// @Failure 500 {object} router.errorResponse "Delivery failed"
// @Router /api/v1/otp/send [post]
func (h *HTTPEndpoint) Send(r *router.Request) (any, error) {
	var req SendRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.Issue(r.Context(), usecase.IssueInput{
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return nil, err
	}

	return newSendResponse(out), nil
}

// SendMail issues one code and delivers it by email only.
// @Summary Send OTP by email
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body SendMailRequest true "Send OTP by email payload"
// @Success 200 {object} router.successResponse{data=SendResponse} "OTP sent"
// @Failure 400 {object} router.errorResponse "Missing or malformed email"
// @Failure 500 {object} router.errorResponse "Delivery failed"
// @Router /api/v1/otp/send-mail [post]
func (h *HTTPEndpoint) SendMail(r *router.Request) (any, error) {
	var req SendMailRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.IssueEmail(r.Context(), usecase.IssueEmailInput{Email: req.Email})
	if err != nil {
		return nil, err
	}

	return newSendResponse(out), nil
}

// Verify checks a submitted code and consumes it on success.
// @Summary Verify OTP
// @Description Returns success=false with 400 when the code is unknown, expired or wrong.
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Verify OTP payload"
// @Success 200 {object} VerifyResponse "Verified"
// @Failure 400 {object} VerifyResponse "Not found, expired or invalid"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/otp/verify [post]
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.Verify(r.Context(), usecase.VerifyInput{
		Identifier: req.Identifier,
		Code:       req.Code,
	})
	if err != nil {
		return nil, err
	}

	return VerifyResponse{Success: out.Success, Msg: out.Message}, nil
}

// Status reports whether a code is pending for an identifier.
// @Summary OTP status
// @Tags OTP
// @Produce json
// @Param identifier query string true "Email or phone the code was issued to"
// @Success 200 {object} router.successResponse{data=StatusResponse} "Entry lifetime"
// @Failure 404 {object} router.errorResponse "No entry"
// @Router /api/v1/otp/status [get]
func (h *HTTPEndpoint) Status(r *router.Request) (any, error) {
	st, err := h.uc.Status(r.Context(), usecase.StatusInput{Identifier: r.GetQuery("identifier")})
	if err != nil {
		return nil, err
	}

	return newStatusResponse(st), nil
}
