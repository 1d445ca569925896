package inbound

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shandysiswandi/prescripto/internal/otp/entity"
	"github.com/shandysiswandi/prescripto/internal/otp/usecase"
	"github.com/shandysiswandi/prescripto/internal/pkg/valueobject"
)

type SendRequest struct {
	Email string `json:"email" example:"juan.perez@example.com"`
	Phone string `json:"phone" example:"+34600111222"`
}

type SendMailRequest struct {
	Email string `json:"email" example:"juan.perez@example.com"`
}

type ChannelResponse struct {
	Channel  string              `json:"channel" example:"email"`
	Success  bool                `json:"success" example:"true"`
	Response valueobject.JSONMap `json:"response,omitempty"`
	Error    string              `json:"error,omitempty"`
}

type SendResponse struct {
	RequestID string            `json:"request_id" example:"1882036425718992896"`
	Code      string            `json:"code,omitempty" example:"042981"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
	Channels  []ChannelResponse `json:"channels"`

	msg string
}

func (r SendResponse) Message() string {
	return r.msg
}

func newSendResponse(out *usecase.IssueOutput) SendResponse {
	channels := make([]ChannelResponse, 0, len(out.Outcomes))
	for _, o := range out.Outcomes {
		channels = append(channels, ChannelResponse{
			Channel:  o.Channel.String(),
			Success:  o.Success,
			Response: o.Response,
			Error:    o.Error,
		})
	}

	return SendResponse{
		RequestID: strconv.FormatInt(out.ID, 10),
		Code:      out.Code,
		CreatedAt: out.CreatedAt,
		ExpiresAt: out.ExpiresAt,
		Channels:  channels,
		msg:       out.Message,
	}
}

type VerifyRequest struct {
	Identifier string `json:"identifier" example:"juan.perez@example.com"`
	Code       string `json:"code" example:"042981"`
}

// VerifyResponse is written without the data envelope.
type VerifyResponse struct {
	Success bool   `json:"success" example:"true"`
	Msg     string `json:"message" example:"OTP verified successfully"`
}

func (VerifyResponse) Bare() bool {
	return true
}

func (r VerifyResponse) StatusCode() int {
	if r.Success {
		return http.StatusOK
	}
	return http.StatusBadRequest
}

type StatusResponse struct {
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Expired   bool      `json:"expired" example:"false"`
}

func newStatusResponse(st *entity.Status) StatusResponse {
	return StatusResponse{
		CreatedAt: st.CreatedAt,
		ExpiresAt: st.ExpiresAt,
		Expired:   st.Expired,
	}
}
