package inbound

import (
	"net/http"

	"github.com/shandysiswandi/prescripto/internal/pkg/valueobject"
)

type SendSMSRequest struct {
	PhoneNumber string `json:"phone_number" example:"+34612345678"`
	Message     string `json:"message" example:"Hola, este es un mensaje de prueba"`
}

// SendSMSResponse mirrors the provider verdict without the data envelope.
type SendSMSResponse struct {
	Success  bool                `json:"success" example:"true"`
	Response valueobject.JSONMap `json:"response,omitempty"`
	Error    string              `json:"error,omitempty"`
}

func (SendSMSResponse) Bare() bool {
	return true
}

func (r SendSMSResponse) StatusCode() int {
	if r.Success {
		return http.StatusOK
	}
	return http.StatusBadRequest
}

type SendEmailRequest struct {
	To          string `json:"to" example:"recipient@example.com"`
	Subject     string `json:"subject" example:"Bienvenido a Prescripto"`
	HTMLContent string `json:"html_content" example:"<p>Hola</p>"`
}

type SendEmailResponse struct {
	MessageID string   `json:"message_id" example:"<1700000000.abc@prescripto>"`
	Accepted  []string `json:"accepted"`
}

func (SendEmailResponse) Message() string {
	return "Email sent successfully"
}
