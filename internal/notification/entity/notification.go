package entity

import "github.com/shandysiswandi/prescripto/internal/pkg/valueobject"

// SMSResult is the provider verdict for one text message.
type SMSResult struct {
	Success  bool
	Response valueobject.JSONMap
	Error    string
}

// EmailResult describes an accepted email.
type EmailResult struct {
	MessageID string
	Accepted  []string
}
