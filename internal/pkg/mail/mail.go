// Package mail sends transactional email (OTP codes, notifications) through
// an SMTP relay, Gmail with an app password by default.
package mail

import (
	"context"
	"io"
)

// Message is one email. At least one recipient is required; From falls back
// to the sender configured on the implementation.
type Message struct {
	From     string
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Receipt describes a message accepted by the relay.
type Receipt struct {
	MessageID string `json:"message_id"`
	// Accepted lists every envelope recipient, Bcc included.
	Accepted []string `json:"accepted"`
}

type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) (*Receipt, error)
}
