package sms

import (
	"context"
	"encoding/json"
	"io"
)

// Message is a single text message to one recipient.
type Message struct {
	// To is the recipient phone number (MSISDN, digits with optional leading +).
	To string
	// Body is the message text.
	Body string
	// Sender optionally overrides the configured sender name (TPOA).
	Sender string
}

// Response is what the provider answered for an accepted message.
type Response struct {
	// StatusCode is the provider HTTP status.
	StatusCode int
	// Body is the raw provider payload.
	Body json.RawMessage
}

// SMS abstracts a text message provider.
type SMS interface {
	io.Closer
	// Send dispatches the message and returns the provider response.
	Send(ctx context.Context, msg Message) (*Response, error)
}
