package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

var (
	// ErrCredentialsRequired is returned when username or token is missing.
	ErrCredentialsRequired = errors.New("sms username and token are required")
	// ErrNoRecipient is returned when Message.To is empty.
	ErrNoRecipient = errors.New("sms recipient is required")
	// ErrEmptyBody is returned when Message.Body is empty.
	ErrEmptyBody = errors.New("sms body is required")
)

// ProviderError is a non-2xx answer (or a rejected payload) from the provider.
type ProviderError struct {
	StatusCode int
	Body       json.RawMessage
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("sms provider rejected message: status %d: %s", e.StatusCode, string(e.Body))
}

// LabsMobileConfig configures the LabsMobile implementation.
type LabsMobileConfig struct {
	// BaseURL is the API root, e.g. https://api.labsmobile.com.
	BaseURL string
	// Username is the basic-auth user.
	Username string
	// Token is the basic-auth API token.
	Token string
	// Sender is the default TPOA shown to the recipient.
	Sender string
	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration
	// MaxRetries is how many extra attempts are made for transient failures.
	MaxRetries uint64
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// LabsMobile is an SMS implementation backed by the LabsMobile JSON API.
type LabsMobile struct {
	endpoint   string
	username   string
	token      string
	sender     string
	maxRetries uint64
	client     *http.Client
}

type labsMobileRecipient struct {
	MSISDN string `json:"msisdn"`
}

type labsMobileRequest struct {
	Message   string                `json:"message"`
	TPOA      string                `json:"tpoa"`
	Recipient []labsMobileRecipient `json:"recipient"`
}

type labsMobileResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewLabsMobile constructs a LabsMobile SMS sender.
func NewLabsMobile(cfg LabsMobileConfig) (*LabsMobile, error) {
	if cfg.Username == "" || cfg.Token == "" {
		return nil, ErrCredentialsRequired
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.labsmobile.com"
	}

	if cfg.Sender == "" {
		cfg.Sender = "Sender"
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &LabsMobile{
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + "/json/send",
		username:   cfg.Username,
		token:      cfg.Token,
		sender:     cfg.Sender,
		maxRetries: cfg.MaxRetries,
		client:     client,
	}, nil
}

// Send delivers msg. Only failures to connect are retried, with a Fibonacci
// backoff until MaxRetries is exhausted or ctx is done. Once the request may
// have reached the provider a retry could send the SMS twice, so any later
// failure is final.
func (l *LabsMobile) Send(ctx context.Context, msg Message) (*Response, error) {
	if strings.TrimSpace(msg.To) == "" {
		return nil, ErrNoRecipient
	}
	if strings.TrimSpace(msg.Body) == "" {
		return nil, ErrEmptyBody
	}

	sender := msg.Sender
	if sender == "" {
		sender = l.sender
	}

	payload, err := json.Marshal(labsMobileRequest{
		Message:   msg.Body,
		TPOA:      sender,
		Recipient: []labsMobileRecipient{{MSISDN: msg.To}},
	})
	if err != nil {
		return nil, err
	}

	b := retry.WithMaxRetries(l.maxRetries, retry.NewFibonacci(200*time.Millisecond))
	b = retry.WithCappedDuration(2*time.Second, b)

	var resp *Response
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		r, err := l.do(ctx, payload)
		if err != nil {
			if !notSent(err) {
				return err
			}

			slog.WarnContext(ctx, "sms send attempt failed to connect", "error", err)
			return retry.RetryableError(err)
		}

		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// notSent reports whether err happened while dialing, before any byte of the
// request was written.
func notSent(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func (l *LabsMobile) do(ctx context.Context, payload []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(l.username, l.token)

	res, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 64*1024))
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		body, _ = json.Marshal(string(body))
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, &ProviderError{StatusCode: res.StatusCode, Body: body}
	}

	var lr labsMobileResponse
	if err := json.Unmarshal(body, &lr); err == nil && lr.Code != "" && lr.Code != "0" {
		return nil, &ProviderError{StatusCode: res.StatusCode, Body: body}
	}

	return &Response{StatusCode: res.StatusCode, Body: body}, nil
}

// Close implements io.Closer for interface compatibility.
func (l *LabsMobile) Close() error {
	l.client.CloseIdleConnections()
	return nil
}
