package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"
)

func TestNewSMTP_Defaults(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Username: "noreply@prescripto.dev", Password: "app-password"})
	if err != nil {
		t.Fatalf("NewSMTP() error = %v", err)
	}
	if s.addr != "smtp.gmail.com:587" {
		t.Fatalf("addr = %q", s.addr)
	}
	if s.defaultFrom != "noreply@prescripto.dev" {
		t.Fatalf("defaultFrom = %q", s.defaultFrom)
	}
}

func TestSMTP_Send(t *testing.T) {
	s, _ := NewSMTP(SMTPConfig{Host: "localhost", Port: 2525, From: "noreply@prescripto.dev"})
	s.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }

	var gotTo []string
	var gotRaw string
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		if addr != "localhost:2525" {
			t.Errorf("addr = %q", addr)
		}
		if from != "noreply@prescripto.dev" {
			t.Errorf("from = %q", from)
		}
		gotTo = to
		gotRaw = string(msg)
		return nil
	}

	receipt, err := s.Send(context.Background(), Message{
		To:       []string{"a@b.com"},
		Bcc:      []string{"audit@prescripto.dev"},
		Subject:  "Tu código OTP",
		HTMLBody: "<p>042981</p>",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if len(gotTo) != 2 || len(receipt.Accepted) != 2 {
		t.Fatalf("recipients = %v, accepted = %v", gotTo, receipt.Accepted)
	}
	if !strings.Contains(gotRaw, "Content-Type: text/html; charset=UTF-8") {
		t.Fatalf("missing html content type in %q", gotRaw)
	}
	if !strings.Contains(gotRaw, "Message-ID: "+receipt.MessageID) {
		t.Fatalf("missing message id in %q", gotRaw)
	}
	if strings.Contains(gotRaw, "audit@prescripto.dev") {
		t.Fatalf("bcc leaked into headers")
	}
}

func TestSMTP_Send_Errors(t *testing.T) {
	s, _ := NewSMTP(SMTPConfig{Host: "localhost", Port: 2525})
	boom := errors.New("535 authentication failed")
	s.send = func(string, smtp.Auth, string, []string, []byte) error { return boom }

	if _, err := s.Send(context.Background(), Message{From: "x@y.z"}); !errors.Is(err, ErrSMTPNoRecipients) {
		t.Fatalf("err = %v, want ErrSMTPNoRecipients", err)
	}
	if _, err := s.Send(context.Background(), Message{To: []string{"a@b.com"}}); !errors.Is(err, ErrSMTPNoSender) {
		t.Fatalf("err = %v, want ErrSMTPNoSender", err)
	}
	if _, err := s.Send(context.Background(), Message{From: "x@y.z", To: []string{"a@b.com"}}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want relay error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Send(ctx, Message{From: "x@y.z", To: []string{"a@b.com"}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestSMTP_Send_Multipart(t *testing.T) {
	s, _ := NewSMTP(SMTPConfig{Host: "localhost", Port: 2525, From: "noreply@prescripto.dev"})

	var raw string
	s.send = func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		raw = string(msg)
		return nil
	}

	_, err := s.Send(context.Background(), Message{
		To:       []string{"a@b.com"},
		Subject:  "Tu código OTP para Prescripto",
		TextBody: "Tu código es 042981",
		HTMLBody: "<p>042981</p>",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	for _, want := range []string{
		"Subject: =?UTF-8?q?",
		"Content-Type: multipart/alternative; boundary=",
		"Content-Type: text/plain; charset=UTF-8",
		"Content-Type: text/html; charset=UTF-8",
		"<p>042981</p>",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("message missing %q:\n%s", want, raw)
		}
	}
	if strings.Contains(raw, "Subject: Tu código") {
		t.Error("subject was not encoded")
	}
}
