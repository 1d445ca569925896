package mail

import (
	"bytes"
	"cmp"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHost = "smtp.gmail.com"
	defaultPort = 587

	textPlain = "text/plain; charset=UTF-8"
	textHTML  = "text/html; charset=UTF-8"
)

var (
	ErrSMTPNoRecipients = errors.New("no recipients provided")
	ErrSMTPNoSender     = errors.New("no sender provided")
)

// SMTPConfig configures NewSMTP. Empty Host and Port mean Gmail submission
// (smtp.gmail.com:587); an empty From means Username.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTP sends each message over a fresh connection with PLAIN auth after
// STARTTLS, as net/smtp.SendMail does.
type SMTP struct {
	addr        string
	host        string
	defaultFrom string
	auth        smtp.Auth
	send        func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	now         func() time.Time
}

func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	host := cmp.Or(cfg.Host, defaultHost)
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	s := &SMTP{
		addr:        net.JoinHostPort(host, strconv.Itoa(port)),
		host:        host,
		defaultFrom: cmp.Or(cfg.From, cfg.Username),
		send:        smtp.SendMail,
		now:         time.Now,
	}
	// Without credentials the relay is used unauthenticated (local catchers).
	if cfg.Username != "" && cfg.Password != "" {
		s.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, host)
	}

	return s, nil
}

// Send returns once the relay accepted the message or ctx is done. net/smtp
// cannot be interrupted, so a canceled send may still complete in the
// background.
func (s *SMTP) Send(ctx context.Context, msg Message) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rcpt := slices.Concat(msg.To, msg.Cc, msg.Bcc)
	if len(rcpt) == 0 {
		return nil, ErrSMTPNoRecipients
	}
	from := cmp.Or(msg.From, s.defaultFrom)
	if from == "" {
		return nil, ErrSMTPNoSender
	}

	id := fmt.Sprintf("<%s@%s>", token(), s.host)
	raw, err := s.compose(from, id, msg)
	if err != nil {
		return nil, err
	}

	done := make(chan error, 1)
	go func() { done <- s.send(s.addr, s.auth, from, rcpt, raw) }()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-done:
		if err != nil {
			return nil, err
		}
	}

	return &Receipt{MessageID: id, Accepted: rcpt}, nil
}

func (s *SMTP) Close() error {
	return nil
}

// compose renders the RFC 5322 message. Bcc never appears in the headers.
func (s *SMTP) compose(from, id string, msg Message) ([]byte, error) {
	var buf bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&buf, "%s: %s\r\n", k, v) }

	header("From", from)
	header("To", strings.Join(msg.To, ", "))
	if len(msg.Cc) > 0 {
		header("Cc", strings.Join(msg.Cc, ", "))
	}
	header("Subject", mime.QEncoding.Encode("UTF-8", msg.Subject))
	header("Message-ID", id)
	header("Date", s.now().Format(time.RFC1123Z))
	header("MIME-Version", "1.0")

	if msg.HTMLBody == "" || msg.TextBody == "" {
		ct, body := textPlain, msg.TextBody
		if msg.HTMLBody != "" {
			ct, body = textHTML, msg.HTMLBody
		}
		header("Content-Type", ct)
		buf.WriteString("\r\n" + body)
		return buf.Bytes(), nil
	}

	var parts bytes.Buffer
	mw := multipart.NewWriter(&parts)
	for _, p := range []struct{ ct, body string }{{textPlain, msg.TextBody}, {textHTML, msg.HTMLBody}} {
		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {p.ct}})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	header("Content-Type", "multipart/alternative; boundary="+mw.Boundary())
	buf.WriteString("\r\n")
	buf.Write(parts.Bytes())
	return buf.Bytes(), nil
}

func token() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return hex.EncodeToString(b[:])
}
