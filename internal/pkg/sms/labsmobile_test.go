package sms

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/atomic"
)

func newTestLabsMobile(t *testing.T, srv *httptest.Server, retries uint64) *LabsMobile {
	t.Helper()

	l, err := NewLabsMobile(LabsMobileConfig{
		BaseURL:    srv.URL,
		Username:   "user",
		Token:      "token",
		Sender:     "Prescripto",
		MaxRetries: retries,
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("NewLabsMobile() error = %v", err)
	}

	return l
}

func TestNewLabsMobile_RequiresCredentials(t *testing.T) {
	if _, err := NewLabsMobile(LabsMobileConfig{Username: "user"}); !errors.Is(err, ErrCredentialsRequired) {
		t.Fatalf("err = %v, want ErrCredentialsRequired", err)
	}
}

func TestLabsMobile_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json/send" {
			t.Errorf("path = %s, want /json/send", r.URL.Path)
		}

		user, pass, ok := r.BasicAuth()
		if !ok || user != "user" || pass != "token" {
			t.Errorf("basic auth = %q/%q/%v", user, pass, ok)
		}

		var req labsMobileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if req.TPOA != "Prescripto" || len(req.Recipient) != 1 || req.Recipient[0].MSISDN != "34600000000" {
			t.Errorf("unexpected payload %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"0","message":"Message has been successfully sent","subid":"abc"}`))
	}))
	defer srv.Close()

	l := newTestLabsMobile(t, srv, 0)

	resp, err := l.Send(context.Background(), Message{To: "34600000000", Body: "Tu código es 123456"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("StatusCode = %d, want 200", resp.StatusCode)
	}
}

func TestLabsMobile_Send_Validation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Errorf("provider must not be called")
	}))
	defer srv.Close()

	l := newTestLabsMobile(t, srv, 0)

	if _, err := l.Send(context.Background(), Message{Body: "x"}); !errors.Is(err, ErrNoRecipient) {
		t.Fatalf("err = %v, want ErrNoRecipient", err)
	}
	if _, err := l.Send(context.Background(), Message{To: "1"}); !errors.Is(err, ErrEmptyBody) {
		t.Fatalf("err = %v, want ErrEmptyBody", err)
	}
}

func TestLabsMobile_Send_RetriesDialFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"code":"0"}`))
	}))
	defer srv.Close()

	dials := atomic.NewInt32(0)
	var d net.Dialer
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if dials.Inc() == 1 {
				return nil, &net.OpError{Op: "dial", Net: network, Err: errors.New("connection refused")}
			}
			return d.DialContext(ctx, network, addr)
		},
	}

	l, err := NewLabsMobile(LabsMobileConfig{
		BaseURL:    srv.URL,
		Username:   "user",
		Token:      "token",
		MaxRetries: 2,
		HTTPClient: &http.Client{Transport: transport},
	})
	if err != nil {
		t.Fatalf("NewLabsMobile() error = %v", err)
	}

	if _, err := l.Send(context.Background(), Message{To: "1", Body: "x"}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got := dials.Load(); got != 2 {
		t.Fatalf("dials = %d, want 2", got)
	}
}

func TestLabsMobile_Send_ServerErrorIsNotRetried(t *testing.T) {
	calls := atomic.NewInt32(0)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Inc()
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	l := newTestLabsMobile(t, srv, 3)

	_, err := l.Send(context.Background(), Message{To: "1", Body: "x"})

	var perr *ProviderError
	if !errors.As(err, &perr) || perr.StatusCode != http.StatusBadGateway {
		t.Fatalf("err = %v, want 502 *ProviderError", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

func TestLabsMobile_Send_ClientErrorIsFinal(t *testing.T) {
	calls := atomic.NewInt32(0)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Inc()
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"403","message":"Unauthorized"}`))
	}))
	defer srv.Close()

	l := newTestLabsMobile(t, srv, 3)

	_, err := l.Send(context.Background(), Message{To: "1", Body: "x"})

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *ProviderError", err)
	}
	if perr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("StatusCode = %d, want 401", perr.StatusCode)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

func TestLabsMobile_Send_RejectedCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"code":"35","message":"The account has no enough credit"}`))
	}))
	defer srv.Close()

	l := newTestLabsMobile(t, srv, 0)

	var perr *ProviderError
	if _, err := l.Send(context.Background(), Message{To: "1", Body: "x"}); !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *ProviderError", err)
	}
}
