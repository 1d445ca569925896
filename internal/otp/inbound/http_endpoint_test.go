package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/prescripto/internal/otp/entity"
	"github.com/shandysiswandi/prescripto/internal/otp/usecase"
	"github.com/shandysiswandi/prescripto/internal/pkg/clock"
	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
	"github.com/shandysiswandi/prescripto/internal/pkg/instrument"
	"github.com/shandysiswandi/prescripto/internal/pkg/ratelimit"
	"github.com/shandysiswandi/prescripto/internal/pkg/router"
)

type fakeUsecase struct {
	issueFn      func(ctx context.Context, in usecase.IssueInput) (*usecase.IssueOutput, error)
	issueEmailFn func(ctx context.Context, in usecase.IssueEmailInput) (*usecase.IssueOutput, error)
	verifyFn     func(ctx context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error)
	statusFn     func(ctx context.Context, in usecase.StatusInput) (*entity.Status, error)
}

func (f *fakeUsecase) Issue(ctx context.Context, in usecase.IssueInput) (*usecase.IssueOutput, error) {
	return f.issueFn(ctx, in)
}

func (f *fakeUsecase) IssueEmail(ctx context.Context, in usecase.IssueEmailInput) (*usecase.IssueOutput, error) {
	return f.issueEmailFn(ctx, in)
}

func (f *fakeUsecase) Verify(ctx context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error) {
	return f.verifyFn(ctx, in)
}

func (f *fakeUsecase) Status(ctx context.Context, in usecase.StatusInput) (*entity.Status, error) {
	return f.statusFn(ctx, in)
}

func newTestServer(t *testing.T, uc uc) *httptest.Server {
	t.Helper()

	r := router.NewRouter(router.Config{
		Instrument:      instrument.NewNoop(),
		PublicEndpoints: PublicEndpoints,
	})
	RegisterHTTPEndpoint(r, uc)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, body string) (int, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, out
}

func TestHTTPEndpoint_Send(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	var got usecase.IssueInput
	uc := &fakeUsecase{
		issueFn: func(_ context.Context, in usecase.IssueInput) (*usecase.IssueOutput, error) {
			got = in
			return &usecase.IssueOutput{
				ID:        7,
				Message:   "OTP sent successfully",
				CreatedAt: created,
				ExpiresAt: created.Add(10 * time.Minute),
				Outcomes: []entity.DeliveryOutcome{
					{Channel: entity.ChannelEmail, Success: true},
					{Channel: entity.ChannelSMS, Success: true},
				},
			}, nil
		},
	}
	srv := newTestServer(t, uc)

	// Act
	code, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/otp/send", `{"email":"ana@example.com","phone":"+34600111222"}`)

	// Assert
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%v)", code, body)
	}
	if got.Email != "ana@example.com" || got.Phone != "+34600111222" {
		t.Fatalf("input = %+v", got)
	}
	if body["message"] != "OTP sent successfully" {
		t.Fatalf("message = %v", body["message"])
	}
	data, _ := body["data"].(map[string]any)
	if data["request_id"] != "7" {
		t.Fatalf("request_id = %v", data["request_id"])
	}
	if _, ok := data["code"]; ok {
		t.Fatalf("code must be omitted when empty: %v", data)
	}
	channels, _ := data["channels"].([]any)
	if len(channels) != 2 {
		t.Fatalf("channels = %v", data["channels"])
	}
}

func TestHTTPEndpoint_Send_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{
			name:     "malformed body",
			body:     `{"email":`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing identifier",
			body:     `{}`,
			err:      goerror.NewInvalidInput(nil, "email", "email or phone is required"),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "delivery failure",
			body:     `{"email":"ana@example.com"}`,
			err:      goerror.NewDelivery(entity.ErrChannelDelivery, "Failed to send OTP via email"),
			wantCode: http.StatusInternalServerError,
		},
		{
			name:     "unexpected error",
			body:     `{"email":"ana@example.com"}`,
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUsecase{
				issueFn: func(context.Context, usecase.IssueInput) (*usecase.IssueOutput, error) {
					return nil, tt.err
				},
			}
			srv := newTestServer(t, uc)

			code, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/otp/send", tt.body)

			if code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%v)", code, tt.wantCode, body)
			}
			if _, ok := body["message"]; !ok {
				t.Fatalf("missing message: %v", body)
			}
		})
	}
}

func TestHTTPEndpoint_SendMail(t *testing.T) {
	var got string
	uc := &fakeUsecase{
		issueEmailFn: func(_ context.Context, in usecase.IssueEmailInput) (*usecase.IssueOutput, error) {
			got = in.Email
			return &usecase.IssueOutput{
				ID:       1,
				Message:  "OTP sent successfully",
				Code:     "123456",
				Outcomes: []entity.DeliveryOutcome{{Channel: entity.ChannelEmail, Success: true}},
			}, nil
		},
	}
	srv := newTestServer(t, uc)

	code, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/otp/send-mail", `{"email":"ana@example.com"}`)

	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if got != "ana@example.com" {
		t.Fatalf("email = %q", got)
	}
	data, _ := body["data"].(map[string]any)
	if data["code"] != "123456" {
		t.Fatalf("code = %v", data["code"])
	}
}

func TestHTTPEndpoint_Verify(t *testing.T) {
	tests := []struct {
		name     string
		out      *usecase.VerifyOutput
		err      error
		wantCode int
	}{
		{
			name:     "verified",
			out:      &usecase.VerifyOutput{Success: true, Message: usecase.MsgVerified},
			wantCode: http.StatusOK,
		},
		{
			name:     "mismatch",
			out:      &usecase.VerifyOutput{Success: false, Message: usecase.MsgMismatch},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "expired",
			out:      &usecase.VerifyOutput{Success: false, Message: usecase.MsgExpired},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "store failure",
			err:      goerror.NewServer(errors.New("redis down")),
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUsecase{
				verifyFn: func(_ context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error) {
					if in.Identifier != "ana@example.com" || in.Code != "042981" {
						t.Errorf("input = %+v", in)
					}
					return tt.out, tt.err
				},
			}
			srv := newTestServer(t, uc)

			code, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/otp/verify", `{"identifier":"ana@example.com","code":"042981"}`)

			if code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%v)", code, tt.wantCode, body)
			}
			if tt.out == nil {
				return
			}
			if _, ok := body["data"]; ok {
				t.Fatalf("verify response must not be enveloped: %v", body)
			}
			if body["success"] != tt.out.Success || body["message"] != tt.out.Message {
				t.Fatalf("body = %v, want %+v", body, tt.out)
			}
		})
	}
}

func TestHTTPEndpoint_Status(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	uc := &fakeUsecase{
		statusFn: func(_ context.Context, in usecase.StatusInput) (*entity.Status, error) {
			if in.Identifier != "ana@example.com" {
				return nil, goerror.NewBusiness("OTP not found", goerror.CodeNotFound)
			}
			return &entity.Status{CreatedAt: created, ExpiresAt: created.Add(time.Minute)}, nil
		},
	}
	srv := newTestServer(t, uc)

	code, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/otp/status?identifier=ana@example.com", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%v)", code, body)
	}
	data, _ := body["data"].(map[string]any)
	if data["expired"] != false {
		t.Fatalf("expired = %v", data["expired"])
	}
	if _, ok := data["code"]; ok {
		t.Fatalf("status must never expose the code")
	}

	code, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/otp/status?identifier=bob@example.com", "")
	if code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
}

func TestHTTPEndpoint_RateLimited(t *testing.T) {
	// Arrange
	uc := &fakeUsecase{
		statusFn: func(context.Context, usecase.StatusInput) (*entity.Status, error) {
			return nil, goerror.NewBusiness("OTP not found", goerror.CodeNotFound)
		},
	}
	r := router.NewRouter(router.Config{
		Instrument:      instrument.NewNoop(),
		PublicEndpoints: PublicEndpoints,
	})
	limiter := ratelimit.New(ratelimit.Config{PerMinute: 1, Burst: 1, Clock: clock.New()})
	RegisterHTTPEndpoint(r, uc, router.RateLimit(limiter))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	// Act
	first, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/otp/status?identifier=a@b.co", "")
	second, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/otp/status?identifier=a@b.co", "")

	// Assert
	if first != http.StatusNotFound {
		t.Fatalf("first status = %d, want 404", first)
	}
	if second != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", second)
	}
	if body["message"] != "Too many requests" {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestHTTPEndpoint_RateLimitIgnoresSpoofedHeaders(t *testing.T) {
	// Arrange
	calls := 0
	uc := &fakeUsecase{
		verifyFn: func(context.Context, usecase.VerifyInput) (*usecase.VerifyOutput, error) {
			calls++
			return &usecase.VerifyOutput{Success: false, Message: usecase.MsgMismatch}, nil
		},
	}
	r := router.NewRouter(router.Config{
		Instrument:      instrument.NewNoop(),
		PublicEndpoints: PublicEndpoints,
	})
	limiter := ratelimit.New(ratelimit.Config{PerMinute: 10, Burst: 5, Clock: clock.New()})
	RegisterHTTPEndpoint(r, uc, router.RateLimit(limiter))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	// Act
	limited := 0
	for i := range 50 {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/otp/verify",
			strings.NewReader(`{"identifier":"a@b.co","code":"123456"}`))
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.%d.%d", i/250, i%250+1))
		req.Header.Set("X-Real-IP", fmt.Sprintf("172.16.0.%d", i+1))
		req.Header.Set("True-Client-IP", fmt.Sprintf("192.168.0.%d", i+1))

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			limited++
		}
	}

	// Assert
	if calls > 5 {
		t.Fatalf("usecase reached %d times, want at most the burst of 5", calls)
	}
	if limited < 45 {
		t.Fatalf("rate limited %d of 50 requests, want at least 45", limited)
	}
}
