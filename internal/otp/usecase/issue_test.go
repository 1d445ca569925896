package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/prescripto/internal/otp/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
)

const dualAll = `
modules:
  otp:
    mode: dual
    policy: all
    channel_timeout_seconds: 1
`

func TestIssue_DualSharesOneCode(t *testing.T) {
	// Arrange
	h := newHarness(t, dualAll)
	var emailCode, smsCode, subject string
	h.email.fn = func(_ context.Context, to, subj, html string) entity.DeliveryOutcome {
		if to != "a@b.com" {
			t.Errorf("email to = %q", to)
		}
		subject = subj
		if m := reEmailCode.FindStringSubmatch(html); len(m) == 2 {
			emailCode = m[1]
		}
		return entity.DeliveryOutcome{Success: true}
	}
	h.sms.fn = func(_ context.Context, phone, text string) entity.DeliveryOutcome {
		if phone != "+34600111222" {
			t.Errorf("sms phone = %q", phone)
		}
		if !strings.HasPrefix(text, "Tu código de verificación es: ") {
			t.Errorf("sms text = %q", text)
		}
		if m := reSMSCode.FindStringSubmatch(text); len(m) == 2 {
			smsCode = m[1]
		}
		return entity.DeliveryOutcome{Success: true}
	}

	// Act
	out, err := h.uc.Issue(context.Background(), IssueInput{Email: " A@B.com", Phone: "+34600111222"})

	// Assert
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if emailCode == "" || emailCode != smsCode {
		t.Fatalf("email code %q and sms code %q differ", emailCode, smsCode)
	}
	if subject != "Tu código OTP para Prescripto" {
		t.Fatalf("subject = %q", subject)
	}
	if len(out.Outcomes) != 2 || out.Outcomes[0].Channel != entity.ChannelEmail || out.Outcomes[1].Channel != entity.ChannelSMS {
		t.Fatalf("outcomes = %+v", out.Outcomes)
	}
	if out.Code != "" {
		t.Fatalf("code exposed without expose_code")
	}

	entry, err := h.store.Get(context.Background(), "a@b.com")
	if err != nil || entry.Code != emailCode {
		t.Fatalf("stored entry = %+v, %v; want keyed by email", entry, err)
	}
	if _, err := h.store.Get(context.Background(), "+34600111222"); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("phone should not be a second key, err = %v", err)
	}
}

func TestIssue_PhoneOnlyKeysByPhone(t *testing.T) {
	h := newHarness(t, dualAll)

	if _, err := h.uc.Issue(context.Background(), IssueInput{Phone: "+34600111222"}); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if h.email.calls.Load() != 0 || h.sms.calls.Load() != 1 {
		t.Fatalf("calls email=%d sms=%d", h.email.calls.Load(), h.sms.calls.Load())
	}
	if _, err := h.store.Get(context.Background(), "+34600111222"); err != nil {
		t.Fatalf("store.Get() error = %v", err)
	}
}

func TestIssue_SingleModeIgnoresPhone(t *testing.T) {
	h := newHarness(t, "modules:\n  otp:\n    mode: single\n")

	out, err := h.uc.Issue(context.Background(), IssueInput{Email: "a@b.com", Phone: "+34600111222"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if len(out.Outcomes) != 1 || h.sms.calls.Load() != 0 {
		t.Fatalf("single mode dispatched sms: outcomes=%+v", out.Outcomes)
	}

	_, err = h.uc.Issue(context.Background(), IssueInput{Phone: "+34600111222"})
	gerr := assertCode(t, err, goerror.CodeInvalidInput)
	if _, ok := gerr.Fields()["email"]; !ok {
		t.Fatalf("fields = %v, want email", gerr.Fields())
	}
}

func TestIssue_Validation(t *testing.T) {
	h := newHarness(t, dualAll)

	tests := []struct {
		name string
		in   IssueInput
	}{
		{name: "no identifier", in: IssueInput{}},
		{name: "blank identifiers", in: IssueInput{Email: "  ", Phone: " "}},
		{name: "malformed email", in: IssueInput{Email: "not-an-email"}},
		{name: "malformed phone", in: IssueInput{Phone: "call me"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.uc.Issue(context.Background(), tt.in)
			assertCode(t, err, goerror.CodeInvalidInput)
		})
	}

	if h.email.calls.Load()+h.sms.calls.Load() != 0 {
		t.Fatal("senders called on invalid input")
	}
}

func TestIssue_PolicyAllFailsOnAnyChannel(t *testing.T) {
	h := newHarness(t, dualAll)
	h.sms.fn = func(context.Context, string, string) entity.DeliveryOutcome {
		return entity.DeliveryOutcome{Error: "provider rejected"}
	}

	_, err := h.uc.Issue(context.Background(), IssueInput{Email: "a@b.com", Phone: "+34600111222"})

	gerr := assertCode(t, err, goerror.CodeDeliveryFailed)
	if !errors.Is(err, entity.ErrChannelDelivery) {
		t.Fatalf("error = %v, want ErrChannelDelivery", err)
	}
	if gerr.Msg() != "Failed to send OTP via sms" {
		t.Fatalf("message = %q", gerr.Msg())
	}
	if gerr.StatusCode() != 500 {
		t.Fatalf("status = %d, want 500", gerr.StatusCode())
	}
	if h.email.calls.Load() != 1 {
		t.Fatalf("email not attempted")
	}
	if _, err := h.store.Get(context.Background(), "a@b.com"); err != nil {
		t.Fatalf("entry should stay stored after delivery failure: %v", err)
	}
}

func TestIssue_BestEffort(t *testing.T) {
	h := newHarness(t, "modules:\n  otp:\n    policy: best_effort\n")
	h.sms.fn = func(context.Context, string, string) entity.DeliveryOutcome {
		return entity.DeliveryOutcome{Error: "provider rejected"}
	}

	out, err := h.uc.Issue(context.Background(), IssueInput{Email: "a@b.com", Phone: "+34600111222"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if !out.Outcomes[0].Success || out.Outcomes[1].Success || out.Outcomes[1].Error != "provider rejected" {
		t.Fatalf("outcomes = %+v", out.Outcomes)
	}

	h.email.fn = func(context.Context, string, string, string) entity.DeliveryOutcome {
		return entity.DeliveryOutcome{Error: "smtp down"}
	}
	_, err = h.uc.Issue(context.Background(), IssueInput{Email: "a@b.com", Phone: "+34600111222"})
	gerr := assertCode(t, err, goerror.CodeDeliveryFailed)
	if gerr.Msg() != "Failed to send OTP via email, sms" {
		t.Fatalf("message = %q", gerr.Msg())
	}
}

func TestIssue_ChannelTimeout(t *testing.T) {
	h := newHarness(t, dualAll)
	h.sms.fn = func(ctx context.Context, _, _ string) entity.DeliveryOutcome {
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		return entity.DeliveryOutcome{Success: true}
	}

	start := time.Now()
	_, err := h.uc.Issue(context.Background(), IssueInput{Email: "a@b.com", Phone: "+34600111222"})
	elapsed := time.Since(start)

	assertCode(t, err, goerror.CodeDeliveryFailed)
	if elapsed > 3*time.Second {
		t.Fatalf("Issue() took %v, want bounded by channel timeout", elapsed)
	}
}

func TestIssue_DispatchesConcurrently(t *testing.T) {
	h := newHarness(t, dualAll)
	emailStarted := make(chan struct{})
	smsStarted := make(chan struct{})

	// Each sender only succeeds if it observes the other one running.
	h.email.fn = func(ctx context.Context, _, _, _ string) entity.DeliveryOutcome {
		close(emailStarted)
		select {
		case <-smsStarted:
			return entity.DeliveryOutcome{Success: true}
		case <-ctx.Done():
			return entity.DeliveryOutcome{Error: "sms never started"}
		}
	}
	h.sms.fn = func(ctx context.Context, _, _ string) entity.DeliveryOutcome {
		close(smsStarted)
		select {
		case <-emailStarted:
			return entity.DeliveryOutcome{Success: true}
		case <-ctx.Done():
			return entity.DeliveryOutcome{Error: "email never started"}
		}
	}

	if _, err := h.uc.Issue(context.Background(), IssueInput{Email: "a@b.com", Phone: "+34600111222"}); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
}

func TestIssue_SenderPanicIsAFailedOutcome(t *testing.T) {
	h := newHarness(t, "modules:\n  otp:\n    policy: best_effort\n")
	h.sms.fn = func(context.Context, string, string) entity.DeliveryOutcome {
		panic("nil provider")
	}

	out, err := h.uc.Issue(context.Background(), IssueInput{Email: "a@b.com", Phone: "+34600111222"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if out.Outcomes[1].Success || !strings.Contains(out.Outcomes[1].Error, "panicked") {
		t.Fatalf("sms outcome = %+v", out.Outcomes[1])
	}
}

func TestIssue_ExposeCode(t *testing.T) {
	h := newHarness(t, "modules:\n  otp:\n    expose_code: true\n")

	out, err := h.uc.Issue(context.Background(), IssueInput{Email: "a@b.com"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	entry, _ := h.store.Get(context.Background(), "a@b.com")
	if out.Code == "" || out.Code != entry.Code {
		t.Fatalf("Code = %q, want stored %q", out.Code, entry.Code)
	}
	if out.ID == 0 || !out.CreatedAt.Equal(entry.CreatedAt) {
		t.Fatalf("output = %+v", out)
	}
}

func TestIssueEmail(t *testing.T) {
	h := newHarness(t, dualAll)

	out, err := h.uc.IssueEmail(context.Background(), IssueEmailInput{Email: "a@b.com"})
	if err != nil {
		t.Fatalf("IssueEmail() error = %v", err)
	}
	if len(out.Outcomes) != 1 || out.Outcomes[0].Channel != entity.ChannelEmail {
		t.Fatalf("outcomes = %+v", out.Outcomes)
	}

	_, err = h.uc.IssueEmail(context.Background(), IssueEmailInput{})
	assertCode(t, err, goerror.CodeInvalidInput)
}

func TestIssue_StoreFailure(t *testing.T) {
	h := newHarness(t, dualAll)
	h.uc.repoStore = failingStore{}

	_, err := h.uc.Issue(context.Background(), IssueInput{Email: "a@b.com"})
	assertCode(t, err, goerror.CodeInternal)
	if h.email.calls.Load() != 0 {
		t.Fatal("dispatched before the code was stored")
	}
}

type failingStore struct{}

func (failingStore) Put(context.Context, string, entity.Entry) error {
	return errors.New("connection refused")
}

func (failingStore) Get(context.Context, string) (*entity.Entry, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) Delete(context.Context, string) error { return errors.New("connection refused") }

func (failingStore) CompareAndDelete(context.Context, string, string) (bool, error) {
	return false, errors.New("connection refused")
}
