package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/shandysiswandi/prescripto/internal/otp/entity"
	"github.com/shandysiswandi/prescripto/internal/otp/outbound/store"
	"github.com/shandysiswandi/prescripto/internal/pkg/clock"
	"github.com/shandysiswandi/prescripto/internal/pkg/config"
	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
	"github.com/shandysiswandi/prescripto/internal/pkg/instrument"
	"github.com/shandysiswandi/prescripto/internal/pkg/validator"
	"go.uber.org/atomic"
)

var (
	reEmailCode = regexp.MustCompile(`otp-message">(\d+)<`)
	reSMSCode   = regexp.MustCompile(`es: (\d+)\.`)
)

type fakeEmail struct {
	calls *atomic.Int32
	fn    func(ctx context.Context, to, subject, html string) entity.DeliveryOutcome
}

func (f *fakeEmail) SendEmail(ctx context.Context, to, subject, html string) entity.DeliveryOutcome {
	f.calls.Inc()
	if f.fn == nil {
		return entity.DeliveryOutcome{Channel: entity.ChannelEmail, Success: true}
	}
	return f.fn(ctx, to, subject, html)
}

type fakeSMS struct {
	calls *atomic.Int32
	fn    func(ctx context.Context, phone, text string) entity.DeliveryOutcome
}

func (f *fakeSMS) SendSMS(ctx context.Context, phone, text string) entity.DeliveryOutcome {
	f.calls.Inc()
	if f.fn == nil {
		return entity.DeliveryOutcome{Channel: entity.ChannelSMS, Success: true}
	}
	return f.fn(ctx, phone, text)
}

type sequenceID struct{ n *atomic.Int64 }

func (s sequenceID) Generate() int64 { return s.n.Inc() }

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

type harness struct {
	uc    *Usecase
	store *store.Memory
	clock *clock.Manual
	email *fakeEmail
	sms   *fakeSMS
}

func newHarness(t *testing.T, yaml string) *harness {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	h := &harness{
		store: store.NewMemory(),
		clock: clock.NewManual(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)),
		email: &fakeEmail{calls: atomic.NewInt32(0)},
		sms:   &fakeSMS{calls: atomic.NewInt32(0)},
	}
	h.uc = New(Dependency{
		RepoStore:  h.store,
		RepoEmail:  h.email,
		RepoSMS:    h.sms,
		Validator:  v,
		Config:     cfg,
		Clock:      h.clock,
		UID:        sequenceID{n: atomic.NewInt64(0)},
		Instrument: instrument.NewNoop(),
	})

	return h
}

func assertCode(t *testing.T, err error, want goerror.Code) *goerror.Error {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error = %v, want *goerror.Error", err)
	}
	if gerr.Code() != want {
		t.Fatalf("code = %s, want %s", gerr.Code(), want)
	}
	return gerr
}

func ptr[T any](v T) *T { return &v }
