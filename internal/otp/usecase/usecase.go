package usecase

import (
	"context"
	"crypto/rand"
	"io"
	"log/slog"

	"github.com/shandysiswandi/prescripto/internal/otp/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/clock"
	"github.com/shandysiswandi/prescripto/internal/pkg/config"
	"github.com/shandysiswandi/prescripto/internal/pkg/instrument"
	"github.com/shandysiswandi/prescripto/internal/pkg/uid"
	"github.com/shandysiswandi/prescripto/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type repoStore interface {
	Put(ctx context.Context, identifier string, e entity.Entry) error
	Get(ctx context.Context, identifier string) (*entity.Entry, error)
	CompareAndDelete(ctx context.Context, identifier, code string) (bool, error)
}

type repoEmail interface {
	SendEmail(ctx context.Context, to, subject, html string) entity.DeliveryOutcome
}

type repoSMS interface {
	SendSMS(ctx context.Context, phone, text string) entity.DeliveryOutcome
}

type Usecase struct {
	repoStore repoStore
	repoEmail repoEmail
	repoSMS   repoSMS
	validator validator.Validator
	cfg       config.Config
	clock     clock.Clocker
	uid       uid.NumberID
	ins       instrument.Instrumentation
	random    io.Reader

	issuedCounter   metric.Int64Counter
	verifiedCounter metric.Int64Counter
	deliveryCounter metric.Int64Counter
}

type Dependency struct {
	RepoStore  repoStore
	RepoEmail  repoEmail
	RepoSMS    repoSMS
	Validator  validator.Validator
	Config     config.Config
	Clock      clock.Clocker
	UID        uid.NumberID
	Instrument instrument.Instrumentation
	// Random is the entropy source for codes; defaults to crypto/rand.
	Random io.Reader
}

func New(dep Dependency) *Usecase {
	s := &Usecase{
		repoStore: dep.RepoStore,
		repoEmail: dep.RepoEmail,
		repoSMS:   dep.RepoSMS,
		validator: dep.Validator,
		cfg:       dep.Config,
		clock:     dep.Clock,
		uid:       dep.UID,
		ins:       dep.Instrument,
		random:    dep.Random,
	}
	if s.random == nil {
		s.random = rand.Reader
	}

	meter := s.ins.Meter("otp.usecase")

	var err error
	if s.issuedCounter, err = meter.Int64Counter("otp.issued", metric.WithDescription("Number of OTP issuance requests")); err != nil {
		slog.Error("failed to create otp issued counter", "error", err)
	}
	if s.verifiedCounter, err = meter.Int64Counter("otp.verified", metric.WithDescription("Number of OTP verification attempts")); err != nil {
		slog.Error("failed to create otp verified counter", "error", err)
	}
	if s.deliveryCounter, err = meter.Int64Counter("otp.delivery", metric.WithDescription("Number of OTP channel deliveries")); err != nil {
		slog.Error("failed to create otp delivery counter", "error", err)
	}

	return s
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}

func (s *Usecase) count(ctx context.Context, c metric.Int64Counter, attrs ...attribute.KeyValue) {
	if c == nil {
		return
	}
	c.Add(ctx, 1, metric.WithAttributes(attrs...))
}
