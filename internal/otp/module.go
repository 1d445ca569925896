package otp

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/prescripto/internal/otp/inbound"
	"github.com/shandysiswandi/prescripto/internal/otp/outbound/channel"
	"github.com/shandysiswandi/prescripto/internal/otp/outbound/store"
	"github.com/shandysiswandi/prescripto/internal/otp/usecase"
	"github.com/shandysiswandi/prescripto/internal/pkg/clock"
	"github.com/shandysiswandi/prescripto/internal/pkg/config"
	"github.com/shandysiswandi/prescripto/internal/pkg/instrument"
	"github.com/shandysiswandi/prescripto/internal/pkg/mail"
	"github.com/shandysiswandi/prescripto/internal/pkg/ratelimit"
	"github.com/shandysiswandi/prescripto/internal/pkg/router"
	"github.com/shandysiswandi/prescripto/internal/pkg/sms"
	"github.com/shandysiswandi/prescripto/internal/pkg/uid"
	"github.com/shandysiswandi/prescripto/internal/pkg/validator"
)

// ErrMissingCache is returned when the redis store is selected without a connection.
var ErrMissingCache = errors.New("otp: redis store selected but no cache connection")

// PublicEndpoints are the OTP routes reachable without a token.
var PublicEndpoints = inbound.PublicEndpoints

type Dependency struct {
	// CacheConn is only required when modules.otp.store is redis.
	CacheConn  redis.UniversalClient
	Router     *router.Router             `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	SMS        sms.SMS                    `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

// New wires the OTP module and returns the store so the caller can close it.
func New(dep Dependency) (Store, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	var repoStore Store
	switch strings.ToLower(dep.Config.GetString("modules.otp.store")) {
	case "redis":
		if dep.CacheConn == nil {
			return nil, ErrMissingCache
		}
		repoStore = store.NewRedis(dep.CacheConn, dep.Instrument)
	default:
		repoStore = store.NewMemory()
	}
	slog.Info("otp store selected", "driver", dep.Config.GetString("modules.otp.store"))

	uc := usecase.New(usecase.Dependency{
		RepoStore:  repoStore,
		RepoEmail:  channel.NewEmail(dep.Mail, dep.Instrument),
		RepoSMS:    channel.NewSMS(dep.SMS, dep.Instrument),
		Validator:  dep.Validator,
		Config:     dep.Config,
		Clock:      dep.Clock,
		UID:        dep.UID,
		Instrument: dep.Instrument,
	})

	var mws []router.Middleware
	if limiter := ratelimit.New(ratelimit.Config{
		PerMinute: dep.Config.GetInt("modules.otp.rate_limit.per_minute"),
		Burst:     dep.Config.GetInt("modules.otp.rate_limit.burst"),
		Clock:     dep.Clock,
	}); limiter != nil {
		mws = append(mws, router.RateLimit(limiter))
	}

	inbound.RegisterHTTPEndpoint(dep.Router, uc, mws...)

	return repoStore, nil
}
