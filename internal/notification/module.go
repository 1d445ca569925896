package notification

import (
	"github.com/shandysiswandi/prescripto/internal/notification/inbound"
	"github.com/shandysiswandi/prescripto/internal/notification/outbound/email"
	"github.com/shandysiswandi/prescripto/internal/notification/outbound/sms"
	"github.com/shandysiswandi/prescripto/internal/notification/usecase"
	"github.com/shandysiswandi/prescripto/internal/pkg/clock"
	"github.com/shandysiswandi/prescripto/internal/pkg/config"
	"github.com/shandysiswandi/prescripto/internal/pkg/instrument"
	"github.com/shandysiswandi/prescripto/internal/pkg/mail"
	"github.com/shandysiswandi/prescripto/internal/pkg/router"
	pkgsms "github.com/shandysiswandi/prescripto/internal/pkg/sms"
	"github.com/shandysiswandi/prescripto/internal/pkg/validator"
)

type Dependency struct {
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	SMS        pkgsms.SMS                 `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.NewNotification(usecase.Dependency{
		RepoMail:   email.New(dep.Mail, dep.Instrument),
		RepoSMS:    sms.New(dep.SMS, dep.Instrument),
		Config:     dep.Config,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
