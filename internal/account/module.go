package account

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/prescripto/internal/account/inbound"
	"github.com/shandysiswandi/prescripto/internal/account/outbound/db"
	"github.com/shandysiswandi/prescripto/internal/account/usecase"
	"github.com/shandysiswandi/prescripto/internal/pkg/hash"
	"github.com/shandysiswandi/prescripto/internal/pkg/instrument"
	"github.com/shandysiswandi/prescripto/internal/pkg/jwt"
	"github.com/shandysiswandi/prescripto/internal/pkg/router"
	"github.com/shandysiswandi/prescripto/internal/pkg/validator"
)

var PublicEndpoints = inbound.PublicEndpoints

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Bcrypt     hash.Hash                  `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:     db.NewDB(dep.DBConn, dep.Instrument),
		Bcrypt:     dep.Bcrypt,
		JWT:        dep.JWT,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
