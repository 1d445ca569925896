package usecase

import (
	"context"

	"github.com/shandysiswandi/prescripto/internal/account/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/hash"
	"github.com/shandysiswandi/prescripto/internal/pkg/instrument"
	"github.com/shandysiswandi/prescripto/internal/pkg/jwt"
	"github.com/shandysiswandi/prescripto/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, u entity.NewUser) (int64, error)
	GetUser(ctx context.Context, id int64) (*entity.User, error)
	ListUsersByRole(ctx context.Context, roleID int64) ([]entity.User, error)
	UpdateUser(ctx context.Context, u entity.UserUpdate) error
	DeleteUser(ctx context.Context, id int64) error
}

type Usecase struct {
	repoDB    repoDB
	bcrypt    hash.Hash
	jwt       jwt.JWT
	validator validator.Validator
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Bcrypt     hash.Hash
	JWT        jwt.JWT
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		bcrypt:    dep.Bcrypt,
		jwt:       dep.JWT,
		validator: dep.Validator,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("account.usecase").Start(ctx, name)
}
