package usecase

import (
	"context"

	"github.com/shandysiswandi/prescripto/internal/directory/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/instrument"
	"github.com/shandysiswandi/prescripto/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	ListSpecialties(ctx context.Context) ([]entity.Specialty, error)
	GetSpecialty(ctx context.Context, id int64) (*entity.Specialty, error)
	CreateSpecialty(ctx context.Context, sp entity.Specialty) (int64, error)
	UpdateSpecialty(ctx context.Context, sp entity.Specialty) error
	DeleteSpecialty(ctx context.Context, id int64) error

	ListDoctors(ctx context.Context, limit int32) ([]entity.Doctor, error)
	FilterDoctorsBySpecialty(ctx context.Context, specialtyID int64) ([]entity.Doctor, error)
	GetDoctor(ctx context.Context, id int64) (*entity.DoctorDetail, error)
	CreateDoctor(ctx context.Context, data entity.DoctorData) (int64, error)
	UpdateDoctor(ctx context.Context, id int64, data entity.DoctorData) error
	DeleteDoctor(ctx context.Context, id int64) error
}

type Usecase struct {
	repoDB    repoDB
	validator validator.Validator
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		validator: dep.Validator,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("directory.usecase").Start(ctx, name)
}
