package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/prescripto/internal/directory/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
)

type (
	SpecialtyIDInput struct {
		ID int64 `validate:"required,gt=0"`
	}

	SpecialtyInput struct {
		Name        string `validate:"required,min=2,max=120"`
		Description string `validate:"required,max=1000"`
		ImageURL    string `validate:"required,url"`
	}

	UpdateSpecialtyInput struct {
		ID int64 `validate:"required,gt=0"`
		SpecialtyInput
	}
)

func (s *Usecase) ListSpecialties(ctx context.Context) ([]entity.Specialty, error) {
	ctx, span := s.startSpan(ctx, "ListSpecialties")
	defer span.End()

	items, err := s.repoDB.ListSpecialties(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list specialties", "error", err)
		return nil, goerror.NewServer(err)
	}

	return items, nil
}

func (s *Usecase) GetSpecialty(ctx context.Context, in SpecialtyIDInput) (*entity.Specialty, error) {
	ctx, span := s.startSpan(ctx, "GetSpecialty")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	sp, err := s.repoDB.GetSpecialty(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("specialty not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get specialty", "specialty_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return sp, nil
}

func (s *Usecase) CreateSpecialty(ctx context.Context, in SpecialtyInput) (*entity.Specialty, error) {
	ctx, span := s.startSpan(ctx, "CreateSpecialty")
	defer span.End()

	in.Name = cleanText(in.Name)
	in.Description = cleanText(in.Description)

	if err := s.validator.Validate(in); err != nil {
		slog.WarnContext(ctx, "invalid payload create specialty", "error", err)
		return nil, goerror.NewInvalidInput(err)
	}

	sp := entity.Specialty{
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}

	id, err := s.repoDB.CreateSpecialty(ctx, sp)
	if errors.Is(err, goerror.ErrConflict) {
		return nil, goerror.NewBusiness("specialty already exists", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create specialty", "error", err)
		return nil, goerror.NewServer(err)
	}

	sp.ID = id
	return &sp, nil
}

func (s *Usecase) UpdateSpecialty(ctx context.Context, in UpdateSpecialtyInput) (*entity.Specialty, error) {
	ctx, span := s.startSpan(ctx, "UpdateSpecialty")
	defer span.End()

	in.Name = cleanText(in.Name)
	in.Description = cleanText(in.Description)

	if err := s.validator.Validate(in); err != nil {
		slog.WarnContext(ctx, "invalid payload update specialty", "error", err)
		return nil, goerror.NewInvalidInput(err)
	}

	sp := entity.Specialty{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}

	err := s.repoDB.UpdateSpecialty(ctx, sp)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("specialty not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update specialty", "specialty_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &sp, nil
}

func (s *Usecase) DeleteSpecialty(ctx context.Context, in SpecialtyIDInput) error {
	ctx, span := s.startSpan(ctx, "DeleteSpecialty")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	err := s.repoDB.DeleteSpecialty(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("specialty not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete specialty", "specialty_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
