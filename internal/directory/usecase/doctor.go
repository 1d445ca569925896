package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/prescripto/internal/directory/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
)

type (
	ListDoctorsInput struct {
		Limit int32 `validate:"gte=0,lte=1000"`
	}

	DoctorIDInput struct {
		ID int64 `validate:"required,gt=0"`
	}

	FilterDoctorsInput struct {
		SpecialtyID int64 `validate:"required,gt=0"`
	}

	AddressInput struct {
		Address   string `validate:"required,max=255"`
		NumberExt string `validate:"max=20"`
		NumberInt string `validate:"max=20"`
	}

	DoctorInput struct {
		FirstName    string         `validate:"required,max=100"`
		LastName     string         `validate:"required,max=100"`
		PhoneNumber  string         `validate:"required,phone"`
		Availability bool
		SpecialtyIDs []int64        `validate:"required,min=1,dive,gt=0"`
		Addresses    []AddressInput `validate:"required,min=1,dive"`
		ImageURLs    []string       `validate:"dive,omitempty,url"`
	}

	UpdateDoctorInput struct {
		ID int64 `validate:"required,gt=0"`
		DoctorInput
	}
)

func (in DoctorInput) data() entity.DoctorData {
	return entity.DoctorData{
		FirstName:    cleanText(in.FirstName),
		LastName:     cleanText(in.LastName),
		PhoneNumber:  in.PhoneNumber,
		Availability: in.Availability,
		SpecialtyIDs: lo.Uniq(in.SpecialtyIDs),
		Addresses: lo.Map(in.Addresses, func(a AddressInput, _ int) entity.Address {
			return entity.Address{
				Address:   cleanText(a.Address),
				NumberExt: strings.TrimSpace(a.NumberExt),
				NumberInt: strings.TrimSpace(a.NumberInt),
			}
		}),
		ImageURLs: lo.Uniq(lo.Compact(in.ImageURLs)),
	}
}

func (s *Usecase) ListDoctors(ctx context.Context, in ListDoctorsInput) ([]entity.Doctor, error) {
	ctx, span := s.startSpan(ctx, "ListDoctors")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	items, err := s.repoDB.ListDoctors(ctx, in.Limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list doctors", "error", err)
		return nil, goerror.NewServer(err)
	}

	return items, nil
}

func (s *Usecase) GetDoctor(ctx context.Context, in DoctorIDInput) (*entity.DoctorDetail, error) {
	ctx, span := s.startSpan(ctx, "GetDoctor")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	d, err := s.repoDB.GetDoctor(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("doctor not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get doctor", "doctor_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return d, nil
}

// FilterDoctors lists doctors offering a specialty; an empty result is a not-found.
func (s *Usecase) FilterDoctors(ctx context.Context, in FilterDoctorsInput) ([]entity.Doctor, error) {
	ctx, span := s.startSpan(ctx, "FilterDoctors")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	items, err := s.repoDB.FilterDoctorsBySpecialty(ctx, in.SpecialtyID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo filter doctors", "specialty_id", in.SpecialtyID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if len(items) == 0 {
		return nil, goerror.NewBusiness("no doctors found for this specialty", goerror.CodeNotFound)
	}

	return items, nil
}

func (s *Usecase) CreateDoctor(ctx context.Context, in DoctorInput) (*entity.DoctorDetail, error) {
	ctx, span := s.startSpan(ctx, "CreateDoctor")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.WarnContext(ctx, "invalid payload create doctor", "error", err)
		return nil, goerror.NewInvalidInput(err)
	}

	id, err := s.repoDB.CreateDoctor(ctx, in.data())
	if errors.Is(err, entity.ErrUnknownSpecialty) {
		return nil, goerror.NewInvalidInput(nil, "specialty_ids", "unknown specialty")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create doctor", "error", err)
		return nil, goerror.NewServer(err)
	}

	return s.GetDoctor(ctx, DoctorIDInput{ID: id})
}

func (s *Usecase) UpdateDoctor(ctx context.Context, in UpdateDoctorInput) (*entity.DoctorDetail, error) {
	ctx, span := s.startSpan(ctx, "UpdateDoctor")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.WarnContext(ctx, "invalid payload update doctor", "error", err)
		return nil, goerror.NewInvalidInput(err)
	}

	err := s.repoDB.UpdateDoctor(ctx, in.ID, in.data())
	if errors.Is(err, entity.ErrUnknownSpecialty) {
		return nil, goerror.NewInvalidInput(nil, "specialty_ids", "unknown specialty")
	}
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("doctor not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update doctor", "doctor_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return s.GetDoctor(ctx, DoctorIDInput{ID: in.ID})
}

func (s *Usecase) DeleteDoctor(ctx context.Context, in DoctorIDInput) error {
	ctx, span := s.startSpan(ctx, "DeleteDoctor")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	err := s.repoDB.DeleteDoctor(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("doctor not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete doctor", "doctor_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
