package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shandysiswandi/prescripto/internal/directory/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
	"github.com/shandysiswandi/prescripto/internal/pkg/instrument"
	"github.com/shandysiswandi/prescripto/internal/pkg/validator"
)

type fakeRepo struct {
	listSpecialtiesFn func(ctx context.Context) ([]entity.Specialty, error)
	getSpecialtyFn    func(ctx context.Context, id int64) (*entity.Specialty, error)
	createSpecialtyFn func(ctx context.Context, sp entity.Specialty) (int64, error)
	updateSpecialtyFn func(ctx context.Context, sp entity.Specialty) error
	deleteSpecialtyFn func(ctx context.Context, id int64) error
	listDoctorsFn     func(ctx context.Context, limit int32) ([]entity.Doctor, error)
	filterDoctorsFn   func(ctx context.Context, specialtyID int64) ([]entity.Doctor, error)
	getDoctorFn       func(ctx context.Context, id int64) (*entity.DoctorDetail, error)
	createDoctorFn    func(ctx context.Context, data entity.DoctorData) (int64, error)
	updateDoctorFn    func(ctx context.Context, id int64, data entity.DoctorData) error
	deleteDoctorFn    func(ctx context.Context, id int64) error
}

func (f *fakeRepo) ListSpecialties(ctx context.Context) ([]entity.Specialty, error) {
	return f.listSpecialtiesFn(ctx)
}

func (f *fakeRepo) GetSpecialty(ctx context.Context, id int64) (*entity.Specialty, error) {
	return f.getSpecialtyFn(ctx, id)
}

func (f *fakeRepo) CreateSpecialty(ctx context.Context, sp entity.Specialty) (int64, error) {
	return f.createSpecialtyFn(ctx, sp)
}

func (f *fakeRepo) UpdateSpecialty(ctx context.Context, sp entity.Specialty) error {
	return f.updateSpecialtyFn(ctx, sp)
}

func (f *fakeRepo) DeleteSpecialty(ctx context.Context, id int64) error {
	return f.deleteSpecialtyFn(ctx, id)
}

func (f *fakeRepo) ListDoctors(ctx context.Context, limit int32) ([]entity.Doctor, error) {
	return f.listDoctorsFn(ctx, limit)
}

func (f *fakeRepo) FilterDoctorsBySpecialty(ctx context.Context, specialtyID int64) ([]entity.Doctor, error) {
	return f.filterDoctorsFn(ctx, specialtyID)
}

func (f *fakeRepo) GetDoctor(ctx context.Context, id int64) (*entity.DoctorDetail, error) {
	return f.getDoctorFn(ctx, id)
}

func (f *fakeRepo) CreateDoctor(ctx context.Context, data entity.DoctorData) (int64, error) {
	return f.createDoctorFn(ctx, data)
}

func (f *fakeRepo) UpdateDoctor(ctx context.Context, id int64, data entity.DoctorData) error {
	return f.updateDoctorFn(ctx, id, data)
}

func (f *fakeRepo) DeleteDoctor(ctx context.Context, id int64) error {
	return f.deleteDoctorFn(ctx, id)
}

func newUsecase(t *testing.T, repo *fakeRepo) *Usecase {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	return New(Dependency{RepoDB: repo, Validator: v, Instrument: instrument.NewNoop()})
}

func statusOf(err error) int {
	var gerr *goerror.Error
	if errors.As(err, &gerr) {
		return gerr.StatusCode()
	}
	return 0
}

func validDoctor() DoctorInput {
	return DoctorInput{
		FirstName:    " Carlos ",
		LastName:     "Gómez",
		PhoneNumber:  "5559876543",
		Availability: true,
		SpecialtyIDs: []int64{1, 2, 1},
		Addresses:    []AddressInput{{Address: "Av. Reforma", NumberExt: "222"}},
		ImageURLs:    []string{"https://cdn.example.com/a.png", "", "https://cdn.example.com/a.png"},
	}
}

func TestUsecase_GetSpecialty(t *testing.T) {
	tests := []struct {
		name       string
		id         int64
		repoErr    error
		wantStatus int
	}{
		{name: "invalid id", id: 0, wantStatus: http.StatusBadRequest},
		{name: "not found", id: 5, repoErr: goerror.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "repo failure", id: 5, repoErr: errors.New("conn reset"), wantStatus: http.StatusInternalServerError},
		{name: "found", id: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			uc := newUsecase(t, &fakeRepo{
				getSpecialtyFn: func(_ context.Context, id int64) (*entity.Specialty, error) {
					if tt.repoErr != nil {
						return nil, tt.repoErr
					}
					return &entity.Specialty{ID: id, Name: "Cardiología"}, nil
				},
			})

			// Act
			sp, err := uc.GetSpecialty(context.Background(), SpecialtyIDInput{ID: tt.id})

			// Assert
			if tt.wantStatus != 0 {
				if got := statusOf(err); got != tt.wantStatus {
					t.Fatalf("status = %d, want %d (err %v)", got, tt.wantStatus, err)
				}
				return
			}
			if err != nil || sp.ID != tt.id {
				t.Fatalf("got %+v, %v", sp, err)
			}
		})
	}
}

func TestUsecase_CreateSpecialty(t *testing.T) {
	uc := newUsecase(t, &fakeRepo{
		createSpecialtyFn: func(context.Context, entity.Specialty) (int64, error) { return 12, nil },
	})

	if _, err := uc.CreateSpecialty(context.Background(), SpecialtyInput{Name: "C"}); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("err = %v, want validation error", err)
	}

	sp, err := uc.CreateSpecialty(context.Background(), SpecialtyInput{
		Name:        "Cardiología",
		Description: "Corazón",
		ImageURL:    "https://cdn.example.com/c.png",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sp.ID != 12 {
		t.Fatalf("id = %d, want 12", sp.ID)
	}
}

func TestUsecase_DeleteSpecialty(t *testing.T) {
	uc := newUsecase(t, &fakeRepo{
		deleteSpecialtyFn: func(_ context.Context, id int64) error {
			if id == 1 {
				return nil
			}
			return goerror.ErrNotFound
		},
	})

	if err := uc.DeleteSpecialty(context.Background(), SpecialtyIDInput{ID: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.DeleteSpecialty(context.Background(), SpecialtyIDInput{ID: 2}); statusOf(err) != http.StatusNotFound {
		t.Fatalf("err = %v, want 404", err)
	}
}

func TestUsecase_ListDoctors(t *testing.T) {
	var gotLimit int32
	uc := newUsecase(t, &fakeRepo{
		listDoctorsFn: func(_ context.Context, limit int32) ([]entity.Doctor, error) {
			gotLimit = limit
			return []entity.Doctor{{ID: 1}}, nil
		},
	})

	items, err := uc.ListDoctors(context.Background(), ListDoctorsInput{Limit: 3})
	if err != nil || len(items) != 1 || gotLimit != 3 {
		t.Fatalf("items = %v, limit = %d, err = %v", items, gotLimit, err)
	}

	if _, err := uc.ListDoctors(context.Background(), ListDoctorsInput{Limit: -1}); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestUsecase_FilterDoctors(t *testing.T) {
	uc := newUsecase(t, &fakeRepo{
		filterDoctorsFn: func(_ context.Context, specialtyID int64) ([]entity.Doctor, error) {
			if specialtyID == 1 {
				return []entity.Doctor{{ID: 7}}, nil
			}
			return nil, nil
		},
	})

	if _, err := uc.FilterDoctors(context.Background(), FilterDoctorsInput{}); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("missing specialty = %v, want 400", err)
	}
	if _, err := uc.FilterDoctors(context.Background(), FilterDoctorsInput{SpecialtyID: 2}); statusOf(err) != http.StatusNotFound {
		t.Fatalf("empty result = %v, want 404", err)
	}
	items, err := uc.FilterDoctors(context.Background(), FilterDoctorsInput{SpecialtyID: 1})
	if err != nil || len(items) != 1 {
		t.Fatalf("items = %v, err = %v", items, err)
	}
}

func TestUsecase_CreateDoctor(t *testing.T) {
	t.Run("normalizes associations", func(t *testing.T) {
		var got entity.DoctorData
		uc := newUsecase(t, &fakeRepo{
			createDoctorFn: func(_ context.Context, data entity.DoctorData) (int64, error) {
				got = data
				return 10, nil
			},
			getDoctorFn: func(_ context.Context, id int64) (*entity.DoctorDetail, error) {
				return &entity.DoctorDetail{ID: id}, nil
			},
		})

		d, err := uc.CreateDoctor(context.Background(), validDoctor())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.ID != 10 {
			t.Fatalf("id = %d", d.ID)
		}
		if got.FirstName != "Carlos" {
			t.Fatalf("first name = %q", got.FirstName)
		}
		if len(got.SpecialtyIDs) != 2 || len(got.ImageURLs) != 1 {
			t.Fatalf("associations = %+v", got)
		}
	})

	t.Run("validation", func(t *testing.T) {
		uc := newUsecase(t, &fakeRepo{})
		in := validDoctor()
		in.Addresses = nil

		if _, err := uc.CreateDoctor(context.Background(), in); statusOf(err) != http.StatusBadRequest {
			t.Fatalf("err = %v, want 400", err)
		}
	})

	t.Run("unknown specialty", func(t *testing.T) {
		uc := newUsecase(t, &fakeRepo{
			createDoctorFn: func(context.Context, entity.DoctorData) (int64, error) {
				return 0, entity.ErrUnknownSpecialty
			},
		})

		if _, err := uc.CreateDoctor(context.Background(), validDoctor()); statusOf(err) != http.StatusBadRequest {
			t.Fatalf("err = %v, want 400", err)
		}
	})
}

func TestUsecase_DeleteDoctor(t *testing.T) {
	tests := []struct {
		name       string
		repoErr    error
		wantStatus int
	}{
		{name: "deleted"},
		{name: "not found", repoErr: goerror.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "repo failure", repoErr: errors.New("tx aborted"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUsecase(t, &fakeRepo{
				deleteDoctorFn: func(context.Context, int64) error { return tt.repoErr },
			})

			err := uc.DeleteDoctor(context.Background(), DoctorIDInput{ID: 4})
			if got := statusOf(err); got != tt.wantStatus {
				t.Fatalf("status = %d, want %d (err %v)", got, tt.wantStatus, err)
			}
		})
	}
}
