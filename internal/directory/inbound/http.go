package inbound

import (
	"context"

	"github.com/shandysiswandi/prescripto/internal/directory/entity"
	"github.com/shandysiswandi/prescripto/internal/directory/usecase"
	"github.com/shandysiswandi/prescripto/internal/pkg/router"
)

type uc interface {
	ListSpecialties(ctx context.Context) ([]entity.Specialty, error)
	GetSpecialty(ctx context.Context, in usecase.SpecialtyIDInput) (*entity.Specialty, error)
	CreateSpecialty(ctx context.Context, in usecase.SpecialtyInput) (*entity.Specialty, error)
	UpdateSpecialty(ctx context.Context, in usecase.UpdateSpecialtyInput) (*entity.Specialty, error)
	DeleteSpecialty(ctx context.Context, in usecase.SpecialtyIDInput) error

	ListDoctors(ctx context.Context, in usecase.ListDoctorsInput) ([]entity.Doctor, error)
	GetDoctor(ctx context.Context, in usecase.DoctorIDInput) (*entity.DoctorDetail, error)
	FilterDoctors(ctx context.Context, in usecase.FilterDoctorsInput) ([]entity.Doctor, error)
	CreateDoctor(ctx context.Context, in usecase.DoctorInput) (*entity.DoctorDetail, error)
	UpdateDoctor(ctx context.Context, in usecase.UpdateDoctorInput) (*entity.DoctorDetail, error)
	DeleteDoctor(ctx context.Context, in usecase.DoctorIDInput) error
}

// PublicEndpoints are the read routes of the directory.
var PublicEndpoints = map[string][]string{
	"GET": {
		"/api/v1/specialties",
		"/api/v1/specialties/:id",
		"/api/v1/doctors",
		"/api/v1/doctors/:id",
	},
	"POST": {
		"/api/v1/doctors/filter",
	},
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/specialties", end.ListSpecialties)
	r.GET("/api/v1/specialties/:id", end.GetSpecialty)
	r.POST("/api/v1/specialties", end.CreateSpecialty)
	r.PUT("/api/v1/specialties/:id", end.UpdateSpecialty)
	r.DELETE("/api/v1/specialties/:id", end.DeleteSpecialty)

	r.GET("/api/v1/doctors", end.ListDoctors)
	r.GET("/api/v1/doctors/:id", end.GetDoctor)
	r.POST("/api/v1/doctors/filter", end.FilterDoctors)
	r.POST("/api/v1/doctors", end.CreateDoctor)
	r.PUT("/api/v1/doctors/:id", end.UpdateDoctor)
	r.DELETE("/api/v1/doctors/:id", end.DeleteDoctor)
}
