package inbound

import (
	"net/http"

	"github.com/samber/lo"
	"github.com/shandysiswandi/prescripto/internal/directory/entity"
	"github.com/shandysiswandi/prescripto/internal/directory/usecase"
)

type SpecialtyRequest struct {
	Name        string `json:"name" example:"Cardiología"`
	Description string `json:"description" example:"Diagnóstico y tratamiento del corazón"`
	ImageURL    string `json:"image_url" example:"https://cdn.example.com/cardio.png"`
}

func (r SpecialtyRequest) input() usecase.SpecialtyInput {
	return usecase.SpecialtyInput{
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
}

type SpecialtyResponse struct {
	ID          int64  `json:"id" example:"1"`
	Name        string `json:"name" example:"Cardiología"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func newSpecialtyResponse(sp entity.Specialty) SpecialtyResponse {
	return SpecialtyResponse{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		ImageURL:    sp.ImageURL,
	}
}

type SpecialtiesResponse struct {
	Specialties []SpecialtyResponse `json:"specialties"`
}

type SpecialtyCreatedResponse struct {
	SpecialtyResponse
}

func (SpecialtyCreatedResponse) StatusCode() int {
	return http.StatusCreated
}

func (SpecialtyCreatedResponse) Message() string {
	return "Specialty created"
}

type AddressPayload struct {
	ID        int64  `json:"id,omitempty" example:"3"`
	Address   string `json:"address" example:"Av. Reforma"`
	NumberExt string `json:"number_ext" example:"222"`
	NumberInt string `json:"number_int" example:"4B"`
}

type DoctorRequest struct {
	FirstName    string           `json:"first_name" example:"Carlos"`
	LastName     string           `json:"last_name" example:"Gómez"`
	PhoneNumber  string           `json:"phone_number" example:"5559876543"`
	Availability bool             `json:"availability" example:"true"`
	SpecialtyIDs []int64          `json:"specialty_ids"`
	Addresses    []AddressPayload `json:"addresses"`
	ImageURLs    []string         `json:"image_urls"`
}

func (r DoctorRequest) input() usecase.DoctorInput {
	return usecase.DoctorInput{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		PhoneNumber:  r.PhoneNumber,
		Availability: r.Availability,
		SpecialtyIDs: r.SpecialtyIDs,
		Addresses: lo.Map(r.Addresses, func(a AddressPayload, _ int) usecase.AddressInput {
			return usecase.AddressInput{Address: a.Address, NumberExt: a.NumberExt, NumberInt: a.NumberInt}
		}),
		ImageURLs: r.ImageURLs,
	}
}

type FilterDoctorsRequest struct {
	SpecialtyID int64 `json:"specialty_id" example:"1"`
}

type DoctorResponse struct {
	ID           int64    `json:"id" example:"10"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	PhoneNumber  string   `json:"phone_number"`
	Availability bool     `json:"availability"`
	Specialties  []string `json:"specialties"`
	ImageURLs    []string `json:"image_urls"`
}

type DoctorsResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
}

func (r DoctorsResponse) Meta() map[string]any {
	return map[string]any{"count": len(r.Doctors)}
}

func newDoctorsResponse(items []entity.Doctor) DoctorsResponse {
	return DoctorsResponse{Doctors: lo.Map(items, func(d entity.Doctor, _ int) DoctorResponse {
		return DoctorResponse{
			ID:           d.ID,
			FirstName:    d.FirstName,
			LastName:     d.LastName,
			PhoneNumber:  d.PhoneNumber,
			Availability: d.Availability,
			Specialties:  d.Specialties,
			ImageURLs:    d.ImageURLs,
		}
	})}
}

type DoctorSpecialtyResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type DoctorDetailResponse struct {
	ID           int64                     `json:"id" example:"10"`
	FirstName    string                    `json:"first_name"`
	LastName     string                    `json:"last_name"`
	PhoneNumber  string                    `json:"phone_number"`
	Availability bool                      `json:"availability"`
	Specialties  []DoctorSpecialtyResponse `json:"specialties"`
	Addresses    []AddressPayload          `json:"addresses"`
	ImageURLs    []string                  `json:"image_urls"`

	status int
}

func (r DoctorDetailResponse) StatusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func newDoctorDetailResponse(d *entity.DoctorDetail, status int) DoctorDetailResponse {
	return DoctorDetailResponse{
		ID:           d.ID,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		PhoneNumber:  d.PhoneNumber,
		Availability: d.Availability,
		Specialties: lo.Map(d.Specialties, func(s entity.DoctorSpecialty, _ int) DoctorSpecialtyResponse {
			return DoctorSpecialtyResponse{ID: s.ID, Name: s.Name}
		}),
		Addresses: lo.Map(d.Addresses, func(a entity.Address, _ int) AddressPayload {
			return AddressPayload{ID: a.ID, Address: a.Address, NumberExt: a.NumberExt, NumberInt: a.NumberInt}
		}),
		ImageURLs: d.ImageURLs,
		status:    status,
	}
}

type DeletedResponse struct {
	msg string
}

func (r DeletedResponse) Message() string {
	return r.msg
}
