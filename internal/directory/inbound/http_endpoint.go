package inbound

import (
	"fmt"
	"net/http"

	"github.com/samber/lo"
	"github.com/shandysiswandi/prescripto/internal/directory/entity"
	"github.com/shandysiswandi/prescripto/internal/directory/usecase"
	"github.com/shandysiswandi/prescripto/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// @Summary List specialties
// @Tags Directory
// @Produce json
// @Success 200 {object} router.successResponse{data=SpecialtiesResponse} "Specialty list"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/specialties [get]
func (h *HTTPEndpoint) ListSpecialties(r *router.Request) (any, error) {
	items, err := h.uc.ListSpecialties(r.Context())
	if err != nil {
		return nil, err
	}

	return SpecialtiesResponse{Specialties: lo.Map(items, func(sp entity.Specialty, _ int) SpecialtyResponse {
		return newSpecialtyResponse(sp)
	})}, nil
}

// @Summary Get specialty
// @Tags Directory
// @Produce json
// @Param id path int true "Specialty ID"
// @Success 200 {object} router.successResponse{data=SpecialtyResponse} "Specialty"
// @Failure 400 {object} router.errorResponse "Invalid path parameter"
// @Failure 404 {object} router.errorResponse "Specialty not found"
// @Router /api/v1/specialties/{id} [get]
func (h *HTTPEndpoint) GetSpecialty(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	sp, err := h.uc.GetSpecialty(r.Context(), usecase.SpecialtyIDInput{ID: id})
	if err != nil {
		return nil, err
	}

	return newSpecialtyResponse(*sp), nil
}

// @Summary Create specialty
// @Tags Directory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body SpecialtyRequest true "Specialty payload"
// @Success 201 {object} router.successResponse{data=SpecialtyResponse} "Specialty created"
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Router /api/v1/specialties [post]
func (h *HTTPEndpoint) CreateSpecialty(r *router.Request) (any, error) {
	var req SpecialtyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	sp, err := h.uc.CreateSpecialty(r.Context(), req.input())
	if err != nil {
		return nil, err
	}

	return SpecialtyCreatedResponse{newSpecialtyResponse(*sp)}, nil
}

// @Summary Update specialty
// @Tags Directory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Specialty ID"
// @Param request body SpecialtyRequest true "Specialty payload"
// @Success 200 {object} router.successResponse{data=SpecialtyResponse} "Specialty updated"
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Specialty not found"
// @Router /api/v1/specialties/{id} [put]
func (h *HTTPEndpoint) UpdateSpecialty(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req SpecialtyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	sp, err := h.uc.UpdateSpecialty(r.Context(), usecase.UpdateSpecialtyInput{
		ID:             id,
		SpecialtyInput: req.input(),
	})
	if err != nil {
		return nil, err
	}

	return newSpecialtyResponse(*sp), nil
}

// @Summary Delete specialty
// @Tags Directory
// @Security BearerAuth
// @Produce json
// @Param id path int true "Specialty ID"
// @Success 200 {object} router.successResponse "Specialty deleted"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Specialty not found"
// @Router /api/v1/specialties/{id} [delete]
func (h *HTTPEndpoint) DeleteSpecialty(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	if err := h.uc.DeleteSpecialty(r.Context(), usecase.SpecialtyIDInput{ID: id}); err != nil {
		return nil, err
	}

	return DeletedResponse{msg: fmt.Sprintf("Specialty %d deleted", id)}, nil
}

// @Summary List doctors
// @Description Doctors with aggregated specialty names and image urls. Without limit every doctor is returned.
// @Tags Directory
// @Produce json
// @Param limit query int false "Maximum number of doctors"
// @Success 200 {object} router.successResponse{data=DoctorsResponse} "Doctor list"
// @Failure 400 {object} router.errorResponse "Invalid query"
// @Router /api/v1/doctors [get]
func (h *HTTPEndpoint) ListDoctors(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}

	items, err := h.uc.ListDoctors(r.Context(), usecase.ListDoctorsInput{Limit: limit})
	if err != nil {
		return nil, err
	}

	return newDoctorsResponse(items), nil
}

// @Summary Get doctor detail
// @Tags Directory
// @Produce json
// @Param id path int true "Doctor ID"
// @Success 200 {object} router.successResponse{data=DoctorDetailResponse} "Doctor detail"
// @Failure 404 {object} router.errorResponse "Doctor not found"
// @Router /api/v1/doctors/{id} [get]
func (h *HTTPEndpoint) GetDoctor(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	d, err := h.uc.GetDoctor(r.Context(), usecase.DoctorIDInput{ID: id})
	if err != nil {
		return nil, err
	}

	return newDoctorDetailResponse(d, http.StatusOK), nil
}

// @Summary Filter doctors by specialty
// @Tags Directory
// @Accept json
// @Produce json
// @Param request body FilterDoctorsRequest true "Filter payload"
// @Success 200 {object} router.successResponse{data=DoctorsResponse} "Doctor list"
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 404 {object} router.errorResponse "No doctors for this specialty"
// @Router /api/v1/doctors/filter [post]
func (h *HTTPEndpoint) FilterDoctors(r *router.Request) (any, error) {
	var req FilterDoctorsRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	items, err := h.uc.FilterDoctors(r.Context(), usecase.FilterDoctorsInput{SpecialtyID: req.SpecialtyID})
	if err != nil {
		return nil, err
	}

	return newDoctorsResponse(items), nil
}

// @Summary Create doctor
// @Tags Directory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body DoctorRequest true "Doctor payload"
// @Success 201 {object} router.successResponse{data=DoctorDetailResponse} "Doctor created"
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Router /api/v1/doctors [post]
func (h *HTTPEndpoint) CreateDoctor(r *router.Request) (any, error) {
	var req DoctorRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	d, err := h.uc.CreateDoctor(r.Context(), req.input())
	if err != nil {
		return nil, err
	}

	return newDoctorDetailResponse(d, http.StatusCreated), nil
}

// @Summary Update doctor
// @Description Replaces profile, specialties and addresses; image urls are appended.
// @Tags Directory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Doctor ID"
// @Param request body DoctorRequest true "Doctor payload"
// @Success 200 {object} router.successResponse{data=DoctorDetailResponse} "Doctor updated"
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Doctor not found"
// @Router /api/v1/doctors/{id} [put]
func (h *HTTPEndpoint) UpdateDoctor(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req DoctorRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	d, err := h.uc.UpdateDoctor(r.Context(), usecase.UpdateDoctorInput{ID: id, DoctorInput: req.input()})
	if err != nil {
		return nil, err
	}

	return newDoctorDetailResponse(d, http.StatusOK), nil
}

// @Summary Delete doctor
// @Description Removes the doctor with its specialties, addresses and images in one transaction.
// @Tags Directory
// @Security BearerAuth
// @Produce json
// @Param id path int true "Doctor ID"
// @Success 200 {object} router.successResponse "Doctor deleted"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Doctor not found"
// @Router /api/v1/doctors/{id} [delete]
func (h *HTTPEndpoint) DeleteDoctor(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	if err := h.uc.DeleteDoctor(r.Context(), usecase.DoctorIDInput{ID: id}); err != nil {
		return nil, err
	}

	return DeletedResponse{msg: fmt.Sprintf("Doctor %d and its related records deleted", id)}, nil
}
