package inbound

import (
	"github.com/shandysiswandi/prescripto/internal/account/usecase"
	"github.com/shandysiswandi/prescripto/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// Register creates a user account and returns a signed access token.
// @Summary Register user
// @Tags Account, Authentication
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration payload"
// @Success 201 {object} router.successResponse{data=RegisterResponse} "User registered"
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 409 {object} router.errorResponse "Email already registered"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleID:    req.RoleID,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{Token: out.Token, User: newUserResponse(out.User)}, nil
}

// @Summary Get user
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} router.successResponse{data=UserResponse} "User"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "User not found"
// @Router /api/v1/users/{id} [get]
func (h *HTTPEndpoint) UserDetail(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	u, err := h.uc.UserDetail(r.Context(), usecase.UserDetailInput{ID: id})
	if err != nil {
		return nil, err
	}

	return newUserResponse(*u), nil
}

// @Summary List users
// @Description Lists users of a role; patients when role_id is omitted.
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Param role_id query int false "Role ID"
// @Success 200 {object} router.successResponse{data=UsersResponse} "Users"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Router /api/v1/users [get]
func (h *HTTPEndpoint) UserList(r *router.Request) (any, error) {
	roleID, err := r.GetQueryInt32("role_id")
	if err != nil {
		return nil, err
	}

	users, err := h.uc.UserList(r.Context(), usecase.UserListInput{RoleID: int64(roleID)})
	if err != nil {
		return nil, err
	}

	return newUsersResponse(users), nil
}

// @Summary Update user
// @Tags Account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body UserUpdateRequest true "User payload"
// @Success 200 {object} router.successResponse{data=UserResponse} "Updated user"
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 409 {object} router.errorResponse "Email already registered"
// @Router /api/v1/users/{id} [put]
func (h *HTTPEndpoint) UserUpdate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req UserUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	u, err := h.uc.UserUpdate(r.Context(), usecase.UserUpdateInput{
		ID:          id,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		RoleID:      req.RoleID,
	})
	if err != nil {
		return nil, err
	}

	return newUserResponse(*u), nil
}

// @Summary Delete user
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} router.successResponse "User deleted"
// @Failure 404 {object} router.errorResponse "User not found"
// @Router /api/v1/users/{id} [delete]
func (h *HTTPEndpoint) UserDelete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	if err := h.uc.UserDelete(r.Context(), usecase.UserDeleteInput{ID: id}); err != nil {
		return nil, err
	}

	return UserDeleteResponse{}, nil
}
