package inbound

import (
	"net/http"

	"github.com/samber/lo"
	"github.com/shandysiswandi/prescripto/internal/account/entity"
)

type RegisterRequest struct {
	Email     string `json:"email" example:"ana@example.com"`
	Password  string `json:"password" example:"S3cure-pass"`
	FirstName string `json:"first_name" example:"Ana"`
	LastName  string `json:"last_name" example:"López"`
	RoleID    int64  `json:"role_id" example:"2"`
}

type UserResponse struct {
	ID          int64  `json:"id,string" example:"42"`
	Email       string `json:"email" example:"ana@example.com"`
	FirstName   string `json:"first_name" example:"Ana"`
	LastName    string `json:"last_name" example:"López"`
	PhoneNumber string `json:"phone_number,omitempty"`
	RoleID      int64  `json:"role_id" example:"2"`
	RoleName    string `json:"role_name,omitempty" example:"patient"`
}

func newUserResponse(u entity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		RoleID:      u.RoleID,
		RoleName:    u.RoleName,
	}
}

type RegisterResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func (RegisterResponse) StatusCode() int {
	return http.StatusCreated
}

func (RegisterResponse) Message() string {
	return "User registered successfully"
}

type UsersResponse struct {
	Users []UserResponse `json:"users"`
}

func (r UsersResponse) Meta() map[string]any {
	return map[string]any{"count": len(r.Users)}
}

func newUsersResponse(users []entity.User) UsersResponse {
	return UsersResponse{Users: lo.Map(users, func(u entity.User, _ int) UserResponse {
		return newUserResponse(u)
	})}
}

type UserUpdateRequest struct {
	Email       string `json:"email" example:"ana@example.com"`
	FirstName   string `json:"first_name" example:"Ana"`
	LastName    string `json:"last_name" example:"López"`
	PhoneNumber string `json:"phone_number" example:"5551234567"`
	RoleID      int64  `json:"role_id" example:"2"`
}

type UserDeleteResponse struct{}

func (UserDeleteResponse) Message() string {
	return "User deleted successfully"
}
