package inbound

import (
	"context"

	"github.com/shandysiswandi/prescripto/internal/account/entity"
	"github.com/shandysiswandi/prescripto/internal/account/usecase"
	"github.com/shandysiswandi/prescripto/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	UserDetail(ctx context.Context, in usecase.UserDetailInput) (*entity.User, error)
	UserList(ctx context.Context, in usecase.UserListInput) ([]entity.User, error)
	UserUpdate(ctx context.Context, in usecase.UserUpdateInput) (*entity.User, error)
	UserDelete(ctx context.Context, in usecase.UserDeleteInput) error
}

var PublicEndpoints = map[string][]string{
	"POST": {"/api/v1/auth/register"},
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/auth/register", end.Register)

	// need authenticated
	r.GET("/api/v1/users", end.UserList)
	r.GET("/api/v1/users/:id", end.UserDetail)
	r.PUT("/api/v1/users/:id", end.UserUpdate)
	r.DELETE("/api/v1/users/:id", end.UserDelete)
}
