package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/prescripto/internal/account/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
)

// RolePatient is the role listed when no role filter is given.
const RolePatient int64 = 2

type (
	UserDetailInput struct {
		ID int64 `validate:"required,gt=0"`
	}

	UserListInput struct {
		RoleID int64 `validate:"gte=0"`
	}

	UserUpdateInput struct {
		ID          int64  `validate:"required,gt=0"`
		Email       string `validate:"required,email"`
		FirstName   string `validate:"required,max=100"`
		LastName    string `validate:"required,max=100"`
		PhoneNumber string `validate:"required,phone"`
		RoleID      int64  `validate:"required,gt=0"`
	}

	UserDeleteInput struct {
		ID int64 `validate:"required,gt=0"`
	}
)

func (s *Usecase) UserDetail(ctx context.Context, in UserDetailInput) (*entity.User, error) {
	ctx, span := s.startSpan(ctx, "UserDetail")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUser(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user not found", "user_id", in.ID)
		return nil, goerror.NewBusiness("user not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return user, nil
}

func (s *Usecase) UserList(ctx context.Context, in UserListInput) ([]entity.User, error) {
	ctx, span := s.startSpan(ctx, "UserList")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if in.RoleID == 0 {
		in.RoleID = RolePatient
	}

	users, err := s.repoDB.ListUsersByRole(ctx, in.RoleID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list users", "role_id", in.RoleID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return users, nil
}

func (s *Usecase) UserUpdate(ctx context.Context, in UserUpdateInput) (*entity.User, error) {
	ctx, span := s.startSpan(ctx, "UserUpdate")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	err := s.repoDB.UpdateUser(ctx, entity.UserUpdate{
		ID:          in.ID,
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
		RoleID:      in.RoleID,
	})
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("user not found", goerror.CodeNotFound)
	}
	if errors.Is(err, goerror.ErrConflict) {
		return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
	}
	if errors.Is(err, entity.ErrUnknownRole) {
		return nil, goerror.NewInvalidInput(nil, "role_id", "role_id does not exist")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update user", "user_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	user, err := s.repoDB.GetUser(ctx, in.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get updated user", "user_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return user, nil
}

func (s *Usecase) UserDelete(ctx context.Context, in UserDeleteInput) error {
	ctx, span := s.startSpan(ctx, "UserDelete")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	err := s.repoDB.DeleteUser(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("user not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete user", "user_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
