package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/prescripto/internal/account/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
	"github.com/shandysiswandi/prescripto/internal/pkg/jwt"
)

type (
	RegisterInput struct {
		Email     string `validate:"required,email"`
		Password  string `validate:"required,password"`
		FirstName string `validate:"required,max=100"`
		LastName  string `validate:"required,max=100"`
		// Any seeded role is accepted, admin included.
		RoleID    int64  `validate:"required,gt=0"`
	}

	RegisterOutput struct {
		Token string
		User  entity.User
	}
)

func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	exists, err := s.repoDB.EmailExists(ctx, in.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}
	if exists {
		return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
	}

	hashedPassword, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	id, err := s.repoDB.CreateUser(ctx, entity.NewUser{
		Email:     in.Email,
		Password:  string(hashedPassword),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		RoleID:    in.RoleID,
	})
	if errors.Is(err, goerror.ErrConflict) {
		return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
	}
	if errors.Is(err, entity.ErrUnknownRole) {
		return nil, goerror.NewInvalidInput(nil, "role_id", "role_id does not exist")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create user", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	token, err := s.jwt.Generate(jwt.Subject{UserID: id, Email: in.Email, RoleID: in.RoleID})
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate token", "user_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RegisterOutput{
		Token: token,
		User: entity.User{
			ID:        id,
			Email:     in.Email,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			RoleID:    in.RoleID,
		},
	}, nil
}
