package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/prescripto/internal/account/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
	"github.com/shandysiswandi/prescripto/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	queryEmailExists = `
SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`

	queryCreateUser = `
INSERT INTO users (email, password, first_name, last_name, role_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING user_id`

	queryGetUser = `
SELECT u.user_id, u.email, u.first_name, u.last_name, COALESCE(u.phone_number, ''),
       u.role_id, COALESCE(r.name, '')
FROM users u
LEFT JOIN roles r ON u.role_id = r.role_id
WHERE u.user_id = $1`

	queryListUsersByRole = `
SELECT u.user_id, u.email, u.first_name, u.last_name, COALESCE(u.phone_number, ''),
       u.role_id, COALESCE(r.name, '')
FROM users u
LEFT JOIN roles r ON u.role_id = r.role_id
WHERE u.role_id = $1
ORDER BY u.user_id`

	queryUpdateUser = `
UPDATE users
SET email = $2, first_name = $3, last_name = $4, phone_number = NULLIF($5, ''), role_id = $6
WHERE user_id = $1`

	queryDeleteUser = `
DELETE FROM users WHERE user_id = $1`
)

type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return goerror.ErrConflict
		case "23503":
			return entity.ErrUnknownRole
		}
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("account.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *DB) EmailExists(ctx context.Context, email string) (exists bool, err error) {
	ctx, span := s.startSpan(ctx, "EmailExists")
	defer func() { s.endSpan(span, err) }()

	err = s.mapError(s.conn.QueryRow(ctx, queryEmailExists, email).Scan(&exists))
	return exists, err
}

// CreateUser inserts the user; a duplicate email maps to goerror.ErrConflict.
func (s *DB) CreateUser(ctx context.Context, u entity.NewUser) (id int64, err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	err = s.conn.QueryRow(ctx, queryCreateUser, u.Email, u.Password, u.FirstName, u.LastName, u.RoleID).Scan(&id)
	if err != nil {
		return 0, s.mapError(err)
	}

	return id, nil
}

func (s *DB) GetUser(ctx context.Context, id int64) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUser")
	defer func() { s.endSpan(span, err) }()

	var u entity.User
	if err := s.conn.QueryRow(ctx, queryGetUser, id).
		Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PhoneNumber, &u.RoleID, &u.RoleName); err != nil {
		return nil, s.mapError(err)
	}

	return &u, nil
}

func (s *DB) ListUsersByRole(ctx context.Context, roleID int64) (_ []entity.User, err error) {
	ctx, span := s.startSpan(ctx, "ListUsersByRole")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryListUsersByRole, roleID)
	if err != nil {
		return nil, s.mapError(err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.User, error) {
		var u entity.User
		err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PhoneNumber, &u.RoleID, &u.RoleName)
		return u, err
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return users, nil
}

// UpdateUser replaces the editable columns; a taken email maps to goerror.ErrConflict.
func (s *DB) UpdateUser(ctx context.Context, u entity.UserUpdate) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUser")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryUpdateUser, u.ID, u.Email, u.FirstName, u.LastName, u.PhoneNumber, u.RoleID)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (s *DB) DeleteUser(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteUser")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryDeleteUser, id)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
