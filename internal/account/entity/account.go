package entity

import "errors"

// ErrUnknownRole is returned when a user references a missing role.
var ErrUnknownRole = errors.New("account: unknown role")

type User struct {
	ID          int64
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	RoleID      int64
	RoleName    string
}

type NewUser struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	RoleID    int64
}

type UserUpdate struct {
	ID          int64
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	RoleID      int64
}
