// Package goerror carries the user-facing message and HTTP mapping of an
// error from the usecase layer to the router.
package goerror

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors returned by outbound repositories.
var (
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("resource conflict")
)

// Code selects the HTTP status of an Error.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	CodeConflict
	CodeTooManyRequest
	CodeUnauthorized
	// CodeDeliveryFailed marks a notification channel (SMTP, SMS gateway) that
	// did not accept a message.
	CodeDeliveryFailed
)

var codes = map[Code]struct {
	name   string
	status int
}{
	CodeInternal:       {"ERROR_CODE_INTERNAL", http.StatusInternalServerError},
	CodeInvalidFormat:  {"ERROR_CODE_INVALID_FORMAT", http.StatusBadRequest},
	CodeInvalidInput:   {"ERROR_CODE_INVALID_INPUT", http.StatusBadRequest},
	CodeNotFound:       {"ERROR_CODE_NOT_FOUND", http.StatusNotFound},
	CodeConflict:       {"ERROR_CODE_CONFLICT", http.StatusConflict},
	CodeTooManyRequest: {"ERROR_CODE_TOO_MANY_REQUESTS", http.StatusTooManyRequests},
	CodeUnauthorized:   {"ERROR_CODE_UNAUTHORIZED", http.StatusUnauthorized},
	CodeDeliveryFailed: {"ERROR_CODE_DELIVERY_FAILED", http.StatusInternalServerError},
}

func (c Code) String() string {
	if m, ok := codes[c]; ok {
		return m.name
	}
	return codes[CodeInternal].name
}

// Error pairs an optional cause with the message shown to the client.
// Error() reports the cause when there is one so logs keep the detail
// while responses only ever show Msg().
type Error struct {
	cause  error
	msg    string
	code   Code
	fields map[string]string
}

func (e *Error) Error() string {
	switch {
	case e.cause != nil:
		return e.cause.Error()
	case e.msg != "":
		return e.msg
	default:
		return e.code.String()
	}
}

// String is the verbose form used in log lines.
func (e *Error) String() string {
	return fmt.Sprintf("%s: %s (cause: %v)", e.code, e.msg, e.cause)
}

func (e *Error) Msg() string               { return e.msg }
func (e *Error) Code() Code                { return e.code }
func (e *Error) Fields() map[string]string { return e.fields }
func (e *Error) Unwrap() error             { return e.cause }

// StatusCode is the HTTP status the router answers with.
func (e *Error) StatusCode() int {
	if m, ok := codes[e.code]; ok {
		return m.status
	}
	return http.StatusInternalServerError
}

// NewServer hides err behind a generic 500 message.
func NewServer(err error) error {
	return &Error{cause: err, msg: "Internal server error", code: CodeInternal}
}

// NewDelivery reports a failed notification channel. msg is sent to the
// client as is and must never contain the delivered secret.
func NewDelivery(err error, msg string) error {
	return &Error{cause: err, msg: msg, code: CodeDeliveryFailed}
}

// NewBusiness reports a rule violation such as a missing or duplicate record.
func NewBusiness(msg string, code Code) error {
	return &Error{msg: msg, code: code}
}

// NewInvalidInput wraps a validator error, or, with a nil err, builds the
// field map from field/message pairs. An odd pair count is treated as a
// malformed request.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return &Error{cause: err, msg: "Validation error", code: CodeInvalidInput}
	}
	if len(kv)%2 != 0 {
		return NewInvalidFormat()
	}

	fields := make(map[string]string, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}
	return &Error{msg: "Validation error", code: CodeInvalidInput, fields: fields}
}

// NewInvalidFormat reports a body or parameter that could not be parsed.
func NewInvalidFormat(msg ...string) error {
	m := "Invalid request body"
	if len(msg) > 0 {
		m = msg[0]
	}
	return &Error{msg: m, code: CodeInvalidFormat}
}
