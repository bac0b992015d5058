package goidc

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned by storages when the entity does not exist.
	ErrNotFound = errors.New("entity not found")
	// ErrAlreadyExists is returned by storages when an identifier is already
	// taken. Existing records are never overwritten.
	ErrAlreadyExists = errors.New("entity already exists")
	// ErrExpired is returned when a stored credential is read after its
	// expiry.
	ErrExpired = errors.New("entity expired")
	// ErrNoSigningKey is returned when there is no active key to sign ID
	// tokens with.
	ErrNoSigningKey = errors.New("no signing key available")
)

type ErrorCode string

const (
	ErrorCodeAccessDenied            ErrorCode = "access_denied"
	ErrorCodeInvalidClient           ErrorCode = "invalid_client"
	ErrorCodeInvalidRequest          ErrorCode = "invalid_request"
	ErrorCodeUnsupportedResponseType ErrorCode = "unsupported_response_type"
	ErrorCodeServerError             ErrorCode = "server_error"
	ErrorCodeLoginRequired           ErrorCode = "login_required"
)

func (c ErrorCode) StatusCode() int {
	switch c {
	case ErrorCodeAccessDenied:
		return http.StatusForbidden
	case ErrorCodeInvalidClient, ErrorCodeLoginRequired:
		return http.StatusUnauthorized
	case ErrorCodeServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

type Error struct {
	Code        ErrorCode `json:"error,omitempty"`
	Description string    `json:"error_description,omitempty"`
	wrapped     error     `json:"-"`
}

func NewError(code ErrorCode, desc string) Error {
	return Error{
		Code:        code,
		Description: desc,
	}
}

func (err Error) Error() string {
	if err.wrapped == nil {
		return fmt.Sprintf("%s %s", err.Code, err.Description)
	}

	return fmt.Sprintf("%s %s: %v", err.Code, err.Description, err.wrapped)
}

func (err Error) StatusCode() int {
	return err.Code.StatusCode()
}

func (err Error) Unwrap() error {
	return err.wrapped
}

func WrapError(code ErrorCode, desc string, err error) Error {
	return Error{
		Code:        code,
		Description: desc,
		wrapped:     err,
	}
}
