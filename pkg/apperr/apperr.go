// Package apperr defines the error kinds shared by the catalog and cart
// services and maps them onto gRPC codes and HTTP statuses.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("conflict")
)

// Error carries a human readable message tagged with one of the kinds above.
type Error struct {
	Kind  error
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return newf(ErrValidation, format, args...)
}

func NotFound(format string, args ...any) error {
	return newf(ErrNotFound, format, args...)
}

func InsufficientStock(format string, args ...any) error {
	return newf(ErrInsufficientStock, format, args...)
}

// Conflict tags a store write conflict; the cause stays reachable through errors.As.
func Conflict(cause error, format string, args ...any) error {
	return &Error{Kind: ErrConflict, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

func IsValidation(err error) bool        { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool          { return errors.Is(err, ErrNotFound) }
func IsInsufficientStock(err error) bool { return errors.Is(err, ErrInsufficientStock) }

// Code maps err onto a gRPC status code.
func Code(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, ErrValidation):
		return codes.InvalidArgument
	case errors.Is(err, ErrNotFound):
		return codes.NotFound
	case errors.Is(err, ErrInsufficientStock):
		return codes.FailedPrecondition
	case errors.Is(err, ErrConflict):
		return codes.Aborted
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	}
	if st, ok := status.FromError(err); ok {
		return st.Code()
	}
	return codes.Internal
}

// HTTPStatus returns the response status, a stable error code and the
// message that is safe to show to a client.
func HTTPStatus(err error) (int, string, string) {
	code := Code(err)
	msg := message(err)

	switch code {
	case codes.InvalidArgument:
		return http.StatusBadRequest, "INVALID_ARGUMENT", msg
	case codes.NotFound:
		return http.StatusNotFound, "NOT_FOUND", msg
	case codes.FailedPrecondition:
		return http.StatusBadRequest, "INSUFFICIENT_STOCK", msg
	case codes.Aborted, codes.AlreadyExists:
		return http.StatusConflict, "CONFLICT", msg
	case codes.Unavailable, codes.DeadlineExceeded:
		return http.StatusServiceUnavailable, "UNAVAILABLE", "service unavailable"
	case codes.Canceled:
		return 499, "CANCELED", "request canceled"
	default:
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}
}

func message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	if st, ok := status.FromError(err); ok {
		return st.Message()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
