package errors

import (
	"errors"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// Cart signals. Non-fatal at the store boundary; callers render
	// them as user-facing notices.
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrStockLimitReached = errors.New("maximum stock reached")

	ErrEmptyCart       = errors.New("cart is empty")
	ErrStockChanged    = errors.New("product stock changed since it was added")
	ErrEmptyAuth       = errors.New("missing authorization")
	ErrTokenInvalid    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("session expired")
	ErrUnauthenticated = errors.New("not logged in")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("username already registered")
	ErrWrongPassword   = errors.New("password mismatch")
)

func HandleError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.AddEvent(err.Error())
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}
