// Package apperr holds the error kinds shared by the POS core. Callers classify
// failures with errors.Is against the sentinels below.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrDuplicateName       = errors.New("duplicate name")
	ErrNotFound            = errors.New("not found")
	ErrProductInUse        = errors.New("product referenced by transactions")
	ErrForbidden           = errors.New("forbidden")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrConflict            = errors.New("conflicting request in progress")
	ErrSystem              = errors.New("system error")
)

// Error is a classified failure with a message safe to show to a cashier.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Kind.Error()
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func New(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return New(ErrValidation, format, args...)
}

func NotFound(format string, args ...any) error {
	return New(ErrNotFound, format, args...)
}

// System wraps an unexpected persistence failure. The message never carries
// the cause; Unwrap does.
func System(op string, err error) error {
	return &Error{Kind: ErrSystem, Msg: "terjadi kesalahan sistem", Err: fmt.Errorf("%s: %w", op, err)}
}

// StockError names the product whose current stock cannot cover a request.
type StockError struct {
	ProductID int64
	Name      string
	Required  int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stok %s tidak mencukupi (stok=%d, minta=%d)", e.Name, e.Available, e.Required)
}

func (e *StockError) Is(target error) bool { return target == ErrInsufficientStock }

// Message returns the human readable text of err, hiding system internals.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Error()
	}
	var se *StockError
	if errors.As(err, &se) {
		return se.Error()
	}
	return "terjadi kesalahan sistem"
}
