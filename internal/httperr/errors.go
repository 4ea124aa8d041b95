// Package httperr defines the error taxonomy shared by the ledger services
// and maps it onto HTTP status codes at the handler boundary.
package httperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	// Validation - malformed or missing required input.
	Validation Kind = iota + 1
	// Conflict - uniqueness violation.
	Conflict
	// NotFound - lookup by id failed.
	NotFound
	// ReferentialIntegrity - deletion blocked by a protected reference.
	ReferentialIntegrity
)

type Error struct {
	Kind    Kind
	Field   string // optional field the message belongs to
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

func Validationf(field, format string, args ...any) *Error {
	return &Error{Kind: Validation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: Conflict, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

func Protectedf(format string, args ...any) *Error {
	return &Error{Kind: ReferentialIntegrity, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Status is the HTTP status code for err's kind.
func (e *Error) Status() int {
	switch e.Kind {
	case Validation:
		return fiber.StatusBadRequest
	case Conflict:
		return fiber.StatusConflict
	case NotFound:
		return fiber.StatusNotFound
	case ReferentialIntegrity:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}
