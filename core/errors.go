package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// NotFoundError means a referenced resource does not exist.
type NotFoundError struct {
	msg string
}

func NewNotFoundError(msg string) *NotFoundError {
	return &NotFoundError{msg}
}

func (err *NotFoundError) Error() string { return err.msg }

// ConflictError means the resource (relation) already exists.
type ConflictError struct {
	msg string
}

func NewConflictError(msg string) *ConflictError {
	return &ConflictError{msg}
}

func (err *ConflictError) Error() string { return err.msg }

type ArgumentKind int

const (
	MissingField ArgumentKind = iota + 1
	InvalidParameter
	InvalidRole
)

// ArgumentError reports bad request input.
type ArgumentError struct {
	Kind ArgumentKind
	msg  string
}

func NewMissingFieldError(field string) *ArgumentError {
	return &ArgumentError{Kind: MissingField, msg: "Missing required field: " + field}
}

func NewInvalidParameterError(format string, args ...interface{}) *ArgumentError {
	return &ArgumentError{Kind: InvalidParameter, msg: fmt.Sprintf(format, args...)}
}

func NewInvalidRoleError(msg string) *ArgumentError {
	return &ArgumentError{Kind: InvalidRole, msg: msg}
}

func (err *ArgumentError) Error() string { return err.msg }

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

func IsConflict(err error) bool {
	_, ok := errors.Cause(err).(*ConflictError)
	return ok
}

// IsArgumentKind reports whether err is an ArgumentError of the given kind.
func IsArgumentKind(err error, kind ArgumentKind) bool {
	aErr, ok := errors.Cause(err).(*ArgumentError)
	return ok && aErr.Kind == kind
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
