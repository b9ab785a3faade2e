// Package apperr holds the error taxonomy shared by services and controllers.
package apperr

import (
	stderrors "errors"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrNotCompleted = errors.New("course not completed")
	ErrStoreFailure = errors.New("store failure")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)

// Error carries a taxonomy kind plus the underlying cause.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return e.Kind == target }

func New(kind error, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Store wraps a persistence error. Record-not-found becomes ErrNotFound and
// duplicate keys become ErrConflict; everything else is a store failure.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return New(ErrNotFound, op, err)
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return New(ErrConflict, op, err)
	default:
		return New(ErrStoreFailure, op, errors.WithStack(err))
	}
}

func NotFound(what string) error {
	return New(ErrNotFound, "", errors.New(what+" not found"))
}

func Invalid(msg string) error {
	return New(ErrInvalidInput, "", errors.New(msg))
}

func Unauthorized(msg string) error {
	return New(ErrUnauthorized, "", errors.New(msg))
}

func Forbidden(msg string) error {
	return New(ErrForbidden, "", errors.New(msg))
}

// KindOf returns the taxonomy kind of err, or nil if it has none.
func KindOf(err error) error {
	for _, k := range []error{ErrUnauthorized, ErrForbidden, ErrNotFound, ErrNotCompleted, ErrInvalidInput, ErrConflict, ErrStoreFailure} {
		if stderrors.Is(err, k) {
			return k
		}
	}
	return nil
}

// FieldErrors maps request field names to validation messages. It matches
// ErrInvalidInput under errors.Is.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (f FieldErrors) Is(target error) bool { return target == ErrInvalidInput }
