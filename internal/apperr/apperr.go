package apperr

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindAuthorization
	KindValidation
	KindConflict
	KindBusinessRule
	KindConcurrency
	KindRepository
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAuthorization:
		return "authorization"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindBusinessRule:
		return "business_rule"
	case KindConcurrency:
		return "concurrency"
	case KindRepository:
		return "repository"
	}
	return "unknown"
}

// Error is the typed outcome returned by every service operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindRepository {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newf(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) error {
	return newf(KindNotFound, format, args...)
}

func Forbidden(format string, args ...interface{}) error {
	return newf(KindAuthorization, format, args...)
}

func Validation(format string, args ...interface{}) error {
	return newf(KindValidation, format, args...)
}

func Conflict(format string, args ...interface{}) error {
	return newf(KindConflict, format, args...)
}

func BusinessRule(format string, args ...interface{}) error {
	return newf(KindBusinessRule, format, args...)
}

// Concurrency signals a lost optimistic-concurrency race; the caller may retry.
func Concurrency(format string, args ...interface{}) error {
	return newf(KindConcurrency, format, args...)
}

// Wrap turns a lower-level failure into a RepositoryError. Typed errors
// pass through untouched so stores can return NotFound/Conflict directly.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if stderrors.As(err, &ae) {
		return err
	}
	return &Error{Kind: KindRepository, Message: msg, Err: errors.Wrap(err, msg)}
}

// KindOf reports the Kind of err, or KindUnknown for untyped errors.
func KindOf(err error) Kind {
	var ae *Error
	if stderrors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
