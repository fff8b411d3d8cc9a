package aggregates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes write/read failure semantics across the directory aggregates.
type ErrorCode string

const (
	CodeValidation           ErrorCode = "validation"
	CodeMissingRequiredField ErrorCode = "missing_required_field"
	CodeParentNotFound       ErrorCode = "parent_not_found"
	CodeNotFound             ErrorCode = "not_found"
	CodeVocabularyConflict   ErrorCode = "vocabulary_conflict"
	CodeConflict             ErrorCode = "conflict"
	CodePersistence          ErrorCode = "persistence"
	CodeRetryable            ErrorCode = "retryable"
	CodeInternal             ErrorCode = "internal"
)

// Error is the canonical aggregate error wrapper.
type Error struct {
	Code    ErrorCode
	Op      string
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	if e.Field != "" {
		if msg == "" {
			msg = e.Field
		} else {
			msg = e.Field + ": " + msg
		}
	}
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds an aggregate error with explicit code + operation.
func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates an existing error with aggregate error semantics.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

// MissingRequiredField reports a create payload without one of its mandatory fields.
func MissingRequiredField(op, field string) error {
	return &Error{Code: CodeMissingRequiredField, Op: op, Field: field, Message: "required on create"}
}

// ParentNotFound reports an unresolvable parent reference (by id or slug).
func ParentNotFound(op, field, ref string) error {
	return &Error{Code: CodeParentNotFound, Op: op, Field: field, Message: fmt.Sprintf("no row for %q", ref)}
}

func NotFound(op, what, ref string) error {
	return &Error{Code: CodeNotFound, Op: op, Message: fmt.Sprintf("%s %s not found", what, ref)}
}

func Validation(op, field, message string) error {
	return &Error{Code: CodeValidation, Op: op, Field: field, Message: message}
}

// IsCode checks whether err (or wrapped err) carries the given aggregate code.
func IsCode(err error, code ErrorCode) bool {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return false
	}
	return aggErr.Code == code
}

// CodeOf extracts the aggregate error code when available.
func CodeOf(err error) ErrorCode {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return ""
	}
	return aggErr.Code
}

// FieldOf returns the offending field for validation-family errors.
func FieldOf(err error) string {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return ""
	}
	return aggErr.Field
}
