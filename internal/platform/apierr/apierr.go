package apierr

import (
	"fmt"
	"net/http"
)

// Error carries an HTTP status and a stable machine code for one failed request.
type Error struct {
	Status int
	Code   string
	// Field names the offending payload field, when there is one.
	Field string
	Err   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Code
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = fmt.Sprintf("api error (%d)", e.Status)
	}
	if e.Field != "" {
		return e.Field + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// BadRequest is a 400 for input the handler rejected before reaching a service.
func BadRequest(code string, err error) *Error {
	return New(http.StatusBadRequest, code, err)
}

// WithField returns a copy of e tagged with field.
func (e *Error) WithField(field string) *Error {
	cp := *e
	cp.Field = field
	return &cp
}
