package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Code   string
	Err    error
	// Fields carries per-field validation messages.
	Fields map[string]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(fields map[string]string) *Error {
	return &Error{
		Status: http.StatusBadRequest,
		Code:   "validation_failed",
		Err:    errors.New("request validation failed"),
		Fields: fields,
	}
}

func NotFound(code string, err error) *Error {
	return New(http.StatusNotFound, code, err)
}

// As unwraps err into an *Error, falling back to a 500 with the given code.
func As(err error, fallbackCode string) *Error {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		if ae.Status == 0 {
			ae.Status = http.StatusInternalServerError
		}
		return ae
	}
	return New(http.StatusInternalServerError, fallbackCode, err)
}
