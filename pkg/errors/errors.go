// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Success returns true if the status represents success.
func (s Status) Success() bool { return s < 300 }

// IsKnownError returns true if the status is non-zero and not UnknownError.
func (s Status) IsKnownError() bool { return s != 0 && s != UnknownError }

// IsClientError returns true if the status is a client error.
func (s Status) IsClientError() bool { return s >= 400 && s < 500 }

// IsServerError returns true if the status is a server error.
func (s Status) IsServerError() bool { return s >= 500 }

// Error implements error.
func (s Status) Error() string { return s.String() }

// Wrap attaches the status to err. Wrap returns nil if err is nil. Wrapping
// with UnknownError returns an [*Error] unchanged.
func (s Status) Wrap(err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok && !s.IsKnownError() {
		return e
	}
	return s.caused(toError(err), "")
}

// With returns an error with the status and a message built by fmt.Sprint.
func (s Status) With(v ...interface{}) *Error {
	return &Error{Code: s, Message: fmt.Sprint(v...)}
}

// WithFormat returns an error with the status and a formatted message. If
// the format wraps an error with %w, that error becomes the cause.
func (s Status) WithFormat(format string, args ...interface{}) *Error {
	err := fmt.Errorf(format, args...)
	if cause := errors.Unwrap(err); cause != nil {
		return s.caused(toError(cause), err.Error())
	}
	return &Error{Code: s, Message: err.Error()}
}

// WithCauseAndFormat returns an error with the status, a formatted message,
// and the given cause.
func (s Status) WithCauseAndFormat(cause error, format string, args ...interface{}) *Error {
	return s.caused(toError(cause), fmt.Sprintf(format, args...))
}

// caused builds an error with a cause. An unknown status takes the code of
// the cause.
func (s Status) caused(cause *Error, msg string) *Error {
	e := &Error{Code: s, Message: msg, Cause: cause}
	if !s.IsKnownError() && cause != nil {
		e.Code = cause.Code
	}
	return e
}

// toError converts err to an [*Error], preserving any status it carries.
func toError(err error) *Error {
	if err == nil {
		return &Error{Code: UnknownError, Message: "(nil)"}
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var s Status
	if errors.As(err, &s) {
		return &Error{Code: s, Message: err.Error()}
	}
	e = &Error{Code: UnknownError, Message: err.Error()}
	if cause := errors.Unwrap(err); cause != nil {
		e.Cause = toError(cause)
	}
	return e
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Cause != nil:
		return e.Cause.Error()
	default:
		return e.Code.String()
	}
}

func (e *Error) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Code
}

// Format implements [fmt.Formatter]. %+v prints each link of the causal
// chain on its own line, prefixed with its status.
func (e *Error) Format(f fmt.State, verb rune) {
	if !f.Flag('+') {
		_, _ = f.Write([]byte(e.Error()))
		return
	}
	var lines []string
	for c := e; c != nil; c = c.Cause {
		msg := c.Message
		if msg == "" {
			msg = c.Code.String()
		}
		lines = append(lines, fmt.Sprintf("[%v] %s", c.Code, msg))
	}
	_, _ = f.Write([]byte(strings.Join(lines, "\n")))
}

func (e *Error) Is(target error) bool {
	var code Status
	switch t := target.(type) {
	case *Error:
		code = t.Code
	case Status:
		code = t
	default:
		return false
	}
	for c := e; c != nil; c = c.Cause {
		if c.Code == code {
			return true
		}
	}
	return false
}
