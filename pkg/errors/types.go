// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package errors

import (
	"fmt"
	"strings"
)

// Status is a request status code.
type Status uint64

const (
	// OK means the request completed successfully.
	OK Status = 200

	// BadRequest means the request was malformed.
	BadRequest Status = 400
	// Unauthorized means the caller is not allowed to perform the operation.
	Unauthorized Status = 401
	// NotFound means a record does not exist.
	NotFound Status = 404
	// AlreadyInitialized means a singleton record has already been created.
	AlreadyInitialized Status = 409
	// NotInitialized means a singleton record has not been created yet.
	NotInitialized Status = 412

	// InvalidAmount means an amount is zero or would overflow.
	InvalidAmount Status = 420
	// InvalidRate means an interest rate is negative.
	InvalidRate Status = 421
	// InvalidLocator means a locator namespace or key part is malformed.
	InvalidLocator Status = 422

	// InsufficientBalance means the staker's asset account cannot cover the amount.
	InsufficientBalance Status = 430
	// InsufficientVaultBalance means the pool vault cannot cover the amount.
	InsufficientVaultBalance Status = 431
	// InsufficientStake means the staker's free stake cannot cover a withdrawal request.
	InsufficientStake Status = 432

	// SequenceMismatch means the expected sequence number is not the next one.
	SequenceMismatch Status = 440
	// EntryNotFound means no action entry exists at the given sequence.
	EntryNotFound Status = 441
	// WrongKind means the action entry is not a withdrawal request.
	WrongKind Status = 442
	// AmountMismatch means the claimed amount differs from the requested amount.
	AmountMismatch Status = 443
	// AlreadyClaimed means the withdrawal request has already been settled.
	AlreadyClaimed Status = 444
	// LockNotElapsed means the withdrawal request is still locked.
	LockNotElapsed Status = 445

	// InternalError means something went wrong that should not have.
	InternalError Status = 500
	// UnknownError means the cause of the error is not known.
	UnknownError Status = 501
	// EncodingError means a record could not be encoded or decoded.
	EncodingError Status = 502
)

var statusNames = map[Status]string{
	OK:                       "ok",
	BadRequest:               "badRequest",
	Unauthorized:             "unauthorized",
	NotFound:                 "notFound",
	AlreadyInitialized:       "alreadyInitialized",
	NotInitialized:           "notInitialized",
	InvalidAmount:            "invalidAmount",
	InvalidRate:              "invalidRate",
	InvalidLocator:           "invalidLocator",
	InsufficientBalance:      "insufficientBalance",
	InsufficientVaultBalance: "insufficientVaultBalance",
	InsufficientStake:        "insufficientStake",
	SequenceMismatch:         "sequenceMismatch",
	EntryNotFound:            "entryNotFound",
	WrongKind:                "wrongKind",
	AmountMismatch:           "amountMismatch",
	AlreadyClaimed:           "alreadyClaimed",
	LockNotElapsed:           "lockNotElapsed",
	InternalError:            "internalError",
	UnknownError:             "unknownError",
	EncodingError:            "encodingError",
}

var statusByName = func() map[string]Status {
	m := make(map[string]Status, len(statusNames))
	for s, n := range statusNames {
		m[strings.ToLower(n)] = s
	}
	return m
}()

// String returns the name of the status.
func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Status:%d", uint64(s))
}

// StatusByName looks up a status by name, case-insensitively.
func StatusByName(name string) (Status, bool) {
	s, ok := statusByName[strings.ToLower(name)]
	return s, ok
}

// MarshalText implements [encoding.TextMarshaler].
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Status) UnmarshalText(b []byte) error {
	v, ok := StatusByName(string(b))
	if !ok {
		return fmt.Errorf("%q is not a valid status", b)
	}
	*s = v
	return nil
}

// Error is an error with a status code and an optional cause.
type Error struct {
	Message string `json:"message,omitempty"`
	Code    Status `json:"code,omitempty"`
	Cause   *Error `json:"cause,omitempty"`
}
