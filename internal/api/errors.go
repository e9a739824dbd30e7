// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package api

import (
	"net/http"

	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
)

// Error is the body of an error response.
type Error struct {
	Code    errors.Status `json:"code"`
	Message string        `json:"message"`
}

// HTTPStatus returns the HTTP status of an error code.
func HTTPStatus(code errors.Status) int {
	if code.Success() {
		return http.StatusOK
	}
	switch code {
	case errors.Unauthorized:
		return http.StatusUnauthorized
	case errors.NotFound,
		errors.NotInitialized,
		errors.EntryNotFound:
		return http.StatusNotFound
	case errors.AlreadyInitialized,
		errors.SequenceMismatch,
		errors.AlreadyClaimed,
		errors.LockNotElapsed:
		return http.StatusConflict
	case errors.InsufficientBalance,
		errors.InsufficientVaultBalance,
		errors.InsufficientStake:
		return http.StatusUnprocessableEntity
	}
	if code.IsClientError() {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.Code(err)
	if code == 0 {
		code = errors.UnknownError
	}

	status := HTTPStatus(code)
	if status >= 500 {
		h.logger.ErrorContext(r.Context(), "Request failed", "error", err, "code", code)
	} else {
		h.logger.DebugContext(r.Context(), "Request rejected", "error", err, "code", code)
	}

	h.respond(w, r, status, &Error{Code: code, Message: err.Error()})
}
