// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package api

import (
	"net/http"

	"github.com/google/uuid"
	"gitlab.com/accumulatenetwork/stakeledger/internal/logging"
)

// RequestIDHeader carries the id of a request. A client may supply one.
const RequestIDHeader = "X-Request-Id"

// requestID tags the request context with an id so every log line of the
// request carries it.
func (h *handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := logging.With(r.Context(), "request", id)
		h.logger.DebugContext(ctx, "Request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
