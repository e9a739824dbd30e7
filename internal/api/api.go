// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package api serves the staking ledger over HTTP and JSON.
//
// The caller of an operation is named by the X-Staker header. Errors are
// rendered as {"code": ..., "message": ...} with an HTTP status derived from
// the error's status code.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gitlab.com/accumulatenetwork/stakeledger/internal/ledger"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/custodian"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/locator"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/staking"
)

// CallerHeader names the identity of the caller.
const CallerHeader = "X-Staker"

type Options struct {
	Ledger *ledger.Ledger

	// Bank enables the mint route when it is set.
	Bank *custodian.Bank

	// Metrics mounts the prometheus handler at /metrics.
	Metrics bool

	// Logger defaults to [slog.Default].
	Logger *slog.Logger
}

type handler struct {
	ledger *ledger.Ledger
	bank   *custodian.Bank
	logger *slog.Logger
}

// NewHandler returns the router of the ledger API.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Ledger == nil {
		return nil, errors.BadRequest.With("missing ledger")
	}

	h := new(handler)
	h.ledger = opts.Ledger
	h.bank = opts.Bank
	h.logger = opts.Logger
	if h.logger == nil {
		h.logger = slog.Default()
	}
	h.logger = h.logger.With("module", "api")

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.requestID)

	r.Post("/admin/init", h.initializeAdmin)
	r.Post("/admin", h.updateAdmin)
	r.Get("/admin", h.getAdmin)

	r.Route("/tokens/{token}", func(r chi.Router) {
		r.Put("/interest", h.setInterestRate)
		r.Get("/interest", h.getInterestRate)
		r.Post("/actions", h.performAction)
		r.Post("/claims", h.claimWithdrawal)
		r.Post("/rescue", h.adminRescue)
		r.Get("/pool", h.getPool)
		r.Get("/stakers/{staker}", h.getPosition)
		r.Get("/stakers/{staker}/entries", h.listEntries)
		if h.bank != nil {
			r.Post("/mint", h.mint)
		}
	})

	if opts.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r, nil
}

type adminRequest struct {
	Admin staking.Identity `json:"admin"`
}

type rateRequest struct {
	Rate int64 `json:"rate"`
}

// actionRequest and the other requests carry signed amounts so that a
// negative amount is reported as an invalid amount rather than a malformed
// request.
type actionRequest struct {
	Amount   int64  `json:"amount"`
	Deposit  bool   `json:"deposit"`
	Sequence uint64 `json:"sequence"`
}

type claimRequest struct {
	Amount   int64  `json:"amount"`
	Sequence uint64 `json:"sequence"`
}

type rescueRequest struct {
	Amount int64 `json:"amount"`
}

type mintRequest struct {
	Owner  staking.Identity `json:"owner"`
	Amount int64            `json:"amount"`
}

type balanceResponse struct {
	Account locator.AccountID `json:"account"`
	Balance uint64            `json:"balance"`
}

func (h *handler) initializeAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminRequest
	if !h.decode(w, r, &req) {
		return
	}
	err := h.ledger.InitializeAdmin(r.Context(), req.Admin)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, req)
}

func (h *handler) updateAdmin(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req adminRequest
	if !h.decode(w, r, &req) {
		return
	}
	err := h.ledger.UpdateAdmin(r.Context(), caller, req.Admin)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, req)
}

func (h *handler) getAdmin(w http.ResponseWriter, r *http.Request) {
	admin, err := h.ledger.GetAdmin(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, adminRequest{Admin: admin})
}

func (h *handler) setInterestRate(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req rateRequest
	if !h.decode(w, r, &req) {
		return
	}
	token := tokenParam(r)
	err := h.ledger.SetInterestRate(r.Context(), caller, token, req.Rate)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.getInterestRate(w, r)
}

func (h *handler) getInterestRate(w http.ResponseWriter, r *http.Request) {
	rec, err := h.ledger.GetInterest(r.Context(), tokenParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, rec)
}

func (h *handler) performAction(w http.ResponseWriter, r *http.Request) {
	staker, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req actionRequest
	if !h.decode(w, r, &req) {
		return
	}
	amount, ok := h.amount(w, r, req.Amount)
	if !ok {
		return
	}
	entry, err := h.ledger.PerformAction(r.Context(), staker, amount, tokenParam(r), req.Deposit, req.Sequence)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, entry)
}

func (h *handler) claimWithdrawal(w http.ResponseWriter, r *http.Request) {
	staker, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req claimRequest
	if !h.decode(w, r, &req) {
		return
	}
	amount, ok := h.amount(w, r, req.Amount)
	if !ok {
		return
	}
	entry, err := h.ledger.ClaimWithdrawal(r.Context(), staker, tokenParam(r), amount, req.Sequence)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, entry)
}

func (h *handler) adminRescue(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req rescueRequest
	if !h.decode(w, r, &req) {
		return
	}
	amount, ok := h.amount(w, r, req.Amount)
	if !ok {
		return
	}
	err := h.ledger.AdminRescue(r.Context(), caller, tokenParam(r), amount)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) getPool(w http.ResponseWriter, r *http.Request) {
	pool, err := h.ledger.GetPool(r.Context(), tokenParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, pool)
}

func (h *handler) getPosition(w http.ResponseWriter, r *http.Request) {
	pos, err := h.ledger.GetPosition(r.Context(), stakerParam(r), tokenParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, pos)
}

func (h *handler) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledger.ListEntries(r.Context(), stakerParam(r), tokenParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []*ledger.ActionEntry{}
	}
	h.respond(w, r, http.StatusOK, entries)
}

func (h *handler) mint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Owner == "" {
		h.fail(w, r, errors.BadRequest.With("missing owner"))
		return
	}
	amount, ok := h.amount(w, r, req.Amount)
	if !ok {
		return
	}
	account, err := locator.AssetAccount(req.Owner, tokenParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	err = h.bank.Mint(r.Context(), account, amount)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	balance, err := h.bank.Balance(r.Context(), account)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, balanceResponse{Account: account, Balance: balance})
}

func tokenParam(r *http.Request) staking.TokenID {
	return staking.TokenID(chi.URLParam(r, "token"))
}

func stakerParam(r *http.Request) staking.Identity {
	return staking.Identity(chi.URLParam(r, "staker"))
}

func (h *handler) caller(w http.ResponseWriter, r *http.Request) (staking.Identity, bool) {
	caller := r.Header.Get(CallerHeader)
	if caller == "" {
		h.fail(w, r, errors.Unauthorized.WithFormat("missing %s header", CallerHeader))
		return "", false
	}
	return staking.Identity(caller), true
}

func (h *handler) amount(w http.ResponseWriter, r *http.Request, v int64) (uint64, bool) {
	if v < 0 {
		h.fail(w, r, errors.InvalidAmount.WithFormat("amount must not be negative, got %d", v))
		return 0, false
	}
	return uint64(v), true
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err != nil {
		h.fail(w, r, errors.BadRequest.WithFormat("decode request: %w", err))
		return false
	}
	return true
}

func (h *handler) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to write response", "error", err)
	}
}
