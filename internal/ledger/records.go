// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package ledger

import (
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/locator"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/record"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/staking"
)

// AdminRecord holds the current administrator.
type AdminRecord struct {
	Admin     staking.Identity `json:"admin" msgpack:"admin"`
	UpdatedAt time.Time        `json:"updatedAt" msgpack:"updatedAt"`
}

// InterestRecord holds the configured interest rate of a token, in basis
// points. The rate is stored and reported, never applied to balances.
type InterestRecord struct {
	Token     staking.TokenID `json:"token" msgpack:"token"`
	Rate      uint64          `json:"rate" msgpack:"rate"`
	UpdatedAt time.Time       `json:"updatedAt" msgpack:"updatedAt"`
}

// PoolRecord is the ledger's view of a token's pool. Staked is the sum of
// every staker's stake and Pending is the part of it that has been requested
// for withdrawal.
type PoolRecord struct {
	Token   staking.TokenID `json:"token" msgpack:"token"`
	Staked  uint64          `json:"staked" msgpack:"staked"`
	Pending uint64          `json:"pending" msgpack:"pending"`
}

// ActionCounter is the sequence cursor and position of a staker for a token.
// Count is the sequence number of the last entry.
type ActionCounter struct {
	Staker  staking.Identity `json:"staker" msgpack:"staker"`
	Token   staking.TokenID  `json:"token" msgpack:"token"`
	Count   uint64           `json:"count" msgpack:"count"`
	Staked  uint64           `json:"staked" msgpack:"staked"`
	Pending uint64           `json:"pending" msgpack:"pending"`
}

// Free returns the stake that is not already requested for withdrawal.
func (c *ActionCounter) Free() uint64 { return c.Staked - c.Pending }

// ActionEntry is one deposit, withdrawal request, or claim. Once written,
// only Confirmed may change, and only from false to true on a withdrawal
// request.
type ActionEntry struct {
	Staker    staking.Identity   `json:"staker" msgpack:"staker"`
	Token     staking.TokenID    `json:"token" msgpack:"token"`
	Sequence  uint64             `json:"sequence" msgpack:"sequence"`
	Amount    uint64             `json:"amount" msgpack:"amount"`
	Kind      staking.ActionKind `json:"kind" msgpack:"kind"`
	Timestamp time.Time          `json:"timestamp" msgpack:"timestamp"`
	Confirmed bool               `json:"confirmed" msgpack:"confirmed"`

	// Ref is the sequence number of the withdrawal request a claim settles.
	Ref uint64 `json:"ref,omitempty" msgpack:"ref,omitempty"`
}

// equalExceptConfirmed reports whether every immutable field matches.
func (e *ActionEntry) equalExceptConfirmed(f *ActionEntry) bool {
	return e.Staker == f.Staker &&
		e.Token == f.Token &&
		e.Sequence == f.Sequence &&
		e.Amount == f.Amount &&
		e.Kind == f.Kind &&
		e.Timestamp.Equal(f.Timestamp) &&
		e.Ref == f.Ref
}

func recordKey(id locator.AccountID) *record.Key {
	return record.NewKey("Ledger", id)
}

// load reads and decodes a record. It returns false if the record does not
// exist.
func load[T any](s keyvalue.Store, id locator.AccountID, v *T) (bool, error) {
	b, err := s.Get(recordKey(id))
	switch {
	case err == nil:
		// Ok
	case errors.Is(err, errors.NotFound):
		return false, nil
	default:
		return false, errors.UnknownError.WithFormat("load %v: %w", id, err)
	}

	err = msgpack.Unmarshal(b, v)
	if err != nil {
		return false, errors.EncodingError.WithFormat("decode %T %v: %w", v, id, err)
	}
	return true, nil
}

func store(s keyvalue.Store, id locator.AccountID, v any) error {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return errors.EncodingError.WithFormat("encode %T %v: %w", v, id, err)
	}
	err = s.Put(recordKey(id), b)
	if err != nil {
		return errors.UnknownError.WithFormat("store %v: %w", id, err)
	}
	return nil
}

func loadCounter(s keyvalue.Store, id locator.AccountID, staker staking.Identity, token staking.TokenID) (*ActionCounter, error) {
	c := &ActionCounter{Staker: staker, Token: token}
	_, err := load(s, id, c)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func loadPool(s keyvalue.Store, id locator.AccountID, token staking.TokenID) (*PoolRecord, error) {
	p := &PoolRecord{Token: token}
	_, err := load(s, id, p)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func loadEntry(s keyvalue.Store, staker staking.Identity, token staking.TokenID, seq uint64) (*ActionEntry, error) {
	id, err := locator.Entry(staker, token, seq)
	if err != nil {
		return nil, err
	}

	e := new(ActionEntry)
	ok, err := load(s, id, e)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.EntryNotFound.WithFormat("%s has no entry %d for %s", staker, seq, token)
	}
	e.Timestamp = e.Timestamp.UTC()
	return e, nil
}

// appendEntry writes an entry into an empty slot.
func appendEntry(s keyvalue.Store, e *ActionEntry) error {
	id, err := locator.Entry(e.Staker, e.Token, e.Sequence)
	if err != nil {
		return err
	}

	ok, err := load(s, id, new(ActionEntry))
	if err != nil {
		return err
	}
	if ok {
		return errors.InternalError.WithFormat("entry %d of %s for %s has already been written", e.Sequence, e.Staker, e.Token)
	}
	return store(s, id, e)
}

// confirmEntry flips the confirmed flag of a withdrawal request. It refuses
// any other change to the stored entry.
func confirmEntry(s keyvalue.Store, e *ActionEntry) error {
	old, err := loadEntry(s, e.Staker, e.Token, e.Sequence)
	if err != nil {
		return err
	}

	switch {
	case !old.equalExceptConfirmed(e):
		return errors.InternalError.WithFormat("entry %d of %s for %s is immutable", e.Sequence, e.Staker, e.Token)
	case old.Kind != staking.ActionKindWithdrawRequest:
		return errors.InternalError.WithFormat("cannot confirm a %v entry", old.Kind)
	case old.Confirmed:
		return errors.InternalError.WithFormat("entry %d of %s for %s is already confirmed", e.Sequence, e.Staker, e.Token)
	}

	f := *old
	f.Confirmed = true
	id, err := locator.Entry(f.Staker, f.Token, f.Sequence)
	if err != nil {
		return err
	}
	return store(s, id, &f)
}
