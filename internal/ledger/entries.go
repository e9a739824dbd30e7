// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package ledger

import (
	"context"
	"iter"

	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/locator"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/staking"
)

// Entries iterates over a staker's entries for a token in ascending sequence
// order. Entries are read lazily and each iteration starts over from
// sequence 1. If an entry cannot be read, the iterator yields the error and
// stops.
//
// The walk holds no lock. The count is read once at the start, and an action
// that commits during the walk may show through: a request can be reported as
// confirmed while the claim that confirmed it lies past the count. Use
// [Ledger.ListEntries] for a consistent view.
func (l *Ledger) Entries(ctx context.Context, staker staking.Identity, token staking.TokenID) iter.Seq2[*ActionEntry, error] {
	return func(yield func(*ActionEntry, error) bool) {
		id, err := locator.Counter(staker, token)
		if err != nil {
			yield(nil, err)
			return
		}

		batch := l.db.Begin(nil, false)
		defer batch.Discard()
		l.walk(ctx, batch, id, staker, token, yield)
	}
}

// ListEntries returns every entry of a staker for a token, in ascending
// sequence order. It holds the staker's counter lock while reading, so no
// action of the staker commits in between.
func (l *Ledger) ListEntries(ctx context.Context, staker staking.Identity, token staking.TokenID) ([]*ActionEntry, error) {
	id, err := locator.Counter(staker, token)
	if err != nil {
		return nil, err
	}

	unlock, err := l.locks.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	batch := l.db.Begin(nil, false)
	defer batch.Discard()

	var entries []*ActionEntry
	l.walk(ctx, batch, id, staker, token, func(e *ActionEntry, walkErr error) bool {
		if walkErr != nil {
			err = walkErr
			return false
		}
		entries = append(entries, e)
		return true
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (l *Ledger) walk(ctx context.Context, batch keyvalue.Store, id locator.AccountID, staker staking.Identity, token staking.TokenID, yield func(*ActionEntry, error) bool) {
	counter, err := loadCounter(batch, id, staker, token)
	if err != nil {
		yield(nil, err)
		return
	}

	for seq := uint64(1); seq <= counter.Count; seq++ {
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}

		entry, err := loadEntry(batch, staker, token, seq)
		if err != nil {
			// Sequence numbers are contiguous so a missing entry is
			// corruption
			if errors.Is(err, errors.EntryNotFound) {
				err = errors.InternalError.WithFormat("entry %d of %s for %s is missing", seq, staker, token)
			}
			yield(nil, err)
			return
		}
		if !yield(entry, nil) {
			return
		}
	}
}

// GetEntry returns a staker's entry for a token at a sequence number.
func (l *Ledger) GetEntry(ctx context.Context, staker staking.Identity, token staking.TokenID, seq uint64) (*ActionEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch := l.db.Begin(nil, false)
	defer batch.Discard()
	return loadEntry(batch, staker, token, seq)
}

// Position is a staker's position in a token's pool.
type Position struct {
	ActionCounter

	// Balance is the staker's custodian balance of the token, outside the
	// pool.
	Balance uint64 `json:"balance"`
}

// NextSequence is the sequence the staker's next action will be written at.
func (p *Position) NextSequence() uint64 { return p.Count + 1 }

// GetPosition returns a staker's counter, stake, and account balance for a
// token.
func (l *Ledger) GetPosition(ctx context.Context, staker staking.Identity, token staking.TokenID) (*Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	acct, err := locate(staker, token)
	if err != nil {
		return nil, err
	}

	batch := l.db.Begin(nil, false)
	defer batch.Discard()

	counter, err := loadCounter(batch, acct.counter, staker, token)
	if err != nil {
		return nil, err
	}

	balance, err := l.custodian.Balance(ctx, acct.asset)
	if err != nil {
		return nil, errors.UnknownError.WithFormat("load balance: %w", err)
	}

	return &Position{ActionCounter: *counter, Balance: balance}, nil
}

// Pool is the state of a token's pool.
type Pool struct {
	PoolRecord

	// Vault is the custodian balance of the pool vault.
	Vault uint64 `json:"vault"`
}

// GetPool returns a token's pool record and vault balance.
func (l *Ledger) GetPool(ctx context.Context, token staking.TokenID) (*Pool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	poolID, err := locator.PoolState(token)
	if err != nil {
		return nil, err
	}
	vault, err := locator.PoolVault(token)
	if err != nil {
		return nil, err
	}

	batch := l.db.Begin(nil, false)
	defer batch.Discard()

	pool, err := loadPool(batch, poolID, token)
	if err != nil {
		return nil, err
	}

	balance, err := l.custodian.Balance(ctx, vault)
	if err != nil {
		return nil, errors.UnknownError.WithFormat("load vault balance: %w", err)
	}

	return &Pool{PoolRecord: *pool, Vault: balance}, nil
}
