// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package ledger

import (
	"context"

	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/locator"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/staking"
)

// SetInterestRate sets the interest rate of a token. Only the admin may call
// it and the rate must not be negative.
func (l *Ledger) SetInterestRate(ctx context.Context, caller staking.Identity, token staking.TokenID, rate int64) (err error) {
	defer func() { observe("updateInterestRate", err) }()

	id, err := locator.Interest(token)
	if err != nil {
		return err
	}

	unlock, err := l.locks.Acquire(ctx, locator.Admin(), id)
	if err != nil {
		return err
	}
	defer unlock()

	batch := l.db.Begin(nil, true)
	defer batch.Discard()

	_, err = l.authorize(batch, caller)
	if err != nil {
		return err
	}

	if rate < 0 {
		return errors.InvalidRate.WithFormat("rate %d is negative", rate)
	}

	rec := &InterestRecord{Token: token, Rate: uint64(rate), UpdatedAt: l.now()}
	err = store(batch, id, rec)
	if err != nil {
		return err
	}

	err = l.commit(batch)
	if err != nil {
		return err
	}

	l.logger.InfoContext(ctx, "Updated interest rate", "token", token, "rate", rate)
	return nil
}

// GetInterestRate returns the interest rate of a token, or zero if none has
// been set.
func (l *Ledger) GetInterestRate(ctx context.Context, token staking.TokenID) (uint64, error) {
	rec, err := l.GetInterest(ctx, token)
	if err != nil {
		return 0, err
	}
	return rec.Rate, nil
}

// GetInterest returns the interest record of a token. If none has been set the
// record has a zero rate and time.
func (l *Ledger) GetInterest(ctx context.Context, token staking.TokenID) (*InterestRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, err := locator.Interest(token)
	if err != nil {
		return nil, err
	}

	batch := l.db.Begin(nil, false)
	defer batch.Discard()

	rec := &InterestRecord{Token: token}
	_, err = load(batch, id, rec)
	if err != nil {
		return nil, err
	}
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}
