// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package ledger

import (
	"context"
	"math"
	"time"

	"gitlab.com/accumulatenetwork/stakeledger/pkg/custodian"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/locator"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/staking"
)

// accounts are the locators an operation on a staker's position touches.
type accounts struct {
	counter locator.AccountID
	pool    locator.AccountID
	vault   locator.AccountID
	asset   locator.AccountID
}

func locate(staker staking.Identity, token staking.TokenID) (*accounts, error) {
	var a accounts
	var err error
	a.counter, err = locator.Counter(staker, token)
	if err != nil {
		return nil, err
	}
	a.pool, err = locator.PoolState(token)
	if err != nil {
		return nil, err
	}
	a.vault, err = locator.PoolVault(token)
	if err != nil {
		return nil, err
	}
	a.asset, err = locator.AssetAccount(staker, token)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// PerformAction routes a staker's action. A deposit or a withdrawal request
// is written at the given sequence, which must be the next one.
func (l *Ledger) PerformAction(ctx context.Context, staker staking.Identity, amount uint64, token staking.TokenID, isDeposit bool, sequence uint64) (*ActionEntry, error) {
	if isDeposit {
		return l.deposit(ctx, staker, token, amount, sequence, true)
	}
	return l.RequestWithdrawal(ctx, staker, token, amount, sequence)
}

// PerformDeposit moves funds from the staker's account into the pool vault
// and records a deposit at the next sequence.
func (l *Ledger) PerformDeposit(ctx context.Context, staker staking.Identity, token staking.TokenID, amount uint64) (*ActionEntry, error) {
	return l.deposit(ctx, staker, token, amount, 0, false)
}

func (l *Ledger) deposit(ctx context.Context, staker staking.Identity, token staking.TokenID, amount, sequence uint64, checkSequence bool) (_ *ActionEntry, err error) {
	defer func() { observe("deposit", err) }()

	if amount == 0 {
		return nil, errors.InvalidAmount.With("amount must be greater than zero")
	}

	acct, err := locate(staker, token)
	if err != nil {
		return nil, err
	}

	// The pool record is shared by every staker of the token and is guarded
	// by the vault lock
	unlock, err := l.locks.Acquire(ctx, acct.counter, acct.vault)
	if err != nil {
		return nil, err
	}
	defer unlock()

	batch := l.db.Begin(nil, true)
	defer batch.Discard()

	counter, err := loadCounter(batch, acct.counter, staker, token)
	if err != nil {
		return nil, err
	}
	if checkSequence && sequence != counter.Count+1 {
		return nil, errors.SequenceMismatch.WithFormat("expected sequence %d, got %d", counter.Count+1, sequence)
	}

	pool, err := loadPool(batch, acct.pool, token)
	if err != nil {
		return nil, err
	}
	if counter.Staked > math.MaxUint64-amount || pool.Staked > math.MaxUint64-amount {
		return nil, errors.InvalidAmount.WithFormat("depositing %d would overflow the stake", amount)
	}

	counter.Count++
	counter.Staked += amount
	pool.Staked += amount
	entry := &ActionEntry{
		Staker:    staker,
		Token:     token,
		Sequence:  counter.Count,
		Amount:    amount,
		Kind:      staking.ActionKindDeposit,
		Timestamp: l.now(),
		Confirmed: true,
	}

	err = stage(batch, acct, counter, pool, entry)
	if err != nil {
		return nil, err
	}

	err = l.settle(ctx, batch, acct.asset, acct.vault, amount)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "Deposited", "staker", staker, "token", token, "amount", amount, "sequence", entry.Sequence)
	return entry, nil
}

// RequestWithdrawal records a request to withdraw part of the staker's stake.
// No funds move until the request is claimed. The expected sequence must be
// the next one, so a caller that raced another action gets
// [errors.SequenceMismatch] and must read the counter again.
func (l *Ledger) RequestWithdrawal(ctx context.Context, staker staking.Identity, token staking.TokenID, amount, expectedSequence uint64) (_ *ActionEntry, err error) {
	defer func() { observe("requestWithdrawal", err) }()

	acct, err := locate(staker, token)
	if err != nil {
		return nil, err
	}

	unlock, err := l.locks.Acquire(ctx, acct.counter, acct.vault)
	if err != nil {
		return nil, err
	}
	defer unlock()

	batch := l.db.Begin(nil, true)
	defer batch.Discard()

	counter, err := loadCounter(batch, acct.counter, staker, token)
	if err != nil {
		return nil, err
	}
	if expectedSequence != counter.Count+1 {
		return nil, errors.SequenceMismatch.WithFormat("expected sequence %d, got %d", counter.Count+1, expectedSequence)
	}
	if amount == 0 {
		return nil, errors.InvalidAmount.With("amount must be greater than zero")
	}
	if amount > counter.Free() {
		return nil, errors.InsufficientStake.WithFormat("%s has %d unrequested stake of %s, requested %d", staker, counter.Free(), token, amount)
	}

	pool, err := loadPool(batch, acct.pool, token)
	if err != nil {
		return nil, err
	}

	counter.Count++
	counter.Pending += amount
	pool.Pending += amount
	entry := &ActionEntry{
		Staker:    staker,
		Token:     token,
		Sequence:  counter.Count,
		Amount:    amount,
		Kind:      staking.ActionKindWithdrawRequest,
		Timestamp: l.now(),
	}

	err = stage(batch, acct, counter, pool, entry)
	if err != nil {
		return nil, err
	}

	err = l.commit(batch)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "Requested withdrawal", "staker", staker, "token", token, "amount", amount, "sequence", entry.Sequence,
		"unlock", l.policy.UnlockAt(entry.Timestamp))
	return entry, nil
}

// ClaimWithdrawal pays out a withdrawal request once its lock has elapsed. The
// amount must match the request exactly. A request is paid at most once. The
// claim is recorded as a new entry that refers to the request.
func (l *Ledger) ClaimWithdrawal(ctx context.Context, staker staking.Identity, token staking.TokenID, amount, sequence uint64) (_ *ActionEntry, err error) {
	defer func() { observe("claimWithdrawal", err) }()

	acct, err := locate(staker, token)
	if err != nil {
		return nil, err
	}

	unlock, err := l.locks.Acquire(ctx, acct.counter, acct.vault)
	if err != nil {
		return nil, err
	}
	defer unlock()

	batch := l.db.Begin(nil, true)
	defer batch.Discard()

	counter, err := loadCounter(batch, acct.counter, staker, token)
	if err != nil {
		return nil, err
	}
	if sequence == 0 || sequence > counter.Count {
		return nil, errors.EntryNotFound.WithFormat("%s has no entry %d for %s", staker, sequence, token)
	}

	request, err := loadEntry(batch, staker, token, sequence)
	if err != nil {
		return nil, err
	}

	now := l.now()
	unlockAt := l.policy.UnlockAt(request.Timestamp)
	switch {
	case request.Kind != staking.ActionKindWithdrawRequest:
		return nil, errors.WrongKind.WithFormat("entry %d is a %v, not a withdrawal request", sequence, request.Kind)
	case request.Confirmed:
		return nil, errors.AlreadyClaimed.WithFormat("entry %d has already been claimed", sequence)
	case request.Amount != amount:
		return nil, errors.AmountMismatch.WithFormat("entry %d is for %d, not %d", sequence, request.Amount, amount)
	case now.Before(unlockAt):
		return nil, errors.LockNotElapsed.WithFormat("entry %d unlocks at %v", sequence, unlockAt.Format(time.RFC3339))
	}

	balance, err := l.custodian.Balance(ctx, acct.vault)
	if err != nil {
		return nil, errors.UnknownError.WithFormat("load vault balance: %w", err)
	}
	if balance < amount {
		return nil, errors.InsufficientVaultBalance.WithFormat("vault of %s holds %d, need %d", token, balance, amount)
	}

	pool, err := loadPool(batch, acct.pool, token)
	if err != nil {
		return nil, err
	}
	if counter.Pending < amount || counter.Staked < amount || pool.Pending < amount || pool.Staked < amount {
		return nil, errors.InternalError.WithFormat("position of %s for %s does not cover pending request %d", staker, token, sequence)
	}

	request.Confirmed = true
	err = confirmEntry(batch, request)
	if err != nil {
		return nil, err
	}

	counter.Count++
	counter.Staked -= amount
	counter.Pending -= amount
	pool.Staked -= amount
	pool.Pending -= amount
	claim := &ActionEntry{
		Staker:    staker,
		Token:     token,
		Sequence:  counter.Count,
		Amount:    amount,
		Kind:      staking.ActionKindClaim,
		Timestamp: now,
		Confirmed: true,
		Ref:       sequence,
	}

	err = stage(batch, acct, counter, pool, claim)
	if err != nil {
		return nil, err
	}

	err = l.settle(ctx, batch, acct.vault, acct.asset, amount)
	if errors.Is(err, errors.InsufficientBalance) {
		return nil, errors.InsufficientVaultBalance.WithCauseAndFormat(err, "vault of %s cannot cover %d", token, amount)
	}
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "Claimed withdrawal", "staker", staker, "token", token, "amount", amount, "request", sequence, "sequence", claim.Sequence)
	return claim, nil
}

// AdminRescue moves funds from a pool vault to the admin's account. It writes
// no entry and does not change the pool record, so after a rescue the vault
// may hold less than the stakers are owed.
func (l *Ledger) AdminRescue(ctx context.Context, caller staking.Identity, token staking.TokenID, amount uint64) (err error) {
	defer func() { observe("adminRescue", err) }()

	if amount == 0 {
		return errors.InvalidAmount.With("amount must be greater than zero")
	}

	vault, err := locator.PoolVault(token)
	if err != nil {
		return err
	}

	unlock, err := l.locks.Acquire(ctx, locator.Admin(), vault)
	if err != nil {
		return err
	}
	defer unlock()

	batch := l.db.Begin(nil, false)
	defer batch.Discard()

	admin, err := l.authorize(batch, caller)
	if err != nil {
		return err
	}
	target, err := locator.AssetAccount(admin.Admin, token)
	if err != nil {
		return err
	}

	balance, err := l.custodian.Balance(ctx, vault)
	if err != nil {
		return errors.UnknownError.WithFormat("load vault balance: %w", err)
	}
	if balance < amount {
		return errors.InsufficientVaultBalance.WithFormat("vault of %s holds %d, need %d", token, balance, amount)
	}

	err = custodian.Transfer(ctx, l.custodian, vault, target, amount)
	if errors.Is(err, errors.InsufficientBalance) {
		return errors.InsufficientVaultBalance.WithCauseAndFormat(err, "vault of %s cannot cover %d", token, amount)
	}
	if err != nil {
		return err
	}

	mRescueTotal.Inc()
	mRescueAmount.WithLabelValues(string(token)).Add(float64(amount))
	l.logger.WarnContext(ctx, "Admin rescued funds from a pool vault", "admin", admin.Admin, "token", token, "amount", amount, "vault-balance", balance-amount)
	return nil
}

// stage writes the records of a staker action into the change set.
func stage(batch keyvalue.Store, acct *accounts, counter *ActionCounter, pool *PoolRecord, entry *ActionEntry) error {
	err := appendEntry(batch, entry)
	if err != nil {
		return err
	}
	err = store(batch, acct.counter, counter)
	if err != nil {
		return err
	}
	return store(batch, acct.pool, pool)
}
