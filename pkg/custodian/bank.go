// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package custodian

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/locator"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/record"
)

// Bank is a custodian that keeps balances in a key-value store.
type Bank struct {
	db     keyvalue.Beginner
	logger *slog.Logger
	mu     sync.Mutex
}

var _ Custodian = (*Bank)(nil)

type BankOptions struct {
	Database keyvalue.Beginner
	Logger   *slog.Logger
}

func NewBank(opts BankOptions) *Bank {
	b := new(Bank)
	b.db = opts.Database
	b.logger = opts.Logger
	if b.logger == nil {
		b.logger = slog.Default()
	}
	b.logger = b.logger.With("module", "custodian")
	return b
}

type bankAccount struct {
	Balance uint64 `msgpack:"balance"`
}

func accountKey(account locator.AccountID) *record.Key {
	return record.NewKey("Custodian", account)
}

func (b *Bank) Balance(ctx context.Context, account locator.AccountID) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	batch := b.db.Begin(nil, false)
	defer batch.Discard()
	acct, err := b.load(batch, account)
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

func (b *Bank) Debit(ctx context.Context, account locator.AccountID, amount uint64) error {
	return b.update(ctx, account, func(acct *bankAccount) error {
		if acct.Balance < amount {
			return errors.InsufficientBalance.WithFormat("%v has %d, need %d", account, acct.Balance, amount)
		}
		acct.Balance -= amount
		return nil
	})
}

func (b *Bank) Credit(ctx context.Context, account locator.AccountID, amount uint64) error {
	return b.update(ctx, account, func(acct *bankAccount) error {
		if acct.Balance > math.MaxUint64-amount {
			return errors.InvalidAmount.WithFormat("crediting %d to %v would overflow", amount, account)
		}
		acct.Balance += amount
		return nil
	})
}

// Mint creates funds in the account. It stands in for an external token
// program during development and tests.
func (b *Bank) Mint(ctx context.Context, account locator.AccountID, amount uint64) error {
	if amount == 0 {
		return errors.InvalidAmount.With("amount must be greater than zero")
	}
	err := b.Credit(ctx, account, amount)
	if err != nil {
		return err
	}
	b.logger.InfoContext(ctx, "Minted", "account", account, "amount", amount)
	return nil
}

func (b *Bank) update(ctx context.Context, account locator.AccountID, fn func(*bankAccount) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	batch := b.db.Begin(nil, true)
	defer batch.Discard()

	acct, err := b.load(batch, account)
	if err != nil {
		return err
	}

	err = fn(acct)
	if err != nil {
		return err
	}

	v, err := msgpack.Marshal(acct)
	if err != nil {
		return errors.EncodingError.WithFormat("encode account: %w", err)
	}
	err = batch.Put(accountKey(account), v)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}
	return errors.UnknownError.Wrap(batch.Commit())
}

func (b *Bank) load(batch keyvalue.Store, account locator.AccountID) (*bankAccount, error) {
	acct := new(bankAccount)
	v, err := batch.Get(accountKey(account))
	switch {
	case err == nil:
		// Ok
	case errors.Is(err, errors.NotFound):
		return acct, nil
	default:
		return nil, errors.UnknownError.WithFormat("load %v: %w", account, err)
	}

	err = msgpack.Unmarshal(v, acct)
	if err != nil {
		return nil, errors.EncodingError.WithFormat("decode %v: %w", account, err)
	}
	return acct, nil
}
