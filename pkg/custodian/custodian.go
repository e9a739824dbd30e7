// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package custodian defines the asset custodian, the capability that holds
// token balances and moves them between accounts.
package custodian

import (
	"context"

	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/locator"
)

// Custodian holds token balances. Each account holds one token, so an account
// is identified by its locator alone.
type Custodian interface {
	// Balance returns the balance of the account, or zero if the account has
	// never been credited.
	Balance(ctx context.Context, account locator.AccountID) (uint64, error)

	// Debit removes funds from the account. It fails with
	// [errors.InsufficientBalance] if the balance is less than amount.
	Debit(ctx context.Context, account locator.AccountID, amount uint64) error

	// Credit adds funds to the account. It fails with [errors.InvalidAmount]
	// if the balance would overflow.
	Credit(ctx context.Context, account locator.AccountID, amount uint64) error
}

// Transfer debits one account and credits another. If the credit fails, the
// debit is reversed. If the reversal also fails, both errors are returned and
// the funds are stranded, which the caller must treat as an internal error.
func Transfer(ctx context.Context, c Custodian, from, to locator.AccountID, amount uint64) error {
	if amount == 0 {
		return errors.InvalidAmount.With("amount must be greater than zero")
	}

	err := c.Debit(ctx, from, amount)
	if err != nil {
		return errors.UnknownError.WithFormat("debit %v: %w", from, err)
	}

	err = c.Credit(ctx, to, amount)
	if err == nil {
		return nil
	}

	// Reverse the debit. Use a fresh context so a canceled request does not
	// strand the funds.
	err2 := c.Credit(context.WithoutCancel(ctx), from, amount)
	if err2 != nil {
		return errors.InternalError.WithFormat("credit %v: %w; reverse debit of %v: %v", to, err, from, err2)
	}
	return errors.UnknownError.WithFormat("credit %v: %w", to, err)
}
