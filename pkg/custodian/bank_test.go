// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package custodian

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/accumulatenetwork/stakeledger/internal/logging"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue/memory"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/locator"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/staking"
	"golang.org/x/sync/errgroup"
)

func newBank(t *testing.T) *Bank {
	return NewBank(BankOptions{
		Database: memory.New(),
		Logger:   logging.NewTestLogger(t),
	})
}

func account(t *testing.T, owner staking.Identity) locator.AccountID {
	id, err := locator.AssetAccount(owner, "MINT")
	require.NoError(t, err)
	return id
}

func TestBank(t *testing.T) {
	ctx := context.Background()
	bank := newBank(t)
	alice, bob := account(t, "alice"), account(t, "bob")

	// Unknown accounts are empty
	bal, err := bank.Balance(ctx, alice)
	require.NoError(t, err)
	require.Zero(t, bal)

	require.NoError(t, bank.Mint(ctx, alice, 100))
	require.ErrorIs(t, bank.Mint(ctx, alice, 0), errors.InvalidAmount)

	require.NoError(t, Transfer(ctx, bank, alice, bob, 40))
	requireBalance(t, bank, alice, 60)
	requireBalance(t, bank, bob, 40)

	require.ErrorIs(t, bank.Debit(ctx, alice, 61), errors.InsufficientBalance)
	requireBalance(t, bank, alice, 60)

	require.ErrorIs(t, bank.Credit(ctx, bob, math.MaxUint64), errors.InvalidAmount)
	requireBalance(t, bank, bob, 40)
}

func TestTransferReversesDebit(t *testing.T) {
	ctx := context.Background()
	bank := newBank(t)
	alice, bob := account(t, "alice"), account(t, "bob")

	require.NoError(t, bank.Mint(ctx, alice, 10))
	require.NoError(t, bank.Mint(ctx, bob, math.MaxUint64-5))

	// The credit overflows so the debit must be undone
	err := Transfer(ctx, bank, alice, bob, 10)
	require.ErrorIs(t, err, errors.InvalidAmount)
	requireBalance(t, bank, alice, 10)
	requireBalance(t, bank, bob, math.MaxUint64-5)

	require.ErrorIs(t, Transfer(ctx, bank, alice, bob, 0), errors.InvalidAmount)
	require.ErrorIs(t, Transfer(ctx, bank, alice, bob, 11), errors.InsufficientBalance)
}

func TestConcurrentDebits(t *testing.T) {
	ctx := context.Background()
	bank := newBank(t)
	alice := account(t, "alice")
	require.NoError(t, bank.Mint(ctx, alice, 50))

	// 100 debits of 1 against a balance of 50: exactly 50 succeed
	var g errgroup.Group
	results := make([]error, 100)
	for i := range results {
		g.Go(func() error {
			results[i] = bank.Debit(ctx, alice, 1)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var ok int
	for _, err := range results {
		if err == nil {
			ok++
		} else {
			require.ErrorIs(t, err, errors.InsufficientBalance)
		}
	}
	require.Equal(t, 50, ok)
	requireBalance(t, bank, alice, 0)
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bank := newBank(t)
	require.ErrorIs(t, bank.Credit(ctx, account(t, "alice"), 1), context.Canceled)
}

func requireBalance(t *testing.T, bank *Bank, account locator.AccountID, want uint64) {
	t.Helper()
	bal, err := bank.Balance(context.Background(), account)
	require.NoError(t, err)
	require.Equal(t, want, bal)
}
