// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package ledger

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/custodian"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/locator"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/record"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/staking"
	"golang.org/x/sync/errgroup"
)

func TestDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("Moves exactly the amount", func(t *testing.T) {
		h := newHarness(t)
		h.fund(alice, mint, 100)
		for i := uint64(1); i <= 3; i++ {
			entry, err := h.PerformDeposit(ctx, alice, mint, 10)
			require.NoError(t, err)
			require.Equal(t, i, entry.Sequence)
			require.Equal(t, 100-10*i, h.balance(alice, mint))
			require.Equal(t, 10*i, h.vault(mint))
			require.Equal(t, i, h.position(alice, mint).Count)
		}
	})

	t.Run("Zero amount", func(t *testing.T) {
		h := newHarness(t)
		h.fund(alice, mint, 100)
		_, err := h.PerformDeposit(ctx, alice, mint, 0)
		require.ErrorIs(t, err, errors.InvalidAmount)
		require.Empty(t, h.entries(alice, mint))
	})

	t.Run("Insufficient balance", func(t *testing.T) {
		h := newHarness(t)
		h.fund(alice, mint, 100)
		_, err := h.PerformDeposit(ctx, alice, mint, 101)
		require.ErrorIs(t, err, errors.InsufficientBalance)
		require.Equal(t, uint64(100), h.balance(alice, mint))
		require.Zero(t, h.vault(mint))
		require.Zero(t, h.position(alice, mint).Count)
	})

	t.Run("Sequence through PerformAction", func(t *testing.T) {
		h := newHarness(t)
		h.fund(alice, mint, 100)
		_, err := h.PerformAction(ctx, alice, 10, mint, true, 2)
		require.ErrorIs(t, err, errors.SequenceMismatch)
		require.Equal(t, uint64(100), h.balance(alice, mint))
	})

	t.Run("Invalid locator", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.PerformDeposit(ctx, "", mint, 10)
		require.ErrorIs(t, err, errors.InvalidLocator)
		_, err = h.PerformDeposit(ctx, alice, "", 10)
		require.ErrorIs(t, err, errors.InvalidLocator)
	})

	t.Run("Overflow", func(t *testing.T) {
		h := newHarness(t)
		h.fund(alice, mint, math.MaxUint64)
		_, err := h.PerformDeposit(ctx, alice, mint, math.MaxUint64)
		require.NoError(t, err)
		h.fund(bob, mint, 1)
		_, err = h.PerformDeposit(ctx, bob, mint, 1)
		require.ErrorIs(t, err, errors.InvalidAmount)
		require.Equal(t, uint64(1), h.balance(bob, mint))
	})
}

func TestRequestWithdrawal(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.fund(alice, mint, 100)
	h.fund(bob, mint, 100)
	_, err := h.PerformDeposit(ctx, alice, mint, 60)
	require.NoError(t, err)
	_, err = h.PerformDeposit(ctx, bob, mint, 100)
	require.NoError(t, err)

	cases := []struct {
		Name     string
		Amount   uint64
		Sequence uint64
		Error    errors.Status
	}{
		{"Stale sequence", 10, 1, errors.SequenceMismatch},
		{"Future sequence", 10, 3, errors.SequenceMismatch},
		{"Zero amount", 0, 2, errors.InvalidAmount},
		{"More than staked", 61, 2, errors.InsufficientStake},
	}
	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			_, err := h.RequestWithdrawal(ctx, alice, mint, c.Amount, c.Sequence)
			require.ErrorIs(t, err, c.Error)
			require.Equal(t, uint64(1), h.position(alice, mint).Count)
		})
	}

	t.Run("Pending stake cannot be requested twice", func(t *testing.T) {
		_, err := h.RequestWithdrawal(ctx, alice, mint, 40, 2)
		require.NoError(t, err)
		_, err = h.RequestWithdrawal(ctx, alice, mint, 21, 3)
		require.ErrorIs(t, err, errors.InsufficientStake)
		_, err = h.RequestWithdrawal(ctx, alice, mint, 20, 3)
		require.NoError(t, err)

		pos := h.position(alice, mint)
		require.Equal(t, uint64(60), pos.Staked)
		require.Equal(t, uint64(60), pos.Pending)
		require.Equal(t, uint64(40), pos.Balance)

		pool, err := h.GetPool(ctx, mint)
		require.NoError(t, err)
		require.Equal(t, uint64(160), pool.Staked)
		require.Equal(t, uint64(60), pool.Pending)
		require.Equal(t, uint64(160), pool.Vault)
	})

	t.Run("Never exceeds the staker's own stake", func(t *testing.T) {
		// The vault holds bob's stake but alice cannot request it
		_, err := h.RequestWithdrawal(ctx, alice, mint, 1, 4)
		require.ErrorIs(t, err, errors.InsufficientStake)
	})

	t.Run("First sequence of a new staker", func(t *testing.T) {
		_, err := h.RequestWithdrawal(ctx, "carol", mint, 1, 2)
		require.ErrorIs(t, err, errors.SequenceMismatch)
	})
}

func TestClaimWithdrawal(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.fund(alice, mint, 100)
	_, err := h.PerformDeposit(ctx, alice, mint, 100)
	require.NoError(t, err)
	_, err = h.RequestWithdrawal(ctx, alice, mint, 30, 2)
	require.NoError(t, err)

	cases := []struct {
		Name     string
		Amount   uint64
		Sequence uint64
		Error    errors.Status
	}{
		{"Zero sequence", 30, 0, errors.EntryNotFound},
		{"Past the counter", 30, 3, errors.EntryNotFound},
		{"Deposit entry", 100, 1, errors.WrongKind},
		{"Partial amount", 29, 2, errors.AmountMismatch},
		{"Too much", 31, 2, errors.AmountMismatch},
		{"Locked", 30, 2, errors.LockNotElapsed},
	}
	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			_, err := h.ClaimWithdrawal(ctx, alice, mint, c.Amount, c.Sequence)
			require.ErrorIs(t, err, c.Error)
			require.Equal(t, uint64(100), h.vault(mint))
			require.False(t, h.entries(alice, mint)[1].Confirmed)
		})
	}

	t.Run("No entries for the pair", func(t *testing.T) {
		_, err := h.ClaimWithdrawal(ctx, alice, "OTHER", 30, 1)
		require.ErrorIs(t, err, errors.EntryNotFound)
	})

	t.Run("Claim entry cannot be claimed", func(t *testing.T) {
		h.clock.Advance(48 * time.Hour)
		_, err := h.ClaimWithdrawal(ctx, alice, mint, 30, 2)
		require.NoError(t, err)
		_, err = h.ClaimWithdrawal(ctx, alice, mint, 30, 3)
		require.ErrorIs(t, err, errors.WrongKind)
	})
}

func TestClaimInsufficientVault(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	require.NoError(t, h.InitializeAdmin(ctx, admin))
	h.fund(alice, mint, 100)
	_, err := h.PerformDeposit(ctx, alice, mint, 100)
	require.NoError(t, err)
	_, err = h.RequestWithdrawal(ctx, alice, mint, 100, 2)
	require.NoError(t, err)

	// After a rescue the vault no longer covers the request
	require.NoError(t, h.AdminRescue(ctx, admin, mint, 1))
	h.clock.Advance(48 * time.Hour)
	_, err = h.ClaimWithdrawal(ctx, alice, mint, 100, 2)
	require.ErrorIs(t, err, errors.InsufficientVaultBalance)
	require.False(t, h.entries(alice, mint)[1].Confirmed)
	require.Equal(t, uint64(99), h.vault(mint))
}

func TestAdminRescue(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	err := h.AdminRescue(ctx, admin, mint, 1)
	require.ErrorIs(t, err, errors.NotInitialized)

	require.NoError(t, h.InitializeAdmin(ctx, admin))
	h.fund(alice, mint, 100)
	_, err = h.PerformDeposit(ctx, alice, mint, 100)
	require.NoError(t, err)

	require.ErrorIs(t, h.AdminRescue(ctx, alice, mint, 1), errors.Unauthorized)
	require.ErrorIs(t, h.AdminRescue(ctx, admin, mint, 0), errors.InvalidAmount)
	require.ErrorIs(t, h.AdminRescue(ctx, admin, mint, 101), errors.InsufficientVaultBalance)
	require.Equal(t, uint64(100), h.vault(mint))

	rescues := testutil.ToFloat64(mRescueTotal)
	rescued := testutil.ToFloat64(mRescueAmount.WithLabelValues(string(mint)))
	require.NoError(t, h.AdminRescue(ctx, admin, mint, 100))
	require.Zero(t, h.vault(mint))
	require.Equal(t, uint64(100), h.balance(admin, mint))

	// Rescues are not in the entry log so they are counted
	require.Equal(t, rescues+1, testutil.ToFloat64(mRescueTotal))
	require.Equal(t, rescued+100, testutil.ToFloat64(mRescueAmount.WithLabelValues(string(mint))))
}

func TestConcurrentRequests(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.fund(alice, mint, 1000)
	_, err := h.PerformDeposit(ctx, alice, mint, 1000)
	require.NoError(t, err)

	// Every request names sequence 2, so exactly one wins
	const N = 20
	var ok, mismatch atomic.Int32
	var g errgroup.Group
	for range N {
		g.Go(func() error {
			_, err := h.RequestWithdrawal(ctx, alice, mint, 1, 2)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, errors.SequenceMismatch):
				mismatch.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, int32(1), ok.Load())
	require.Equal(t, int32(N-1), mismatch.Load())
	require.Equal(t, uint64(2), h.position(alice, mint).Count)
}

func TestConcurrentStakers(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	// Many stakers share one vault; the pool record must see every deposit
	const N = 16
	var g errgroup.Group
	for i := range N {
		staker := staking.Identity(string(rune('a' + i)))
		h.fund(staker, mint, 10)
		g.Go(func() error {
			for range 10 {
				_, err := h.PerformDeposit(ctx, staker, mint, 1)
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	pool, err := h.GetPool(ctx, mint)
	require.NoError(t, err)
	require.Equal(t, uint64(N*10), pool.Staked)
	require.Equal(t, uint64(N*10), pool.Vault)
}

// failingCustodian fails every credit to one account.
type failingCustodian struct {
	custodian.Custodian
	target locator.AccountID
}

func (c *failingCustodian) Credit(ctx context.Context, account locator.AccountID, amount uint64) error {
	if account == c.target {
		return errors.InternalError.With("custodian is down")
	}
	return c.Custodian.Credit(ctx, account, amount)
}

func TestFailingCustodian(t *testing.T) {
	ctx := context.Background()
	vault, err := locator.PoolVault(mint)
	require.NoError(t, err)
	h := newHarness(t, withCustodian(func(b *custodian.Bank) custodian.Custodian {
		return &failingCustodian{Custodian: b, target: vault}
	}))
	h.fund(alice, mint, 100)

	_, err = h.PerformDeposit(ctx, alice, mint, 10)
	require.ErrorIs(t, err, errors.InternalError)

	// The debit was reversed and no record was written
	require.Equal(t, uint64(100), h.balance(alice, mint))
	require.Zero(t, h.vault(mint))
	require.Zero(t, h.position(alice, mint).Count)
	require.Empty(t, h.entries(alice, mint))
	pool, err := h.GetPool(ctx, mint)
	require.NoError(t, err)
	require.Zero(t, pool.Staked)
}

// failingDatabase fails every commit that writes ledger records.
type failingDatabase struct {
	keyvalue.Beginner
	fail *atomic.Bool
}

func (d *failingDatabase) Begin(prefix *record.Key, writable bool) keyvalue.ChangeSet {
	return &failingChangeSet{d.Beginner.Begin(prefix, writable), d.fail}
}

type failingChangeSet struct {
	keyvalue.ChangeSet
	fail *atomic.Bool
}

func (c *failingChangeSet) Commit() error {
	if c.fail.Load() {
		c.Discard()
		return errors.InternalError.With("disk is full")
	}
	return c.ChangeSet.Commit()
}

func TestFailingCommit(t *testing.T) {
	ctx := context.Background()
	fail := new(atomic.Bool)
	h := newHarness(t, withDatabase(func(db keyvalue.Beginner) keyvalue.Beginner {
		return &failingDatabase{db, fail}
	}))

	// The bank writes to the database directly so only ledger commits fail
	h.fund(alice, mint, 101)
	_, err := h.PerformDeposit(ctx, alice, mint, 100)
	require.NoError(t, err)
	_, err = h.RequestWithdrawal(ctx, alice, mint, 40, 2)
	require.NoError(t, err)

	fail.Store(true)
	_, err = h.PerformDeposit(ctx, alice, mint, 1)
	require.Error(t, err)
	h.clock.Advance(48 * time.Hour)
	_, err = h.ClaimWithdrawal(ctx, alice, mint, 40, 2)
	require.Error(t, err)
	fail.Store(false)

	// The transfers were reversed
	require.Equal(t, uint64(1), h.balance(alice, mint))
	require.Equal(t, uint64(100), h.vault(mint))
	require.Equal(t, uint64(2), h.position(alice, mint).Count)
	require.False(t, h.entries(alice, mint)[1].Confirmed)

	// And the claim still works once commits succeed
	_, err = h.ClaimWithdrawal(ctx, alice, mint, 40, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(41), h.balance(alice, mint))
	require.Equal(t, uint64(60), h.vault(mint))
}

func TestCanceledContext(t *testing.T) {
	h := newHarness(t)
	h.fund(alice, mint, 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Hold the counter lock so the operation has to wait for it
	counter, err := locator.Counter(alice, mint)
	require.NoError(t, err)
	unlock, err := h.locks.Acquire(context.Background(), counter)
	require.NoError(t, err)
	defer unlock()

	_, err = h.PerformDeposit(ctx, alice, mint, 1)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, uint64(100), h.balance(alice, mint))
}
