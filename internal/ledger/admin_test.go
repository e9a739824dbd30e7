// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
)

func TestAdmin(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.GetAdmin(ctx)
	require.ErrorIs(t, err, errors.NotInitialized)
	require.ErrorIs(t, h.UpdateAdmin(ctx, admin, alice), errors.NotInitialized)
	require.ErrorIs(t, h.InitializeAdmin(ctx, ""), errors.BadRequest)

	require.NoError(t, h.InitializeAdmin(ctx, admin))
	require.ErrorIs(t, h.InitializeAdmin(ctx, alice), errors.AlreadyInitialized)

	got, err := h.GetAdmin(ctx)
	require.NoError(t, err)
	require.Equal(t, admin, got)

	require.ErrorIs(t, h.UpdateAdmin(ctx, alice, alice), errors.Unauthorized)
	require.ErrorIs(t, h.UpdateAdmin(ctx, "", alice), errors.Unauthorized)
	require.ErrorIs(t, h.UpdateAdmin(ctx, admin, ""), errors.BadRequest)

	require.NoError(t, h.UpdateAdmin(ctx, admin, alice))
	got, err = h.GetAdmin(ctx)
	require.NoError(t, err)
	require.Equal(t, alice, got)

	// The previous admin lost its rights
	require.ErrorIs(t, h.UpdateAdmin(ctx, admin, admin), errors.Unauthorized)
	require.ErrorIs(t, h.SetInterestRate(ctx, admin, mint, 1), errors.Unauthorized)
}

func TestInterestRate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.ErrorIs(t, h.SetInterestRate(ctx, admin, mint, 100), errors.NotInitialized)
	require.NoError(t, h.InitializeAdmin(ctx, admin))

	rate, err := h.GetInterestRate(ctx, mint)
	require.NoError(t, err)
	require.Zero(t, rate)

	require.ErrorIs(t, h.SetInterestRate(ctx, admin, mint, -1), errors.InvalidRate)
	require.ErrorIs(t, h.SetInterestRate(ctx, admin, "", 1), errors.InvalidLocator)

	require.NoError(t, h.SetInterestRate(ctx, admin, mint, 250))
	require.NoError(t, h.SetInterestRate(ctx, admin, "OTHER", 0))

	rec, err := h.GetInterest(ctx, mint)
	require.NoError(t, err)
	require.Equal(t, uint64(250), rec.Rate)
	require.True(t, start.Equal(rec.UpdatedAt))

	// Overwrite
	require.NoError(t, h.SetInterestRate(ctx, admin, mint, 300))
	rate, err = h.GetInterestRate(ctx, mint)
	require.NoError(t, err)
	require.Equal(t, uint64(300), rate)

	rate, err = h.GetInterestRate(ctx, "OTHER")
	require.NoError(t, err)
	require.Zero(t, rate)
}
