// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"github.com/spf13/cobra"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/staking"
)

var cmdEntries = &cobra.Command{
	Use:   "entries [staker] [token]",
	Short: "List the entries of a staker",
	Args:  cobra.ExactArgs(2),
	Run:   listEntries,
}

var cmdBalance = &cobra.Command{
	Use:   "balance [staker] [token]",
	Short: "Show the position and account balance of a staker",
	Args:  cobra.ExactArgs(2),
	Run:   showBalance,
}

var cmdPool = &cobra.Command{
	Use:   "pool [token]",
	Short: "Show the pool of a token",
	Args:  cobra.ExactArgs(1),
	Run:   showPool,
}

func init() {
	cmdMain.AddCommand(cmdEntries, cmdBalance, cmdPool)
}

func listEntries(cmd *cobra.Command, args []string) {
	e := openEnv(cmd)
	defer e.Close()

	entries, err := e.ledger.ListEntries(cmd.Context(), staking.Identity(args[0]), staking.TokenID(args[1]))
	check(err)
	printEntries(cmd.OutOrStdout(), entries...)
}

func showBalance(cmd *cobra.Command, args []string) {
	e := openEnv(cmd)
	defer e.Close()

	pos, err := e.ledger.GetPosition(cmd.Context(), staking.Identity(args[0]), staking.TokenID(args[1]))
	check(err)
	printPosition(cmd.OutOrStdout(), pos)
}

func showPool(cmd *cobra.Command, args []string) {
	e := openEnv(cmd)
	defer e.Close()

	pool, err := e.ledger.GetPool(cmd.Context(), staking.TokenID(args[0]))
	check(err)
	printPool(cmd.OutOrStdout(), pool)
}
