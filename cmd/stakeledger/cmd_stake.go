// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gitlab.com/accumulatenetwork/stakeledger/internal/ledger"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/locator"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/staking"
)

var cmdDeposit = &cobra.Command{
	Use:   "deposit [staker] [token] [amount]",
	Short: "Stake tokens",
	Args:  cobra.ExactArgs(3),
	Run:   deposit,
}

var cmdWithdraw = &cobra.Command{
	Use:   "withdraw [staker] [token] [amount]",
	Short: "Request a withdrawal",
	Args:  cobra.ExactArgs(3),
	Run:   withdraw,
}

var cmdClaim = &cobra.Command{
	Use:   "claim [staker] [token] [amount] [sequence]",
	Short: "Claim a withdrawal request once its lock has elapsed",
	Args:  cobra.ExactArgs(4),
	Run:   claim,
}

var cmdRescue = &cobra.Command{
	Use:   "rescue [caller] [token] [amount]",
	Short: "Move tokens out of a pool vault to the administrator",
	Args:  cobra.ExactArgs(3),
	Run:   rescue,
}

var cmdMint = &cobra.Command{
	Use:   "mint [owner] [token] [amount]",
	Short: "Credit tokens to an account (development only)",
	Args:  cobra.ExactArgs(3),
	Run:   mint,
}

var flagAction = struct {
	Sequence uint64
}{}

func init() {
	cmdMain.AddCommand(cmdDeposit, cmdWithdraw, cmdClaim, cmdRescue, cmdMint)

	initSequenceFlag(cmdDeposit.Flags())
	initSequenceFlag(cmdWithdraw.Flags())
}

func initSequenceFlag(fs *pflag.FlagSet) {
	fs.Uint64VarP(&flagAction.Sequence, "sequence", "s", 0, "Expected sequence of the new entry (default next)")
}

func actionArgs(args []string) (staking.Identity, staking.TokenID, uint64) {
	return staking.Identity(args[0]), staking.TokenID(args[1]), parseUint(args[2], "amount")
}

func deposit(cmd *cobra.Command, args []string) {
	staker, token, amount := actionArgs(args)

	e := openEnv(cmd)
	defer e.Close()

	var entry *ledger.ActionEntry
	var err error
	if cmd.Flags().Changed("sequence") {
		entry, err = e.ledger.PerformAction(cmd.Context(), staker, amount, token, true, flagAction.Sequence)
	} else {
		entry, err = e.ledger.PerformDeposit(cmd.Context(), staker, token, amount)
	}
	check(err)
	printEntries(cmd.OutOrStdout(), entry)
}

func withdraw(cmd *cobra.Command, args []string) {
	staker, token, amount := actionArgs(args)

	e := openEnv(cmd)
	defer e.Close()

	seq := flagAction.Sequence
	if !cmd.Flags().Changed("sequence") {
		pos, err := e.ledger.GetPosition(cmd.Context(), staker, token)
		check(err)
		seq = pos.NextSequence()
	}

	entry, err := e.ledger.RequestWithdrawal(cmd.Context(), staker, token, amount, seq)
	check(err)
	printEntries(cmd.OutOrStdout(), entry)
}

func claim(cmd *cobra.Command, args []string) {
	staker, token, amount := actionArgs(args)
	seq := parseUint(args[3], "sequence")

	e := openEnv(cmd)
	defer e.Close()

	entry, err := e.ledger.ClaimWithdrawal(cmd.Context(), staker, token, amount, seq)
	check(err)
	printEntries(cmd.OutOrStdout(), entry)
}

func rescue(cmd *cobra.Command, args []string) {
	caller, token, amt := actionArgs(args)

	e := openEnv(cmd)
	defer e.Close()

	check(e.ledger.AdminRescue(cmd.Context(), caller, token, amt))
	success(cmd.OutOrStdout(), "Rescued %s %s", amount(amt), token)
}

func mint(cmd *cobra.Command, args []string) {
	owner, token, amt := actionArgs(args)
	account, err := locator.AssetAccount(owner, token)
	check(err)

	e := openEnv(cmd)
	defer e.Close()

	check(e.bank.Mint(cmd.Context(), account, amt))
	balance, err := e.bank.Balance(cmd.Context(), account)
	check(err)
	success(cmd.OutOrStdout(), "Balance of %s is %s %s", owner, amount(balance), token)
}
