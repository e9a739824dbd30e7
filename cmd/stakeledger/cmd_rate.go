// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/staking"
)

var cmdRate = &cobra.Command{
	Use:   "rate",
	Short: "Manage token interest rates",
}

var cmdRateSet = &cobra.Command{
	Use:   "set [caller] [token] [rate]",
	Short: "Set the interest rate of a token, in basis points",
	Args:  cobra.ExactArgs(3),
	Run:   setRate,
}

var cmdRateShow = &cobra.Command{
	Use:   "show [token]",
	Short: "Show the interest rate of a token",
	Args:  cobra.ExactArgs(1),
	Run:   showRate,
}

func init() {
	cmdMain.AddCommand(cmdRate)
	cmdRate.AddCommand(cmdRateSet, cmdRateShow)
}

func setRate(cmd *cobra.Command, args []string) {
	rate, err := strconv.ParseInt(args[2], 10, 64)
	checkf(err, "invalid rate %q", args[2])

	e := openEnv(cmd)
	defer e.Close()

	check(e.ledger.SetInterestRate(cmd.Context(), staking.Identity(args[0]), staking.TokenID(args[1]), rate))
	success(cmd.OutOrStdout(), "Interest rate of %s is %d bps", args[1], rate)
}

func showRate(cmd *cobra.Command, args []string) {
	e := openEnv(cmd)
	defer e.Close()

	rec, err := e.ledger.GetInterest(cmd.Context(), staking.TokenID(args[0]))
	check(err)

	t := newTable(cmd.OutOrStdout(), "Token", "Rate (bps)", "Updated")
	t.Append([]string{string(rec.Token), fmt.Sprint(rec.Rate), timestamp(rec.UpdatedAt)})
	t.Render()
}
