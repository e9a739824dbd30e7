// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/staking"
)

var cmdAdmin = &cobra.Command{
	Use:   "admin",
	Short: "Manage the administrator",
}

var cmdAdminInit = &cobra.Command{
	Use:   "init [admin]",
	Short: "Set the first administrator",
	Args:  cobra.ExactArgs(1),
	Run:   initAdmin,
}

var cmdAdminSet = &cobra.Command{
	Use:   "set [caller] [new admin]",
	Short: "Hand the administrator role to another identity",
	Args:  cobra.ExactArgs(2),
	Run:   setAdmin,
}

var cmdAdminShow = &cobra.Command{
	Use:   "show",
	Short: "Show the administrator",
	Args:  cobra.NoArgs,
	Run:   showAdmin,
}

func init() {
	cmdMain.AddCommand(cmdAdmin)
	cmdAdmin.AddCommand(cmdAdminInit, cmdAdminSet, cmdAdminShow)
}

func initAdmin(cmd *cobra.Command, args []string) {
	e := openEnv(cmd)
	defer e.Close()

	check(e.ledger.InitializeAdmin(cmd.Context(), staking.Identity(args[0])))
	success(cmd.OutOrStdout(), "Administrator is %s", args[0])
}

func setAdmin(cmd *cobra.Command, args []string) {
	e := openEnv(cmd)
	defer e.Close()

	check(e.ledger.UpdateAdmin(cmd.Context(), staking.Identity(args[0]), staking.Identity(args[1])))
	success(cmd.OutOrStdout(), "Administrator is %s", args[1])
}

func showAdmin(cmd *cobra.Command, _ []string) {
	e := openEnv(cmd)
	defer e.Close()

	admin, err := e.ledger.GetAdmin(cmd.Context())
	check(err)
	fmt.Fprintln(cmd.OutOrStdout(), admin)
}
