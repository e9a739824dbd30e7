// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/accumulatenetwork/stakeledger"
)

var cmdVersion = &cobra.Command{
	Use:  "version",
	Args: cobra.NoArgs,
	Run:  showVersion,
}

var flagVersion struct {
	VersionOnly  bool
	KnownVersion bool
}

func init() {
	cmdMain.AddCommand(cmdVersion)

	cmdVersion.Flags().BoolVar(&flagVersion.VersionOnly, "version-only", false, "Only print out the version number")
	cmdVersion.Flags().BoolVar(&flagVersion.KnownVersion, "known-version", false, "Return 1 if the version number is unknown")
}

func showVersion(cmd *cobra.Command, _ []string) {
	if flagVersion.KnownVersion && !stakeledger.IsVersionKnown() {
		defer exit(1)
	}

	if flagVersion.VersionOnly {
		fmt.Fprintln(cmd.OutOrStdout(), stakeledger.Version)
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cmdMain.Short, stakeledger.Version)
}
