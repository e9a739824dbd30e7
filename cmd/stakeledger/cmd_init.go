// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/accumulatenetwork/stakeledger/internal/config"
)

var cmdInit = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Args:  cobra.NoArgs,
	Run:   initConfig,
}

var flagInit = struct {
	Storage    string
	Path       string
	Listen     string
	EnableMint bool
	Force      bool
}{}

func init() {
	cmdMain.AddCommand(cmdInit)
	initInitFlags()
}

func initInitFlags() {
	def := config.Default()
	cmdInit.ResetFlags()
	cmdInit.Flags().StringVar(&flagInit.Storage, "storage", def.Storage.Type, "Storage backend (memory, bolt, badger, leveldb)")
	cmdInit.Flags().StringVar(&flagInit.Path, "path", def.Storage.Path, "Database file or directory")
	cmdInit.Flags().StringVar(&flagInit.Listen, "listen", def.API.Listen, "API listen address")
	cmdInit.Flags().BoolVar(&flagInit.EnableMint, "enable-mint", false, "Enable the development mint route")
	cmdInit.Flags().BoolVarP(&flagInit.Force, "force", "f", false, "Overwrite an existing configuration file")
}

func initConfig(cmd *cobra.Command, _ []string) {
	if _, err := os.Stat(flagMain.Config); err == nil && !flagInit.Force {
		fatalf("%s already exists, use --force to overwrite it", flagMain.Config)
	}

	cfg := config.Default()
	cfg.Storage.Type = flagInit.Storage
	cfg.Storage.Path = flagInit.Path
	cfg.API.Listen = flagInit.Listen
	cfg.API.EnableMint = flagInit.EnableMint
	check(cfg.Validate())
	checkf(cfg.Save(flagMain.Config), "write %s", flagMain.Config)

	success(cmd.OutOrStdout(), "Wrote %s", flagMain.Config)
}
