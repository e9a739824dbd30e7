// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/accumulatenetwork/stakeledger/internal/config"
	"gitlab.com/accumulatenetwork/stakeledger/internal/ledger"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/custodian"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
)

// env is an opened ledger and the resources behind it.
type env struct {
	config *config.Config
	db     config.Database
	bank   *custodian.Bank
	ledger *ledger.Ledger
	logger *slog.Logger

	removeHook func()
}

func loadConfig(cmd *cobra.Command) *config.Config {
	file := flagMain.Config
	_, err := os.Stat(file)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		// Run on defaults and the environment
		file = ""
	default:
		check(err)
	}

	cfg, err := config.Load(file)
	check(err)
	return cfg
}

func openEnv(cmd *cobra.Command) *env {
	e := new(env)
	e.config = loadConfig(cmd)

	var err error
	e.logger, err = e.config.Logger(cmd.ErrOrStderr())
	check(err)

	e.db, err = e.config.OpenDatabase(e.logger)
	checkf(err, "open %s database", e.config.Storage.Type)
	e.removeHook = onExit(e.Close)

	e.bank = custodian.NewBank(custodian.BankOptions{
		Database: e.db,
		Logger:   e.logger,
	})

	e.ledger, err = ledger.New(ledger.Options{
		Database:   e.db,
		Custodian:  e.bank,
		LockPolicy: e.config.LockPolicy(),
		Logger:     e.logger,
	})
	check(err)
	return e
}

// Close closes the database. Calling Close more than once is a no-op.
func (e *env) Close() {
	if e.db == nil {
		return
	}
	db := e.db
	e.db = nil
	e.removeHook()
	checkf(db.Close(), "close database")
}
