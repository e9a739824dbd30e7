// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gitlab.com/accumulatenetwork/stakeledger/internal/api"
	"golang.org/x/sync/errgroup"
)

var cmdServe = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger API",
	Args:  cobra.NoArgs,
	Run:   serve,
}

func init() {
	cmdMain.AddCommand(cmdServe)
}

func serve(cmd *cobra.Command, _ []string) {
	e := openEnv(cmd)
	defer e.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := api.Options{
		Ledger:  e.ledger,
		Metrics: e.config.Metrics.Listen == "",
		Logger:  e.logger,
	}
	if e.config.API.EnableMint {
		e.logger.Warn("The mint route is enabled", "module", "api")
		opts.Bank = e.bank
	}
	handler, err := api.NewHandler(opts)
	check(err)

	l, err := net.Listen("tcp", e.config.API.Listen)
	checkf(err, "listen on %s", e.config.API.Listen)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Serve(ctx, l, handler, e.config.API.ReadHeaderTimeout, e.logger)
	})

	if e.config.Metrics.Listen != "" {
		ml, err := net.Listen("tcp", e.config.Metrics.Listen)
		checkf(err, "listen on %s", e.config.Metrics.Listen)
		g.Go(func() error {
			return api.Serve(ctx, ml, api.MetricsHandler(), e.config.API.ReadHeaderTimeout, e.logger)
		})
	}

	check(g.Wait())
}
