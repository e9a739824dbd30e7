// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
)

var cmdMain = &cobra.Command{
	Use:   "stakeledger",
	Short: "Staking ledger",
	Run:   printUsageAndExit1,
}

var flagMain struct {
	Config string
}

const defaultConfigFile = "stakeledger.toml"

func init() {
	cmdMain.PersistentFlags().StringVarP(&flagMain.Config, "config", "c", defaultConfigFile, "Configuration file (TOML, YAML, or JSON)")
}

func main() {
	_ = cmdMain.Execute()
}

// exit terminates the process. Tests replace it.
var exit = os.Exit

type exitHook struct{ fn func() }

// exitHooks run in reverse order of registration when a command fails
// through fatalf, since deferred calls do not survive os.Exit.
var exitHooks []*exitHook

// onExit registers fn to run if the command exits through fatalf. The
// returned func removes the registration.
func onExit(fn func()) (remove func()) {
	h := &exitHook{fn}
	exitHooks = append(exitHooks, h)
	return func() {
		exitHooks = slices.DeleteFunc(exitHooks, func(x *exitHook) bool { return x == h })
	}
}

func runExitHooks() {
	for len(exitHooks) > 0 {
		h := exitHooks[len(exitHooks)-1]
		exitHooks = exitHooks[:len(exitHooks)-1]
		h.fn()
	}
}

func printUsageAndExit1(cmd *cobra.Command, args []string) {
	_ = cmd.Usage()
	exit(1)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	runExitHooks()
	exit(1)
}

func check(err error) {
	if err != nil {
		fatalf("%v", err)
	}
}

func checkf(err error, format string, otherArgs ...interface{}) {
	if err != nil {
		fatalf(format+": %v", append(otherArgs, err)...)
	}
}

func parseUint(s, what string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	checkf(err, "invalid %s %q", what, s)
	return v
}
