// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gitlab.com/accumulatenetwork/stakeledger/internal/ledger"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/staking"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetBorder(false)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

func amount(v uint64) string {
	return humanize.BigComma(new(big.Int).SetUint64(v))
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func entryStatus(e *ledger.ActionEntry) string {
	switch {
	case e.Kind == staking.ActionKindClaim:
		return fmt.Sprintf("settles #%d", e.Ref)
	case e.Kind != staking.ActionKindWithdrawRequest:
		return ""
	case e.Confirmed:
		return color.GreenString("claimed")
	default:
		return color.YellowString("pending")
	}
}

func printEntries(w io.Writer, entries ...*ledger.ActionEntry) {
	t := newTable(w, "Seq", "Kind", "Amount", "Time", "Status")
	for _, e := range entries {
		t.Append([]string{
			fmt.Sprint(e.Sequence),
			e.Kind.String(),
			amount(e.Amount),
			timestamp(e.Timestamp),
			entryStatus(e),
		})
	}
	t.Render()
}

func printPosition(w io.Writer, p *ledger.Position) {
	t := newTable(w, "Staker", "Token", "Next", "Staked", "Pending", "Balance")
	t.Append([]string{
		string(p.Staker),
		string(p.Token),
		fmt.Sprint(p.NextSequence()),
		amount(p.Staked),
		amount(p.Pending),
		amount(p.Balance),
	})
	t.Render()
}

func printPool(w io.Writer, p *ledger.Pool) {
	t := newTable(w, "Token", "Staked", "Pending", "Vault")
	t.Append([]string{
		string(p.Token),
		amount(p.Staked),
		amount(p.Pending),
		amount(p.Vault),
	})
	t.Render()
}

func success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.GreenString("✔"), fmt.Sprintf(format, args...))
}
