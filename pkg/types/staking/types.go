// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package staking

import (
	"fmt"
	"strings"
)

// Identity is an opaque principal, such as a staker or the administrator.
type Identity string

// TokenID identifies a fungible token and therefore its staking pool.
type TokenID string

// ActionKind is the kind of a staker's action entry.
type ActionKind uint64

const (
	// ActionKindDeposit records tokens moved from the staker into the pool.
	ActionKindDeposit ActionKind = 1
	// ActionKindWithdrawRequest records a request to withdraw tokens after the
	// lock period.
	ActionKindWithdrawRequest ActionKind = 2
	// ActionKindClaim records the payout of a withdrawal request.
	ActionKindClaim ActionKind = 3
)

var actionKindNames = map[ActionKind]string{
	ActionKindDeposit:         "deposit",
	ActionKindWithdrawRequest: "withdrawRequest",
	ActionKindClaim:           "claim",
}

func (v ActionKind) IsValid() bool {
	_, ok := actionKindNames[v]
	return ok
}

func (v ActionKind) String() string {
	if s, ok := actionKindNames[v]; ok {
		return s
	}
	return fmt.Sprintf("ActionKind:%d", uint64(v))
}

// ActionKindByName returns the named action kind, case-insensitively.
func ActionKindByName(name string) (ActionKind, bool) {
	for k, n := range actionKindNames {
		if strings.EqualFold(n, name) {
			return k, true
		}
	}
	return 0, false
}

func (v ActionKind) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *ActionKind) UnmarshalText(b []byte) error {
	k, ok := ActionKindByName(string(b))
	if !ok {
		return fmt.Errorf("%q is not a valid action kind", b)
	}
	*v = k
	return nil
}
