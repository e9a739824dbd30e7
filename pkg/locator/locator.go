// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package locator derives deterministic account identifiers for ledger
// records. A locator is the chained hash of a namespace and a list of key
// parts, so the same inputs always produce the same account and a different
// namespace or part produces a different one.
package locator

import (
	"bytes"
	"encoding/json"

	"github.com/mr-tron/base58"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/record"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/staking"
)

// Namespace separates the address spaces of different record kinds.
type Namespace string

const (
	NamespacePoolVault     Namespace = "pool-vault"
	NamespacePoolState     Namespace = "pool-state"
	NamespaceActionCounter Namespace = "action-counter"
	NamespaceActionEntry   Namespace = "action-entry"
	NamespaceInterest      Namespace = "interest"
	NamespaceAdmin         Namespace = "admin"
	NamespaceAssetAccount  Namespace = "asset-account"
)

// AccountID is a 32-byte account identifier.
type AccountID [32]byte

// Bytes returns the identifier as a byte slice. It also makes an AccountID
// usable as a record key part.
func (a AccountID) Bytes() []byte { return a[:] }

// String returns the base58 encoding of the identifier.
func (a AccountID) String() string { return base58.Encode(a[:]) }

func (a AccountID) IsZero() bool { return a == AccountID{} }

// Compare orders identifiers bytewise.
func (a AccountID) Compare(b AccountID) int { return bytes.Compare(a[:], b[:]) }

func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountID) UnmarshalText(b []byte) error {
	v, err := ParseAccountID(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (a AccountID) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *AccountID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.InvalidLocator.WithCauseAndFormat(err, "decode account id")
	}
	return a.UnmarshalText([]byte(s))
}

// ParseAccountID parses a base58 encoded identifier.
func ParseAccountID(s string) (AccountID, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return AccountID{}, errors.InvalidLocator.WithFormat("parse account id %q: %w", s, err)
	}
	if len(b) != len(AccountID{}) {
		return AccountID{}, errors.InvalidLocator.WithFormat("parse account id %q: want 32 bytes, got %d", s, len(b))
	}
	return AccountID(b), nil
}

// Locate derives the account identifier of a record from a namespace and key
// parts. Parts may be strings, identities, token IDs, account IDs, byte
// slices, or integers. Locate fails with [errors.InvalidLocator] if the
// namespace is empty, a string part is empty, or a part has an unsupported
// type.
func Locate(ns Namespace, parts ...any) (AccountID, error) {
	if ns == "" {
		return AccountID{}, errors.InvalidLocator.With("empty namespace")
	}

	key := record.NewKey(string(ns))
	for i, p := range parts {
		switch v := p.(type) {
		case staking.Identity:
			p = string(v)
		case staking.TokenID:
			p = string(v)
		case Namespace:
			p = string(v)
		case nil:
			return AccountID{}, errors.InvalidLocator.WithFormat("%s: part %d is nil", ns, i)
		}

		if s, ok := p.(string); ok && s == "" {
			return AccountID{}, errors.InvalidLocator.WithFormat("%s: part %d is empty", ns, i)
		}
		if !record.IsKeyPart(p) {
			return AccountID{}, errors.InvalidLocator.WithFormat("%s: part %d: unsupported type %T", ns, i, p)
		}
		key = key.Append(p)
	}

	return AccountID(key.Hash()), nil
}

// PoolVault is the custodian account holding a token's staked funds.
func PoolVault(token staking.TokenID) (AccountID, error) {
	return Locate(NamespacePoolVault, token)
}

// PoolState is the ledger's bookkeeping record of a token's pool.
func PoolState(token staking.TokenID) (AccountID, error) {
	return Locate(NamespacePoolState, token)
}

// Counter is the action counter of a staker for a token.
func Counter(staker staking.Identity, token staking.TokenID) (AccountID, error) {
	return Locate(NamespaceActionCounter, staker, token)
}

// Entry is the action entry of a staker for a token at a sequence number.
func Entry(staker staking.Identity, token staking.TokenID, seq uint64) (AccountID, error) {
	return Locate(NamespaceActionEntry, staker, token, seq)
}

// Interest is the interest rate record of a token.
func Interest(token staking.TokenID) (AccountID, error) {
	return Locate(NamespaceInterest, token)
}

// Admin is the singleton admin record.
func Admin() AccountID {
	id, err := Locate(NamespaceAdmin)
	if err != nil {
		// The namespace is a non-empty constant
		panic(err)
	}
	return id
}

// AssetAccount is the custodian account of an owner for one token.
func AssetAccount(owner staking.Identity, token staking.TokenID) (AccountID, error) {
	return Locate(NamespaceAssetAccount, owner, token)
}
