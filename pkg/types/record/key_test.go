// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package record_test

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
	. "gitlab.com/accumulatenetwork/stakeledger/pkg/types/record"
)

func TestKeyHashChain(t *testing.T) {
	// The hash of a key is sha256 chained over each part, starting from zero
	var zero KeyHash
	step1 := sha256.Sum256(append(zero[:], []byte("Foo")...))
	step2 := sha256.Sum256(append(step1[:], 0x02))

	require.Equal(t, KeyHash(step1), NewKey("Foo").Hash())
	require.Equal(t, KeyHash(step2), NewKey("Foo", 1).Hash())
}

func TestKeyHashAppend(t *testing.T) {
	k := NewKey("Foo", "Bar", uint64(7))
	h := NewKey("Foo").Hash()
	require.Equal(t, k.Hash(), NewKey(h, "Bar", uint64(7)).Hash())
	require.Equal(t, k.Hash(), NewKey("Foo").Append("Bar", uint64(7)).Hash())
}

func TestKeyHashDistinct(t *testing.T) {
	cases := []*Key{
		NewKey("a"),
		NewKey("b"),
		NewKey("a", "b"),
		NewKey("ab"),
		NewKey("a", 1),
		NewKey("a", 2),
		NewKey("a", [32]byte{1}),
	}
	seen := map[KeyHash]string{}
	for _, k := range cases {
		h := k.Hash()
		prev, ok := seen[h]
		require.Falsef(t, ok, "%v collides with %v", k, prev)
		seen[h] = k.String()
	}
}

func TestKeyValid(t *testing.T) {
	require.NoError(t, NewKey("a", 1, uint64(2), []byte{3}, [32]byte{4}).Valid())
	require.Error(t, NewKey("a", 1.5).Valid())
	require.Error(t, NewKey(struct{}{}).Valid())
	require.False(t, IsKeyPart(map[string]int{}))
	require.Panics(t, func() { NewKey(1.5).Hash() })
}

func TestKeyEqual(t *testing.T) {
	require.True(t, NewKey("a", 1).Equal(NewKey("a", 1)))
	require.False(t, NewKey("a", 1).Equal(NewKey("a", 2)))
	require.False(t, NewKey("a").Equal(NewKey("a", 1)))
	require.True(t, (*Key)(nil).Equal(NewKey()))
}

func TestKeyString(t *testing.T) {
	require.Equal(t, "()", NewKey().String())
	require.Equal(t, "Ledger.Entry.3", NewKey("Ledger", "Entry", 3).String())
}

func BenchmarkKey_Hash(b *testing.B) {
	key := NewKey("foo", 1)
	var x [32]byte
	for range b.N {
		x = key.Hash()
	}
	require.NotZero(b, x)
}
