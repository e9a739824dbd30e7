// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package bolt

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue/kvtest"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/record"
)

func open(t testing.TB) kvtest.Opener {
	dir := t.TempDir()
	return func() (keyvalue.Beginner, error) {
		return Open(filepath.Join(dir, "bolt.db"), WithTimeout(time.Second))
	}
}

func TestSuite(t *testing.T) {
	kvtest.TestSuite(t, open(t))
}

func TestKeyMustNameBucket(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "bolt.db"))
	require.NoError(t, err)
	defer db.Close()

	batch := db.Begin(nil, true)
	defer batch.Discard()
	require.NoError(t, batch.Put(record.NewKey(1, "foo"), []byte("bar")))
	require.ErrorIs(t, batch.Commit(), errors.InternalError)
}

func TestReadDuringWrite(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "bolt.db"))
	require.NoError(t, err)
	defer db.Close()

	// An open change set must not block commits from another change set
	outer := db.Begin(nil, true)
	defer outer.Discard()
	_, err = outer.Get(record.NewKey("Bank", "x"))
	require.ErrorIs(t, err, errors.NotFound)

	inner := db.Begin(nil, true)
	require.NoError(t, inner.Put(record.NewKey("Bank", "x"), []byte{1}))
	require.NoError(t, inner.Commit())

	v, err := outer.Get(record.NewKey("Bank", "x"))
	require.NoError(t, err)
	require.Equal(t, []byte{1}, v)
}

func TestInvalidTimeout(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "bolt.db"), WithTimeout(-time.Second))
	require.ErrorIs(t, err, errors.BadRequest)
}

func BenchmarkCommit(b *testing.B) {
	kvtest.BenchmarkCommit(b, open(b))
}

func BenchmarkReadRandom(b *testing.B) {
	kvtest.BenchmarkReadRandom(b, open(b))
}
