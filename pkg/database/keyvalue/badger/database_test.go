// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package badger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gitlab.com/accumulatenetwork/stakeledger/internal/logging"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue/kvtest"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/record"
)

func open(t testing.TB) kvtest.Opener {
	dir := t.TempDir()
	return func() (keyvalue.Beginner, error) {
		return New(dir)
	}
}

func TestSuite(t *testing.T) {
	kvtest.TestSuite(t, open(t))
}

func TestInMemory(t *testing.T) {
	db, err := New("", WithInMemory, WithLogger(logging.NewTestLogger(t)))
	require.NoError(t, err)
	defer db.Close()

	batch := db.Begin(nil, true)
	require.NoError(t, batch.Put(record.NewKey("foo"), []byte("bar")))
	require.NoError(t, batch.Commit())

	batch = db.Begin(nil, false)
	defer batch.Discard()
	v, err := batch.Get(record.NewKey("foo"))
	require.NoError(t, err)
	require.Equal(t, "bar", string(v))
}

func TestClosed(t *testing.T) {
	db, err := New("", WithInMemory)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.ErrorIs(t, db.Close(), errors.InternalError)
}

func TestInvalidGCInterval(t *testing.T) {
	_, err := New(t.TempDir(), WithGCInterval(-time.Minute))
	require.ErrorIs(t, err, errors.BadRequest)
}

func BenchmarkCommit(b *testing.B) {
	kvtest.BenchmarkCommit(b, open(b))
}

func BenchmarkReadRandom(b *testing.B) {
	kvtest.BenchmarkReadRandom(b, open(b))
}
