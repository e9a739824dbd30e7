// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue/kvtest"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/record"
)

func open(testing.TB) kvtest.Opener {
	// Reuse the same in-memory database each time
	db := New()
	return func() (keyvalue.Beginner, error) { return db, nil }
}

func TestSuite(t *testing.T) {
	kvtest.TestSuite(t, open(t))
}

func TestReadOnly(t *testing.T) {
	db := New()
	batch := db.Begin(nil, false)
	defer batch.Discard()
	require.ErrorIs(t, batch.Put(record.NewKey("foo"), []byte("bar")), errors.BadRequest)
	require.NoError(t, batch.Commit())
}

func TestUseAfterCommit(t *testing.T) {
	db := New()
	batch := db.Begin(nil, true)
	require.NoError(t, batch.Commit())
	require.Error(t, batch.Commit())
	require.Error(t, batch.Put(record.NewKey("foo"), nil))
	_, err := batch.Get(record.NewKey("foo"))
	require.ErrorIs(t, err, errors.InternalError)

	// Discard after commit is a no-op
	batch.Discard()
}

func TestExportImport(t *testing.T) {
	db := New()
	batch := db.Begin(nil, true)
	require.NoError(t, batch.Put(record.NewKey("foo", 1), []byte("bar")))
	require.NoError(t, batch.Commit())

	other := New()
	require.NoError(t, other.Import(db.Export()))
	batch = other.Begin(nil, false)
	defer batch.Discard()
	v, err := batch.Get(record.NewKey("foo", 1))
	require.NoError(t, err)
	require.Equal(t, "bar", string(v))
}

func BenchmarkCommit(b *testing.B) {
	kvtest.BenchmarkCommit(b, open(b))
}

func BenchmarkReadRandom(b *testing.B) {
	kvtest.BenchmarkReadRandom(b, open(b))
}
