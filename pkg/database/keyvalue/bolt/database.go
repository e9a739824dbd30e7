// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package bolt

import (
	"time"

	"gitlab.com/accumulatenetwork/stakeledger/pkg/database"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue/memory"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/record"
	bolt "go.etcd.io/bbolt"
)

// Database is a bbolt key-value store. The first part of every key must be a
// string and selects the bucket. The rest of the key is hashed.
type Database struct {
	opts
	bolt *bolt.DB
}

type opts struct {
	timeout time.Duration
}

type Option func(*opts) error

// WithTimeout sets how long Open waits for the file lock. Zero waits forever.
func WithTimeout(d time.Duration) Option {
	return func(o *opts) error {
		if d < 0 {
			return errors.BadRequest.WithFormat("invalid timeout %v", d)
		}
		o.timeout = d
		return nil
	}
}

var _ keyvalue.Beginner = (*Database)(nil)

func Open(filepath string, o ...Option) (*Database, error) {
	d := new(Database)
	var err error
	for _, o := range o {
		err = o(&d.opts)
		if err != nil {
			return nil, errors.UnknownError.Wrap(err)
		}
	}

	// Open
	d.bolt, err = bolt.Open(filepath, 0600, &bolt.Options{Timeout: d.timeout})
	if err != nil {
		return nil, errors.UnknownError.WithFormat("open %q: %w", filepath, err)
	}

	return d, nil
}

func (d *Database) bucket(tx *bolt.Tx, key *record.Key, create bool) (*bolt.Bucket, []byte, error) {
	if key.Len() == 0 {
		return nil, nil, errors.InternalError.With("invalid key (1)")
	}

	s, ok := key.Get(0).(string)
	if !ok || s == "" {
		return nil, nil, errors.InternalError.WithFormat("invalid key (2): %v", key)
	}

	b := tx.Bucket([]byte(s))
	if b == nil {
		if !create {
			// No reason to do more work
			return nil, nil, nil
		}

		var err error
		b, err = tx.CreateBucket([]byte(s))
		if err != nil {
			return nil, nil, err
		}
	}

	h := key.SliceI(1).Hash()
	return b, h[:], nil
}

// Begin begins a change set. Each read runs in its own read-only transaction,
// so an open change set never holds a transaction that would block a writer
// on the same goroutine.
func (d *Database) Begin(prefix *record.Key, writable bool) keyvalue.ChangeSet {
	// Commit to the write batch
	var commit memory.CommitFunc
	if writable {
		commit = d.commit
	}

	// The memory changeset caches entries in a map so Get will see values
	// updated with Put, regardless of the underlying transaction behavior
	return memory.NewChangeSet(memory.ChangeSetOptions{
		Prefix: prefix,
		Get:    d.get,
		Commit: commit,
	})
}

func (d *Database) get(key *record.Key) ([]byte, error) {
	var value []byte
	err := d.bolt.View(func(tx *bolt.Tx) error {
		b, k, err := d.bucket(tx, key, false)
		if err != nil {
			return err
		}
		if b == nil {
			return (*database.NotFoundError)(key)
		}

		v := b.Get(k)
		if v == nil {
			return (*database.NotFoundError)(key)
		}

		// The slice is only valid for the life of the transaction
		value = make([]byte, len(v))
		copy(value, v)
		return nil
	})
	return value, err
}

func (d *Database) commit(entries map[[32]byte]memory.Entry) error {
	return d.bolt.Update(func(tx *bolt.Tx) error {
		for _, e := range entries {
			b, k, err := d.bucket(tx, e.Key, true)
			if err != nil {
				return err
			}

			if e.Delete {
				err = b.Delete(k)
			} else {
				err = b.Put(k, e.Value)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *Database) Close() error {
	return d.bolt.Close()
}
