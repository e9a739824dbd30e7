// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package memory

import (
	"sync"

	"gitlab.com/accumulatenetwork/stakeledger/pkg/database"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/record"
)

type Database struct {
	mu      sync.RWMutex
	entries map[[32]byte]Entry
}

var _ keyvalue.Beginner = (*Database)(nil)

func New() *Database {
	return &Database{entries: map[[32]byte]Entry{}}
}

// Begin begins a change set.
func (d *Database) Begin(prefix *record.Key, writable bool) keyvalue.ChangeSet {
	var commit CommitFunc
	if writable {
		commit = d.put
	}
	return NewChangeSet(ChangeSetOptions{
		Prefix: prefix,
		Get:    d.get,
		Commit: commit,
	})
}

// Export exports the database as a set of entries.
func (d *Database) Export() []Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	entries := make([]Entry, 0, len(d.entries))
	for _, e := range d.entries {
		entries = append(entries, e)
	}
	return entries
}

// Import imports a set of entries into the database.
func (d *Database) Import(entries []Entry) error {
	m := make(map[[32]byte]Entry, len(entries))
	for _, e := range entries {
		m[e.Key.Hash()] = e
	}
	return d.put(m)
}

func (d *Database) get(key *record.Key) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	entry, ok := d.entries[key.Hash()]
	if !ok {
		return nil, (*database.NotFoundError)(key)
	}

	v := make([]byte, len(entry.Value))
	copy(v, entry.Value)
	return v, nil
}

func (d *Database) put(entries map[[32]byte]Entry) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for h, e := range entries {
		if e.Delete {
			delete(d.entries, h)
		} else {
			d.entries[h] = e
		}
	}
	return nil
}
