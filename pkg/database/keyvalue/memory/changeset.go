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
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/record"
)

// Entry is a pending write. Keys are fully prefixed.
type Entry struct {
	Key    *record.Key
	Value  []byte
	Delete bool
}

type GetFunc = func(*record.Key) ([]byte, error)
type CommitFunc = func(map[[32]byte]Entry) error

type ChangeSetOptions struct {
	// Prefix is applied to every key before it reaches Get or Commit.
	Prefix *record.Key

	// Get reads a value from the underlying store.
	Get GetFunc

	// Commit writes the change set to the underlying store. A nil Commit makes
	// the change set read-only.
	Commit CommitFunc

	// Discard is called once when the change set is committed or discarded.
	Discard func()
}

// ChangeSet buffers writes in memory until Commit. Reads see pending writes
// first and fall through to the underlying store.
type ChangeSet struct {
	opts    ChangeSetOptions
	mu      sync.RWMutex
	entries map[[32]byte]Entry
	done    bool
}

var _ keyvalue.ChangeSet = (*ChangeSet)(nil)

func NewChangeSet(opts ChangeSetOptions) *ChangeSet {
	return &ChangeSet{
		opts:    opts,
		entries: map[[32]byte]Entry{},
	}
}

// Begin begins a nested change set. Committing it writes into this change set.
func (c *ChangeSet) Begin(prefix *record.Key, writable bool) keyvalue.ChangeSet {
	var commit CommitFunc
	if writable {
		commit = c.putAll
	}
	return NewChangeSet(ChangeSetOptions{
		Prefix: prefix,
		Get:    c.Get,
		Commit: commit,
	})
}

func (c *ChangeSet) Get(key *record.Key) ([]byte, error) {
	return c.getPrefixed(c.opts.Prefix.AppendKey(key))
}

func (c *ChangeSet) getPrefixed(key *record.Key) ([]byte, error) {
	c.mu.RLock()
	if c.done {
		c.mu.RUnlock()
		return nil, errors.InternalError.With("change set has been committed or discarded")
	}
	e, ok := c.entries[key.Hash()]
	c.mu.RUnlock()

	switch {
	case !ok:
		// Fall through
	case e.Delete:
		return nil, (*database.NotFoundError)(key)
	default:
		v := make([]byte, len(e.Value))
		copy(v, e.Value)
		return v, nil
	}

	if c.opts.Get == nil {
		return nil, (*database.NotFoundError)(key)
	}
	return c.opts.Get(key)
}

func (c *ChangeSet) Put(key *record.Key, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	return c.put(Entry{Key: c.opts.Prefix.AppendKey(key), Value: v})
}

func (c *ChangeSet) Delete(key *record.Key) error {
	return c.put(Entry{Key: c.opts.Prefix.AppendKey(key), Delete: true})
}

func (c *ChangeSet) put(e Entry) error {
	if c.opts.Commit == nil {
		return errors.BadRequest.With("change set is not writable")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return errors.InternalError.With("change set has been committed or discarded")
	}
	c.entries[e.Key.Hash()] = e
	return nil
}

func (c *ChangeSet) putAll(entries map[[32]byte]Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return errors.InternalError.With("change set has been committed or discarded")
	}
	for _, e := range entries {
		// Nested entries are relative to this change set's prefix
		e.Key = c.opts.Prefix.AppendKey(e.Key)
		c.entries[e.Key.Hash()] = e
	}
	return nil
}

func (c *ChangeSet) Commit() error {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return errors.InternalError.With("change set has been committed or discarded")
	}
	c.done = true
	entries := c.entries
	c.entries = nil
	c.mu.Unlock()

	defer c.release()

	if len(entries) == 0 {
		return nil
	}
	if c.opts.Commit == nil {
		return errors.BadRequest.With("change set is not writable")
	}
	return c.opts.Commit(entries)
}

func (c *ChangeSet) Discard() {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	c.entries = nil
	c.mu.Unlock()

	c.release()
}

func (c *ChangeSet) release() {
	if c.opts.Discard != nil {
		c.opts.Discard()
	}
}
