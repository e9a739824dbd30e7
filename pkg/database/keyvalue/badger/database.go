// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package badger

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue/memory"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/record"
)

type Database struct {
	opts
	badger *badger.DB
	ready  bool
	mu     sync.RWMutex
	done   chan struct{}
}

type opts struct {
	gcInterval time.Duration
	inMemory   bool
	logger     *slog.Logger
}

type Option func(*opts) error

// WithGCInterval sets how often the value log is garbage collected. Zero
// disables GC.
func WithGCInterval(d time.Duration) Option {
	return func(o *opts) error {
		if d < 0 {
			return errors.BadRequest.WithFormat("invalid GC interval %v", d)
		}
		o.gcInterval = d
		return nil
	}
}

// WithInMemory runs Badger without touching the disk.
func WithInMemory(o *opts) error {
	o.inMemory = true
	return nil
}

// WithLogger sends Badger's logs to the logger, tagged with module=badger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *opts) error {
		o.logger = logger
		return nil
	}
}

var _ keyvalue.Beginner = (*Database)(nil)

func New(filepath string, o ...Option) (*Database, error) {
	d := new(Database)
	d.gcInterval = time.Hour
	for _, o := range o {
		err := o(&d.opts)
		if err != nil {
			return nil, errors.UnknownError.Wrap(err)
		}
	}

	var opts badger.Options
	if d.inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Make sure all directories exist
		err := os.MkdirAll(filepath, 0700)
		if err != nil {
			return nil, errors.UnknownError.WithFormat("open badger: create %q: %w", filepath, err)
		}
		opts = badger.DefaultOptions(filepath)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	d.logger = d.logger.With("module", "badger")
	opts = opts.WithLogger(slogger{d.logger})

	// Open Badger
	var err error
	d.badger, err = badger.Open(opts)
	if err != nil {
		return nil, errors.UnknownError.WithFormat("open badger: %w", err)
	}

	d.ready = true
	d.done = make(chan struct{})
	mDbOpen.Inc()

	if d.gcInterval > 0 && !d.inMemory {
		go d.gc()
	}

	return d, nil
}

func (d *Database) key(key *record.Key) []byte {
	h := key.Hash()
	return h[:]
}

// Begin begins a change set.
func (d *Database) Begin(prefix *record.Key, writable bool) keyvalue.ChangeSet {
	// Use a read-only transaction for reading
	rd := d.badger.NewTransaction(false)
	mTxnOpen.Inc()

	// Read from the transaction
	get := func(key *record.Key) ([]byte, error) {
		l, err := d.lock(false)
		if err != nil {
			return nil, err
		}
		defer l.Unlock()

		item, err := rd.Get(d.key(key))
		switch {
		case err == nil:
			// Ok
		case errors.Is(err, badger.ErrKeyNotFound):
			return nil, (*database.NotFoundError)(key)
		default:
			return nil, errors.UnknownError.WithFormat("get %v: %w", key, err)
		}

		v, err := item.ValueCopy(nil)
		if err != nil {
			return nil, errors.UnknownError.WithFormat("get %v: %w", key, err)
		}
		return v, nil
	}

	// Commit to the write batch
	var commit memory.CommitFunc
	if writable {
		commit = d.commit
	}

	// Discard the transaction
	discard := func() {
		rd.Discard()
		mTxnOpen.Dec()
	}

	// The memory changeset caches entries in a map so Get will see values
	// updated with Put, regardless of the underlying transaction and write
	// batch behavior
	return memory.NewChangeSet(memory.ChangeSetOptions{
		Prefix:  prefix,
		Get:     get,
		Commit:  commit,
		Discard: discard,
	})
}

func (d *Database) commit(entries map[[32]byte]memory.Entry) error {
	l, err := d.lock(false)
	if err != nil {
		return err
	}
	defer l.Unlock()

	start := time.Now()
	defer func() { mCommitDuration.Set(time.Since(start).Seconds()) }()

	// Use a write batch for writing to work around Badger's transaction size
	// limits
	wr := d.badger.NewWriteBatch()
	defer wr.Cancel()

	for _, e := range entries {
		if e.Delete {
			err = wr.Delete(d.key(e.Key))
		} else {
			err = wr.Set(d.key(e.Key), e.Value)
		}
		if err != nil {
			return errors.UnknownError.WithFormat("commit: %w", err)
		}
	}

	err = wr.Flush()
	if err != nil {
		return errors.UnknownError.WithFormat("commit: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (d *Database) Close() error {
	l, err := d.lock(true)
	if err != nil {
		return err
	}
	defer l.Unlock()

	d.ready = false
	close(d.done)
	mDbOpen.Dec()
	return d.badger.Close()
}

func (d *Database) gc() {
	tick := time.NewTicker(d.gcInterval)
	defer tick.Stop()

	for {
		select {
		case <-d.done:
			return
		case <-tick.C:
		}

		// Still open?
		l, err := d.lock(false)
		if err != nil {
			return
		}

		// Run GC if 50% space could be reclaimed
		start := time.Now()
		err = d.badger.RunValueLogGC(0.5)
		if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
			d.logger.Error("Badger GC failed", "error", err)
		}
		mGcRun.Inc()
		mGcDuration.Set(time.Since(start).Seconds())

		// Release the lock
		l.Unlock()
	}
}

// lock acquires a lock on the ready mutex and checks for readiness. This
// prevents races between reads or commits and Close.
func (d *Database) lock(closing bool) (sync.Locker, error) {
	var l sync.Locker = &d.mu
	if !closing {
		l = d.mu.RLocker()
	}

	l.Lock()
	if !d.ready {
		l.Unlock()
		return nil, errors.InternalError.With("database is closed")
	}

	return l, nil
}
