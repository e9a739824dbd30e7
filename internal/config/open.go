// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package config

import (
	"io"
	"log/slog"

	"gitlab.com/accumulatenetwork/stakeledger/internal/logging"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue/badger"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue/bolt"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue/leveldb"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue/memory"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
)

// Database is a key-value store that must be closed.
type Database interface {
	keyvalue.Beginner
	io.Closer
}

type memoryDatabase struct{ *memory.Database }

func (memoryDatabase) Close() error { return nil }

// OpenDatabase opens the configured storage backend. Backends that log write
// to the logger, if it is not nil.
func (c *Config) OpenDatabase(logger *slog.Logger) (Database, error) {
	var db Database
	var err error
	switch c.Storage.Type {
	case StorageMemory:
		return memoryDatabase{memory.New()}, nil
	case StorageBolt:
		db, err = bolt.Open(c.Storage.Path)
	case StorageBadger:
		var opts []badger.Option
		if logger != nil {
			opts = append(opts, badger.WithLogger(logger))
		}
		db, err = badger.New(c.Storage.Path, opts...)
	case StorageLevelDB:
		db, err = leveldb.OpenFile(c.Storage.Path)
	default:
		return nil, errors.BadRequest.WithFormat("unknown storage type %q", c.Storage.Type)
	}
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Logger returns a logger that writes to w in the configured format.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	rules, err := c.LogRules()
	if err != nil {
		return nil, err
	}
	h, err := logging.NewHandler(w, c.Logging.Format, rules)
	if err != nil {
		return nil, err
	}
	return slog.New(h), nil
}
