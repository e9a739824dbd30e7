// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package config

import (
	"time"

	"gitlab.com/accumulatenetwork/stakeledger/internal/ledger"
	"gitlab.com/accumulatenetwork/stakeledger/internal/logging"
)

const (
	StorageMemory  = "memory"
	StorageBolt    = "bolt"
	StorageBadger  = "badger"
	StorageLevelDB = "leveldb"

	LockEpoch    = "epoch"
	LockDuration = "duration"
)

type Config struct {
	Storage Storage `mapstructure:"storage" toml:"storage" yaml:"storage" json:"storage"`
	Lock    Lock    `mapstructure:"lock" toml:"lock" yaml:"lock" json:"lock"`
	Logging Logging `mapstructure:"logging" toml:"logging" yaml:"logging" json:"logging"`
	API     API     `mapstructure:"api" toml:"api" yaml:"api" json:"api"`
	Metrics Metrics `mapstructure:"metrics" toml:"metrics" yaml:"metrics" json:"metrics"`
}

type Storage struct {
	// Type is the key-value backend.
	Type string `mapstructure:"type" toml:"type" yaml:"type" json:"type" validate:"required,oneof=memory bolt badger leveldb"`

	// Path is the database file or directory. It is required unless the
	// backend is memory.
	Path string `mapstructure:"path" toml:"path" yaml:"path" json:"path" validate:"required_unless=Type memory"`
}

type Lock struct {
	Policy string `mapstructure:"policy" toml:"policy" yaml:"policy" json:"policy" validate:"required,oneof=epoch duration"`

	// Period is the lock of the duration policy.
	Period time.Duration `mapstructure:"period" toml:"period" yaml:"period" json:"period"`

	// EpochLength, EpochOffset, and Epochs configure the epoch policy.
	EpochLength time.Duration `mapstructure:"epoch-length" toml:"epoch-length" yaml:"epoch-length" json:"epoch-length"`
	EpochOffset time.Duration `mapstructure:"epoch-offset" toml:"epoch-offset" yaml:"epoch-offset" json:"epoch-offset"`
	Epochs      uint          `mapstructure:"epochs" toml:"epochs" yaml:"epochs" json:"epochs"`
}

type Logging struct {
	Format string `mapstructure:"format" toml:"format" yaml:"format" json:"format" validate:"omitempty,oneof=text plain json"`

	// Rules are module level rules such as "error;ledger=info".
	Rules string `mapstructure:"rules" toml:"rules" yaml:"rules" json:"rules"`
}

type API struct {
	Listen            string        `mapstructure:"listen" toml:"listen" yaml:"listen" json:"listen" validate:"required"`
	EnableMint        bool          `mapstructure:"enable-mint" toml:"enable-mint" yaml:"enable-mint" json:"enable-mint"`
	ReadHeaderTimeout time.Duration `mapstructure:"read-header-timeout" toml:"read-header-timeout" yaml:"read-header-timeout" json:"read-header-timeout"`
}

type Metrics struct {
	// Listen is the address of a separate metrics server. If it is empty,
	// metrics are served by the API server.
	Listen string `mapstructure:"listen" toml:"listen" yaml:"listen" json:"listen"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: Storage{
			Type: StorageBolt,
			Path: "stakeledger.db",
		},
		Lock: Lock{
			Policy:      LockEpoch,
			Period:      24 * time.Hour,
			EpochLength: 24 * time.Hour,
			Epochs:      1,
		},
		Logging: Logging{
			Format: "text",
			Rules:  "error;ledger=info;custodian=info;api=info",
		},
		API: API{
			Listen:            "127.0.0.1:8080",
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// LockPolicy returns the configured lock policy.
func (c *Config) LockPolicy() ledger.LockPolicy {
	if c.Lock.Policy == LockDuration {
		return ledger.DurationLock{Period: c.Lock.Period}
	}
	return ledger.EpochLock{
		Length: c.Lock.EpochLength,
		Offset: c.Lock.EpochOffset,
		Epochs: c.Lock.Epochs,
	}
}

// LogRules parses the logging rules.
func (c *Config) LogRules() ([]logging.Rule, error) {
	return logging.ParseRules(c.Logging.Rules)
}
