// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gitlab.com/accumulatenetwork/stakeledger/internal/ledger"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	require.Equal(t, ledger.DefaultLockPolicy(), c.LockPolicy())
}

func TestSaveAndLoad(t *testing.T) {
	for _, ext := range []string{".toml", ".yaml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			c := Default()
			c.Storage.Type = StorageBadger
			c.Storage.Path = filepath.Join(t.TempDir(), "data")
			c.Lock.EpochLength = 7 * 24 * time.Hour
			c.Lock.EpochOffset = 2 * time.Hour
			c.Lock.Epochs = 2
			c.API.EnableMint = true

			file := filepath.Join(t.TempDir(), "stakeledger"+ext)
			require.NoError(t, c.Save(file))

			d, err := Load(file)
			require.NoError(t, err)
			require.Equal(t, c, d)
		})
	}
}

func TestSaveUnknownExtension(t *testing.T) {
	err := Default().Save(filepath.Join(t.TempDir(), "stakeledger.ini"))
	require.ErrorIs(t, err, errors.BadRequest)
}

func TestLoadWithoutFile(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), c)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STAKELEDGER_STORAGE_TYPE", "memory")
	t.Setenv("STAKELEDGER_LOCK_POLICY", "duration")
	t.Setenv("STAKELEDGER_LOCK_PERIOD", "90m")
	t.Setenv("STAKELEDGER_LOCK_EPOCHS", "3")
	t.Setenv("STAKELEDGER_API_ENABLE_MINT", "true")

	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, StorageMemory, c.Storage.Type)
	require.Equal(t, 90*time.Minute, c.Lock.Period)
	require.Equal(t, uint(3), c.Lock.Epochs)
	require.True(t, c.API.EnableMint)
	require.Equal(t, ledger.DurationLock{Period: 90 * time.Minute}, c.LockPolicy())
}

func TestDotEnv(t *testing.T) {
	const key = "STAKELEDGER_LOGGING_FORMAT"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	dir := t.TempDir()
	file := filepath.Join(dir, "stakeledger.toml")
	require.NoError(t, Default().Save(file))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=json\n"), 0600))

	c, err := Load(file)
	require.NoError(t, err)
	require.Equal(t, "json", c.Logging.Format)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"storage type":   func(c *Config) { c.Storage.Type = "sqlite" },
		"storage path":   func(c *Config) { c.Storage.Path = "" },
		"lock policy":    func(c *Config) { c.Lock.Policy = "forever" },
		"epoch length":   func(c *Config) { c.Lock.EpochLength = 0 },
		"epoch offset":   func(c *Config) { c.Lock.EpochOffset = c.Lock.EpochLength },
		"lock period":    func(c *Config) { c.Lock.Policy = LockDuration; c.Lock.Period = -time.Second },
		"log format":     func(c *Config) { c.Logging.Format = "xml" },
		"log rules":      func(c *Config) { c.Logging.Rules = "ledger=loud" },
		"api listen":     func(c *Config) { c.API.Listen = "" },
		"metrics listen": func(c *Config) { c.Metrics.Listen = "nowhere" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			require.ErrorIs(t, c.Validate(), errors.BadRequest)
		})
	}

	c := Default()
	c.Storage.Type = StorageMemory
	c.Storage.Path = ""
	require.NoError(t, c.Validate())
}

func TestOpenMemory(t *testing.T) {
	c := Default()
	c.Storage.Type = StorageMemory
	db, err := c.OpenDatabase(nil)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	c.Storage.Type = StorageBolt
	c.Storage.Path = filepath.Join(t.TempDir(), "ledger.db")
	db, err = c.OpenDatabase(nil)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}
