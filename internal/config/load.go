// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package config

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override the
// configuration, for example STAKELEDGER_STORAGE_TYPE.
const EnvPrefix = "STAKELEDGER"

// Load reads the configuration file, if there is one, applies environment
// overrides, and validates the result. Variables from a .env file next to the
// configuration file, or in the working directory, are loaded first. They do
// not override variables that are already set.
func Load(file string) (*Config, error) {
	dotenv := ".env"
	if file != "" {
		dotenv = filepath.Join(filepath.Dir(file), ".env")
	}
	err := godotenv.Load(dotenv)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.BadRequest.WithFormat("load %s: %w", dotenv, err)
	}

	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		err = v.ReadInConfig()
		if err != nil {
			return nil, errors.BadRequest.WithFormat("read %s: %w", file, err)
		}
	}

	c := new(Config)
	err = v.Unmarshal(c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	)))
	if err != nil {
		return nil, errors.BadRequest.WithFormat("unmarshal: %w", err)
	}

	err = c.Validate()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("storage.type", c.Storage.Type)
	v.SetDefault("storage.path", c.Storage.Path)
	v.SetDefault("lock.policy", c.Lock.Policy)
	v.SetDefault("lock.period", c.Lock.Period)
	v.SetDefault("lock.epoch-length", c.Lock.EpochLength)
	v.SetDefault("lock.epoch-offset", c.Lock.EpochOffset)
	v.SetDefault("lock.epochs", c.Lock.Epochs)
	v.SetDefault("logging.format", c.Logging.Format)
	v.SetDefault("logging.rules", c.Logging.Rules)
	v.SetDefault("api.listen", c.API.Listen)
	v.SetDefault("api.enable-mint", c.API.EnableMint)
	v.SetDefault("api.read-header-timeout", c.API.ReadHeaderTimeout)
	v.SetDefault("metrics.listen", c.Metrics.Listen)
}

var validate = validator.New()

// Validate checks the configuration.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err != nil {
		return errors.BadRequest.WithFormat("invalid config: %w", err)
	}

	switch c.Lock.Policy {
	case LockDuration:
		if c.Lock.Period < 0 {
			return errors.BadRequest.WithFormat("invalid config: lock period %v is negative", c.Lock.Period)
		}
	case LockEpoch:
		if c.Lock.EpochLength <= 0 {
			return errors.BadRequest.WithFormat("invalid config: epoch length must be positive, got %v", c.Lock.EpochLength)
		}
		if c.Lock.EpochOffset < 0 || c.Lock.EpochOffset >= c.Lock.EpochLength {
			return errors.BadRequest.WithFormat("invalid config: epoch offset %v must be within the epoch length", c.Lock.EpochOffset)
		}
	}

	if _, err := c.LogRules(); err != nil {
		return errors.BadRequest.WithFormat("invalid config: %w", err)
	}

	for _, addr := range []string{c.API.Listen, c.Metrics.Listen} {
		if addr == "" {
			continue
		}
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return errors.BadRequest.WithFormat("invalid config: listen address %q: %w", addr, err)
		}
	}
	return nil
}

// Save writes the configuration to a TOML, YAML, or JSON file, chosen by the
// file's extension.
func (c *Config) Save(file string) error {
	var format func(any) ([]byte, error)
	switch s := filepath.Ext(file); s {
	case ".toml", ".tml":
		format = MarshalTOML
	case ".yaml", ".yml":
		format = yaml.Marshal
	case ".json":
		format = func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }
	default:
		return errors.BadRequest.WithFormat("unknown file type %s", s)
	}

	b, err := format(c)
	if err != nil {
		return errors.EncodingError.WithFormat("encode config: %w", err)
	}
	return os.WriteFile(file, b, 0600)
}

func MarshalTOML(a any) ([]byte, error) {
	b := new(bytes.Buffer)
	e := toml.NewEncoder(b)
	err := e.Encode(a)
	return b.Bytes(), err
}
