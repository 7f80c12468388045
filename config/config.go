// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package config loads and stores the node configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml"
	"github.com/spf13/viper"
	"gitlab.com/meridianframework/meridian/protocol"
)

const (
	configDir  = "config"
	configFile = "meridian.toml"
)

type StorageType string

const (
	MemoryStorage StorageType = "memory"
	BadgerStorage StorageType = "badger"
	BoltStorage   StorageType = "bolt"
)

type Config struct {
	RootDir string `toml:"-" mapstructure:"-" validate:"-"`

	Storage    Storage    `toml:"storage" mapstructure:"storage"`
	Governance Governance `toml:"governance" mapstructure:"governance"`
	Logging    Logging    `toml:"logging" mapstructure:"logging"`
}

type Storage struct {
	Type StorageType `toml:"type" mapstructure:"type" validate:"oneof=memory badger bolt"`
	Path string      `toml:"path" mapstructure:"path" validate:"required"`
}

type Governance struct {
	// Authority is the name of the root authority resolved capabilities act
	// for.
	Authority string `toml:"authority" mapstructure:"authority" validate:"required"`

	// Council lists the members allowed to submit and vote on proposals.
	Council []string `toml:"council" mapstructure:"council" validate:"min=1,dive,required"`

	// Threshold is the number of approvals required to approve a proposal.
	Threshold int `toml:"threshold" mapstructure:"threshold" validate:"min=1"`

	// NativeCoin is the coin type registered by the native conversion
	// proposal.
	NativeCoin string `toml:"native-coin" mapstructure:"native-coin" validate:"required"`
}

type Logging struct {
	// Level is the minimum log level, e.g. "info" or "debug".
	Level string `toml:"level" mapstructure:"level" validate:"required"`

	// TraceErrors includes call stacks when logging errors.
	TraceErrors bool `toml:"trace-errors" mapstructure:"trace-errors"`
}

// Default returns the default configuration rooted at the given directory.
func Default(dir string) *Config {
	c := new(Config)
	c.RootDir = dir
	c.Storage.Type = BadgerStorage
	c.Storage.Path = filepath.Join("data", "meridian.db")
	c.Governance.Authority = protocol.RootAuthority
	c.Governance.Council = protocol.DefaultCouncil
	c.Governance.Threshold = protocol.DefaultApprovalThreshold
	c.Governance.NativeCoin = string(protocol.NativeCoinType)
	c.Logging.Level = "info"
	return c
}

// MakeAbsolute joins the path with the root if the path is relative.
func MakeAbsolute(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// StoragePath returns the absolute path of the storage directory or file.
func (c *Config) StoragePath() string {
	return MakeAbsolute(c.RootDir, c.Storage.Path)
}

// Load reads and validates the configuration in dir.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, configDir, configFile))
	err := v.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("read: %v", err)
	}

	c := new(Config)
	err = v.Unmarshal(c)
	if err != nil {
		return nil, fmt.Errorf("unmarshal: %v", err)
	}
	c.RootDir = dir

	err = validator.New().Struct(c)
	if err != nil {
		return nil, fmt.Errorf("validate: %v", err)
	}

	_, err = protocol.ParseCoinType(c.Governance.NativeCoin)
	if err != nil {
		return nil, fmt.Errorf("validate: %v", err)
	}
	return c, nil
}

// Store writes the configuration to its root directory.
func Store(c *Config) error {
	err := os.MkdirAll(filepath.Join(c.RootDir, configDir), 0755)
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(c.RootDir, configDir, configFile))
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
