// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"os"

	"gitlab.com/meridianframework/meridian/config"
	"gitlab.com/meridianframework/meridian/internal/core/execute"
	"gitlab.com/meridianframework/meridian/internal/database"
	"gitlab.com/meridianframework/meridian/internal/governance"
	"gitlab.com/meridianframework/meridian/internal/logging"
	"gitlab.com/meridianframework/meridian/internal/registry"
	"gitlab.com/meridianframework/meridian/pkg/database/keyvalue"
	"gitlab.com/meridianframework/meridian/pkg/database/keyvalue/badger"
	"gitlab.com/meridianframework/meridian/pkg/database/keyvalue/bolt"
	"gitlab.com/meridianframework/meridian/pkg/database/keyvalue/memory"
	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/protocol"
)

// node bundles everything a command needs to operate on the work dir.
type node struct {
	config *config.Config
	logger logging.Logger
	db     *database.Database
	gov    *governance.Governor
	reg    *registry.Registry
	runner *execute.Runner
}

// openNode loads the configuration and opens the database. The caller must
// call close.
func openNode() *node {
	cfg, err := config.Load(flagMain.WorkDir)
	checkf(err, "load configuration")

	logger, err := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.TraceErrors)
	checkf(err, "initialize logging")

	store, err := openStore(cfg)
	checkf(err, "open database")

	n := new(node)
	n.config = cfg
	n.logger = logger
	n.db = database.New(store, logger)
	n.gov = governance.New(governance.Options{
		Authority: cfg.Governance.Authority,
		Council:   cfg.Governance.Council,
		Threshold: cfg.Governance.Threshold,
		Logger:    logger,
	})
	n.reg = registry.New(registry.Options{
		Authority: cfg.Governance.Authority,
		Logger:    logger,
	})
	n.runner = execute.NewRunner(execute.RunnerOptions{
		Database:   n.db,
		Governance: n.gov,
		Registry:   n.reg,
		Logger:     logger,
	})
	return n
}

func openStore(cfg *config.Config) (keyvalue.Beginner, error) {
	switch cfg.Storage.Type {
	case config.MemoryStorage:
		return memory.New(nil), nil
	case config.BadgerStorage:
		return badger.New(cfg.StoragePath())
	case config.BoltStorage:
		return bolt.Open(cfg.StoragePath())
	default:
		return nil, errors.BadRequest.WithFormat("unknown storage type %q", cfg.Storage.Type)
	}
}

func (n *node) close() {
	err := n.db.Close()
	if err != nil {
		n.logger.Error("Unable to close the database", "error", err)
	}
}

func (n *node) nativeCoin() protocol.CoinType {
	coin, err := protocol.ParseCoinType(n.config.Governance.NativeCoin)
	check(err)
	return coin
}

// view runs fn with a read-only batch.
func (n *node) view(fn func(batch *database.Batch) error) {
	check(n.db.View(fn))
}

// update runs fn with a writable batch and commits if fn succeeds.
func (n *node) update(fn func(batch *database.Batch) error) {
	check(n.db.Update(fn))
}
