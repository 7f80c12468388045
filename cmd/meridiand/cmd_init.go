// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gitlab.com/meridianframework/meridian/config"
)

var cmdInit = &cobra.Command{
	Use:   "init",
	Short: "Initialize the working directory",
	Args:  cobra.NoArgs,
	Run:   initNode,
}

var flagInit struct {
	Storage   string
	Council   []string
	Threshold int
	LogLevel  string
	Force     bool
}

func init() {
	cmdMain.AddCommand(cmdInit)

	cmdInit.Flags().StringVar(&flagInit.Storage, "storage", "badger", "Storage backend: memory, badger, or bolt")
	cmdInit.Flags().StringSliceVar(&flagInit.Council, "council", nil, "Council members allowed to submit and vote on proposals")
	cmdInit.Flags().IntVar(&flagInit.Threshold, "threshold", 0, "Number of approvals required to approve a proposal")
	cmdInit.Flags().StringVar(&flagInit.LogLevel, "log-level", "info", "Minimum log level")
	cmdInit.Flags().BoolVarP(&flagInit.Force, "force", "f", false, "Overwrite an existing configuration")
}

func initNode(*cobra.Command, []string) {
	_, err := config.Load(flagMain.WorkDir)
	if err == nil && !flagInit.Force {
		fatalf("%s is already initialized, use --force to overwrite", flagMain.WorkDir)
	}

	c := config.Default(flagMain.WorkDir)
	c.Storage.Type = config.StorageType(flagInit.Storage)
	if flagInit.Council != nil {
		c.Governance.Council = flagInit.Council
	}
	if flagInit.Threshold > 0 {
		c.Governance.Threshold = flagInit.Threshold
	}
	c.Logging.Level = flagInit.LogLevel

	if c.Governance.Threshold > len(c.Governance.Council) {
		fatalf("threshold %d exceeds the council size %d", c.Governance.Threshold, len(c.Governance.Council))
	}

	check(os.MkdirAll(flagMain.WorkDir, 0755))
	check(config.Store(c))

	fmt.Printf("Initialized %s\n", filepath.Clean(flagMain.WorkDir))
}
