// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/meridianframework/meridian/internal/core/execute"
	"gitlab.com/meridianframework/meridian/internal/database"
	"gitlab.com/meridianframework/meridian/protocol"
)

var cmdPropose = &cobra.Command{
	Use:   "propose [proposal file]",
	Short: "Submit a proposal from a YAML definition file",
	Args:  cobra.MaximumNArgs(1),
	Run:   propose,
}

var flagPropose struct {
	Native    bool
	Submitter string
}

func init() {
	cmdMain.AddCommand(cmdPropose)

	cmdPropose.Flags().BoolVar(&flagPropose.Native, "native", false, "Submit the native coin conversion proposal")
	cmdPropose.Flags().StringVarP(&flagPropose.Submitter, "submitter", "s", "", "Council member submitting the proposal")
}

func propose(_ *cobra.Command, args []string) {
	n := openNode()
	defer n.close()

	var title string
	var submitter string
	var payloads []protocol.Payload
	switch {
	case flagPropose.Native:
		if len(args) > 0 {
			fatalf("--native cannot be combined with a proposal file")
		}
		title = fmt.Sprintf("Enable conversion for %v", n.nativeCoin())
		payloads = execute.NativeConversionPayloads()

	case len(args) == 1:
		f, err := loadProposalFile(args[0])
		checkf(err, "load %s", args[0])
		payloads, err = f.payloads(n.nativeCoin())
		checkf(err, "load %s", args[0])
		title = f.Title
		submitter = f.Submitter

	default:
		fatalf("a proposal file or --native is required")
	}

	if flagPropose.Submitter != "" {
		submitter = flagPropose.Submitter
	}
	if submitter == "" {
		fatalf("a submitter is required")
	}

	n.update(func(batch *database.Batch) error {
		p, err := n.gov.Submit(batch, title, submitter, payloads)
		if err != nil {
			return err
		}
		fmt.Printf("Submitted proposal %d with %d step(s)\n", p.ID, len(p.Steps))
		return nil
	})
}
