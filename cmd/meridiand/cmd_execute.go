// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gitlab.com/meridianframework/meridian/protocol"
)

var cmdExecute = &cobra.Command{
	Use:   "execute [proposal ID]",
	Short: "Execute an approved proposal",
	Long: "Execute an approved proposal. Unless --file supplies the proposal's " +
		"step definitions, the native coin conversion sequence is assumed. " +
		"Execution fails unless the payloads match the hashes the proposal " +
		"was submitted with.",
	Args: cobra.ExactArgs(1),
	Run:  executeProposal,
}

var flagExecute struct {
	File string
}

func init() {
	cmdMain.AddCommand(cmdExecute)

	cmdExecute.Flags().StringVarP(&flagExecute.File, "file", "f", "", "YAML definition file the proposal was submitted from")
}

func executeProposal(_ *cobra.Command, args []string) {
	id, err := strconv.ParseUint(args[0], 10, 64)
	checkf(err, "invalid proposal ID %q", args[0])

	n := openNode()
	defer n.close()

	var payloads []protocol.Payload
	if flagExecute.File != "" {
		f, err := loadProposalFile(flagExecute.File)
		checkf(err, "load %s", flagExecute.File)
		payloads, err = f.payloads(n.nativeCoin())
		checkf(err, "load %s", flagExecute.File)
	}

	if payloads == nil {
		err = n.runner.RunNativeConversion(id)
	} else {
		err = n.runner.ExecuteProposal(id, payloads)
	}
	checkf(err, "execute proposal %d", id)

	fmt.Printf("Executed proposal %d\n", id)
}
