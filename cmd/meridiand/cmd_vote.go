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
	"gitlab.com/meridianframework/meridian/internal/database"
	"gitlab.com/meridianframework/meridian/protocol"
)

var cmdApprove = &cobra.Command{
	Use:   "approve [proposal ID]",
	Short: "Approve a proposal",
	Args:  cobra.ExactArgs(1),
	Run:   func(cmd *cobra.Command, args []string) { vote(args, true) },
}

var cmdReject = &cobra.Command{
	Use:   "reject [proposal ID]",
	Short: "Reject a proposal",
	Args:  cobra.ExactArgs(1),
	Run:   func(cmd *cobra.Command, args []string) { vote(args, false) },
}

var flagVote struct {
	Member string
}

func init() {
	cmdMain.AddCommand(cmdApprove, cmdReject)

	for _, cmd := range []*cobra.Command{cmdApprove, cmdReject} {
		cmd.Flags().StringVarP(&flagVote.Member, "member", "m", "", "Council member casting the vote")
		_ = cmd.MarkFlagRequired("member")
	}
}

func vote(args []string, approve bool) {
	id, err := strconv.ParseUint(args[0], 10, 64)
	checkf(err, "invalid proposal ID %q", args[0])

	n := openNode()
	defer n.close()

	n.update(func(batch *database.Batch) error {
		var p *protocol.Proposal
		var err error
		if approve {
			p, err = n.gov.Approve(batch, id, flagVote.Member)
		} else {
			p, err = n.gov.Reject(batch, id, flagVote.Member)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Proposal %d is %v\n", p.ID, p.Status)
		return nil
	})
}
