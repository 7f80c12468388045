// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gitlab.com/meridianframework/meridian/internal/database"
	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/protocol"
)

var cmdStatus = &cobra.Command{
	Use:   "status",
	Short: "Show proposals and registered pairings",
	Args:  cobra.NoArgs,
	Run:   showStatus,
}

func init() {
	cmdMain.AddCommand(cmdStatus)
}

func showStatus(*cobra.Command, []string) {
	n := openNode()
	defer n.close()

	n.view(func(batch *database.Batch) error {
		proposals, err := n.gov.ListProposals(batch)
		if err != nil {
			return err
		}

		color.New(color.Bold).Println("Proposals")
		if len(proposals) == 0 {
			fmt.Println("  (none)")
		} else {
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Title", "Status", "Steps", "Approvals", "Submitted"})
			for _, p := range proposals {
				done := 0
				for _, s := range p.Steps {
					if s.Executed {
						done++
					}
				}
				table.Append([]string{
					strconv.FormatUint(p.ID, 10),
					p.Title,
					colorStatus(p.Status),
					fmt.Sprintf("%d/%d", done, len(p.Steps)),
					strconv.Itoa(len(p.Approvals)),
					humanize.Time(p.SubmittedAt),
				})
			}
			table.Render()
		}

		fmt.Println()
		color.New(color.Bold).Println("Conversion map")
		m, err := n.reg.ConversionMap(batch)
		switch {
		case errors.Is(err, errors.NotFound):
			fmt.Println("  (not created)")
			return nil
		case err != nil:
			return err
		}

		fmt.Printf("  Created by proposal %d %s\n", m.CreatedBy, humanize.Time(m.CreatedAt))
		fmt.Printf("  Migration enabled: %v\n", m.MigrationEnabled)

		pairings, err := n.reg.ListPairings(batch)
		if err != nil {
			return err
		}
		if len(pairings) == 0 {
			fmt.Println("  (no pairings)")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Coin", "Asset", "Symbol", "Decimals", "Proposal", "Registered"})
		for _, p := range pairings {
			md, err := n.reg.AssetMetadata(batch, p.Coin)
			if err != nil {
				return err
			}
			table.Append([]string{
				p.Coin.String(),
				p.Asset.String(),
				md.Symbol,
				strconv.FormatUint(md.Decimals, 10),
				strconv.FormatUint(p.Proposal, 10),
				humanize.Time(p.RegisteredAt),
			})
		}
		table.Render()
		return nil
	})
}

func colorStatus(s protocol.ProposalStatus) string {
	switch s {
	case protocol.ProposalApproved, protocol.ProposalExecuted:
		return color.GreenString(s.String())
	case protocol.ProposalRejected, protocol.ProposalFailed:
		return color.RedString(s.String())
	default:
		return s.String()
	}
}
