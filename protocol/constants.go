// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

// RootAuthority is the framework's root account. Privileged registry
// operations require an authority resolved for this account.
const RootAuthority = "meridian.gov"

// Genesis council members. Overridable via configuration; these are the
// defaults a fresh network starts with.
var DefaultCouncil = []string{
	"council.alpha",
	"council.bravo",
	"council.charlie",
}

// DefaultApprovalThreshold is the number of council approvals required
// before a proposal becomes executable.
const DefaultApprovalThreshold = 2
