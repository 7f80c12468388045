// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package governance

// An Authority is the capability produced by resolving an approved proposal
// step. It is the only value the registry accepts as proof of privilege, and
// it cannot be constructed outside this package.
type Authority struct {
	name     string
	proposal uint64
	step     int
}

// Name returns the name of the root authority the capability acts for.
func (a *Authority) Name() string { return a.name }

// Proposal returns the ID of the proposal the capability was resolved from.
func (a *Authority) Proposal() uint64 { return a.proposal }

// Step returns the index of the proposal step the capability was resolved
// from.
func (a *Authority) Step() int { return a.step }
