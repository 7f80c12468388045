// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package meridian

const unknownVersion = "version unknown"

// Version is set via ldflags at build time.
var Version = unknownVersion

func IsVersionKnown() bool {
	return Version != unknownVersion
}
