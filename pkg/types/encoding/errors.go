// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package encoding

import "errors"

var ErrFieldOrder = errors.New("fields must be written in order of increasing field number")
var ErrNotEnoughData = errors.New("not enough data")
