// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package database

import (
	"fmt"

	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/pkg/types/record"
)

// NotFoundError is returned when a record does not exist. It wraps the key of
// the record, and unwraps to [errors.NotFound] so that errors.Is works.
type NotFoundError record.Key

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v not found", (*record.Key)(e))
}

func (e *NotFoundError) Is(target error) bool {
	switch target.(type) {
	case *NotFoundError:
		return true
	}
	return errors.Is(errors.NotFound, target)
}

func (e *NotFoundError) Unwrap() error { return errors.NotFound }
