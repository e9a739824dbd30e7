// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package database

import (
	"fmt"

	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/record"
)

// NotFoundError is returned by key-value stores when a key does not exist. It
// matches [errors.NotFound].
type NotFoundError record.Key

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v not found", (*record.Key)(e))
}

func (e *NotFoundError) Unwrap() error {
	return errors.NotFound
}
