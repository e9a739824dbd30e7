// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package ledger

import "time"

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// LockPolicy decides when a withdrawal request becomes claimable.
type LockPolicy interface {
	// UnlockAt returns the earliest time a request made at the given time can
	// be claimed.
	UnlockAt(requested time.Time) time.Time
}

// DurationLock unlocks a request a fixed period after it was made.
type DurationLock struct {
	Period time.Duration
}

func (l DurationLock) UnlockAt(requested time.Time) time.Time {
	return requested.Add(l.Period)
}

// EpochLock splits time into epochs of a fixed length, aligned to the zero
// time in UTC and shifted by Offset. A request unlocks at the start of the
// Epochs-th epoch after the one it was made in. With a length of one day and
// one epoch, a request made on any day is claimable from the next day on.
type EpochLock struct {
	Length time.Duration
	Offset time.Duration
	Epochs uint
}

func (l EpochLock) UnlockAt(requested time.Time) time.Time {
	if l.Length <= 0 {
		return requested
	}

	start := requested.UTC().Add(-l.Offset).Truncate(l.Length)
	return start.Add(time.Duration(l.Epochs) * l.Length).Add(l.Offset)
}

// DefaultLockPolicy unlocks requests at the next UTC midnight.
func DefaultLockPolicy() LockPolicy {
	return EpochLock{Length: 24 * time.Hour, Epochs: 1}
}
