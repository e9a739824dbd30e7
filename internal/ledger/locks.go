// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package ledger

import (
	"context"
	"slices"
	"sync"

	"gitlab.com/accumulatenetwork/stakeledger/pkg/locator"
	"golang.org/x/sync/semaphore"
)

// lockSet serializes operations by account. Locks are always taken in
// ascending order so two operations cannot deadlock.
type lockSet struct {
	mu    sync.Mutex
	locks map[locator.AccountID]*accountLock
}

type accountLock struct {
	sem  *semaphore.Weighted
	refs int
}

func newLockSet() *lockSet {
	return &lockSet{locks: map[locator.AccountID]*accountLock{}}
}

// Acquire locks every account and returns a function that releases them. It
// returns the context's error if the context is done before every lock is
// held, in which case nothing is left locked.
func (s *lockSet) Acquire(ctx context.Context, ids ...locator.AccountID) (func(), error) {
	ids = slices.Clone(ids)
	slices.SortFunc(ids, locator.AccountID.Compare)
	ids = slices.Compact(ids)

	held := make([]locator.AccountID, 0, len(ids))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			s.put(held[i], true)
		}
	}

	for _, id := range ids {
		l := s.get(id)
		err := l.sem.Acquire(ctx, 1)
		if err != nil {
			s.put(id, false)
			release()
			return nil, err
		}
		held = append(held, id)
	}
	return release, nil
}

func (s *lockSet) get(id locator.AccountID) *accountLock {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &accountLock{sem: semaphore.NewWeighted(1)}
		s.locks[id] = l
	}
	l.refs++
	return l
}

func (s *lockSet) put(id locator.AccountID, held bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.locks[id]
	if held {
		l.sem.Release(1)
	}
	l.refs--
	if l.refs == 0 {
		delete(s.locks, id)
	}
}
