// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package ledger implements the staking ledger: the admin and interest
// registries, per-staker action logs, and the deposit, withdrawal, claim, and
// rescue protocol.
//
// Every operation runs as one change set over the records it touches. The
// records are staged first, then funds are moved through the custodian, then
// the change set is committed. If the commit fails, the transfer is
// reversed.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"gitlab.com/accumulatenetwork/stakeledger/pkg/custodian"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/locator"
)

type Ledger struct {
	db        keyvalue.Beginner
	custodian custodian.Custodian
	clock     Clock
	policy    LockPolicy
	logger    *slog.Logger
	locks     *lockSet
}

type Options struct {
	Database  keyvalue.Beginner
	Custodian custodian.Custodian

	// Clock defaults to the system clock.
	Clock Clock

	// LockPolicy defaults to [DefaultLockPolicy].
	LockPolicy LockPolicy

	// Logger defaults to [slog.Default].
	Logger *slog.Logger
}

func New(opts Options) (*Ledger, error) {
	if opts.Database == nil {
		return nil, errors.BadRequest.With("missing database")
	}
	if opts.Custodian == nil {
		return nil, errors.BadRequest.With("missing custodian")
	}

	l := new(Ledger)
	l.db = opts.Database
	l.custodian = opts.Custodian
	l.clock = opts.Clock
	l.policy = opts.LockPolicy
	l.logger = opts.Logger
	l.locks = newLockSet()

	if l.clock == nil {
		l.clock = SystemClock{}
	}
	if l.policy == nil {
		l.policy = DefaultLockPolicy()
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	l.logger = l.logger.With("module", "ledger")
	return l, nil
}

func (l *Ledger) now() time.Time {
	return l.clock.Now().UTC()
}

// observe counts an operation by its result.
func observe(op string, err error) {
	status := "ok"
	if err != nil {
		status = errors.Code(err).String()
	}
	mOperations.WithLabelValues(op, status).Inc()
}

// commit commits the change set.
func (l *Ledger) commit(batch keyvalue.ChangeSet) error {
	start := time.Now()
	err := batch.Commit()
	mCommitDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return errors.UnknownError.WithFormat("commit: %w", err)
	}
	return nil
}

// settle moves funds and then commits the change set. If the commit fails,
// the transfer is reversed so the custodian and the ledger agree.
func (l *Ledger) settle(ctx context.Context, batch keyvalue.ChangeSet, from, to locator.AccountID, amount uint64) error {
	err := custodian.Transfer(ctx, l.custodian, from, to, amount)
	if err != nil {
		return err
	}

	err = l.commit(batch)
	if err == nil {
		return nil
	}

	err2 := custodian.Transfer(context.WithoutCancel(ctx), l.custodian, to, from, amount)
	if err2 != nil {
		l.logger.ErrorContext(ctx, "Failed to reverse a transfer after a failed commit",
			"from", from, "to", to, "amount", amount, "error", err, "reverse-error", err2)
		return errors.InternalError.WithFormat("%w; reverse transfer: %v", err, err2)
	}
	return err
}
