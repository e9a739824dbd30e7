// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package ledger

import (
	"context"

	"gitlab.com/accumulatenetwork/stakeledger/pkg/database/keyvalue"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/locator"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/types/staking"
)

// InitializeAdmin creates the admin record. It fails with
// [errors.AlreadyInitialized] if the record exists.
func (l *Ledger) InitializeAdmin(ctx context.Context, bootstrap staking.Identity) (err error) {
	defer func() { observe("initializeAdmin", err) }()

	if bootstrap == "" {
		return errors.BadRequest.With("missing admin identity")
	}

	id := locator.Admin()
	unlock, err := l.locks.Acquire(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	batch := l.db.Begin(nil, true)
	defer batch.Discard()

	ok, err := load(batch, id, new(AdminRecord))
	if err != nil {
		return err
	}
	if ok {
		return errors.AlreadyInitialized.With("admin has already been initialized")
	}

	err = store(batch, id, &AdminRecord{Admin: bootstrap, UpdatedAt: l.now()})
	if err != nil {
		return err
	}

	err = l.commit(batch)
	if err != nil {
		return err
	}

	l.logger.InfoContext(ctx, "Initialized admin", "admin", bootstrap)
	return nil
}

// UpdateAdmin replaces the admin. Only the current admin may call it.
func (l *Ledger) UpdateAdmin(ctx context.Context, caller, newAdmin staking.Identity) (err error) {
	defer func() { observe("updateAdmin", err) }()

	if newAdmin == "" {
		return errors.BadRequest.With("missing admin identity")
	}

	id := locator.Admin()
	unlock, err := l.locks.Acquire(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	batch := l.db.Begin(nil, true)
	defer batch.Discard()

	_, err = l.authorize(batch, caller)
	if err != nil {
		return err
	}

	err = store(batch, id, &AdminRecord{Admin: newAdmin, UpdatedAt: l.now()})
	if err != nil {
		return err
	}

	err = l.commit(batch)
	if err != nil {
		return err
	}

	l.logger.InfoContext(ctx, "Updated admin", "previous", caller, "admin", newAdmin)
	return nil
}

// GetAdmin returns the current admin.
func (l *Ledger) GetAdmin(ctx context.Context) (staking.Identity, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	batch := l.db.Begin(nil, false)
	defer batch.Discard()

	rec, err := loadAdmin(batch)
	if err != nil {
		return "", err
	}
	return rec.Admin, nil
}

func loadAdmin(s keyvalue.Store) (*AdminRecord, error) {
	rec := new(AdminRecord)
	ok, err := load(s, locator.Admin(), rec)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NotInitialized.With("admin has not been initialized")
	}
	return rec, nil
}

// authorize verifies that the caller is the admin. The caller must hold the
// admin lock.
func (l *Ledger) authorize(s keyvalue.Store, caller staking.Identity) (*AdminRecord, error) {
	rec, err := loadAdmin(s)
	if err != nil {
		return nil, err
	}
	if caller == "" || caller != rec.Admin {
		return nil, errors.Unauthorized.WithFormat("%q is not the admin", caller)
	}
	return rec, nil
}
