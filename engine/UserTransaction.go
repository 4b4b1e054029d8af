package engine

import (
	"context"

	"github.com/kosatnkn/txservices"
)

// userTransaction is the transaction-control handle of an Engine.
type userTransaction struct {
	engine *Engine
}

var _ txservices.UserTransactionInterface = (*userTransaction)(nil)

// Begin starts a transaction and returns a context carrying it.
func (u *userTransaction) Begin(ctx context.Context) (context.Context, error) {
	return u.engine.begin(ctx)
}

// Commit completes the transaction carried by the context.
func (u *userTransaction) Commit(ctx context.Context) error {

	tx := current(ctx)
	if tx == nil {
		return errNoTransaction
	}

	return u.engine.commit(ctx, tx)
}

// Rollback rolls back the transaction carried by the context.
func (u *userTransaction) Rollback(ctx context.Context) error {

	tx := current(ctx)
	if tx == nil {
		return errNoTransaction
	}

	return u.engine.rollback(ctx, tx)
}

// SetRollbackOnly marks the transaction carried by the context for rollback.
func (u *userTransaction) SetRollbackOnly(ctx context.Context) error {

	tx := current(ctx)
	if tx == nil {
		return errNoTransaction
	}

	return tx.transition(txservices.StatusMarkedRollback,
		txservices.StatusActive,
		txservices.StatusMarkedRollback,
		txservices.StatusPreparing,
		txservices.StatusPrepared)
}

// Status returns the status of the transaction carried by the context.
//
// A completed transaction is no longer associated with the context, so
// StatusNoTransaction is returned for it.
func (u *userTransaction) Status(ctx context.Context) (txservices.Status, error) {

	tx := current(ctx)
	if tx == nil {
		return txservices.StatusNoTransaction, nil
	}

	return tx.Status()
}
