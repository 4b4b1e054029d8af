package txservices

import (
	"context"
	"errors"
	"fmt"
)

// TxAdapter demarcates transactions through a transaction-control handle.
type TxAdapter struct {
	ut UserTransactionInterface
}

var _ TxAdapterInterface = (*TxAdapter)(nil)

// NewTxAdapter creates a new transaction adapter over the handle.
func NewTxAdapter(ut UserTransactionInterface) *TxAdapter {

	return &TxAdapter{
		ut: ut,
	}
}

// Wrap runs the content of the function in a single transaction.
//
// When the context already carries an active transaction the function joins
// it and the transaction is left for the outermost Wrap to complete. A joined
// function that fails marks the transaction for rollback.
//
// Otherwise a transaction is begun, committed when the function succeeds and
// rolled back when it fails or panics.
func (a *TxAdapter) Wrap(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (res interface{}, err error) {

	status, err := a.ut.Status(ctx)
	if err != nil {
		return nil, err
	}

	// join the enclosing transaction
	if status.IsActive() {
		res, err = fn(ctx)
		if err != nil {
			_ = a.ut.SetRollbackOnly(ctx)
			return nil, err
		}
		return res, nil
	}

	txCtx, err := a.ut.Begin(ctx)
	if err != nil {
		return nil, err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = a.ut.Rollback(txCtx)
			panic(p)
		}
	}()

	res, err = fn(txCtx)
	if err != nil {
		if rbErr := a.ut.Rollback(txCtx); rbErr != nil && !errors.Is(rbErr, ErrIllegalState) {
			return nil, fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return nil, err
	}

	err = a.ut.Commit(txCtx)
	if err != nil {
		return nil, err
	}

	return res, nil
}
